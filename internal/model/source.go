// Package model defines the data structures shared by the migration layers.
package model

// Path represents a file system path.
type Path string

// File represents a stylesheet discovered in the target project.
type File struct {
	Path      Path
	ShortPath Path // relative to the directory the scan started from
	Hash      string
}
