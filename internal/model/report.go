package model

// WarningKind classifies recoverable problems found while migrating.
type WarningKind string

const (
	// WarningMalformedBlock marks unbalanced braces. Text past the malformed
	// point is copied verbatim.
	WarningMalformedBlock WarningKind = "malformed-block"
	// WarningUnterminated marks a comment or string that runs to the end of
	// the document.
	WarningUnterminated WarningKind = "unterminated"
)

// Warning is a non-fatal problem in one document.
type Warning struct {
	Kind    WarningKind `yaml:"kind"`
	Offset  int         `yaml:"offset"`
	Line    int         `yaml:"line"`
	Message string      `yaml:"message"`
}

// NamespaceBinding is the alias under which a document imports the theming
// module. Global is set for `as *` imports, where mixins are used unprefixed.
type NamespaceBinding struct {
	Alias  string
	Found  bool
	Global bool
}

// Stats counts the rewrites applied to a document.
type Stats struct {
	Mixins   int `yaml:"mixins"`
	Classes  int `yaml:"classes"`
	Comments int `yaml:"comments"`
}

// Add returns the sum of two Stats.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		Mixins:   s.Mixins + other.Mixins,
		Classes:  s.Classes + other.Classes,
		Comments: s.Comments + other.Comments,
	}
}

// Total returns the number of rewrites.
func (s Stats) Total() int {
	return s.Mixins + s.Classes + s.Comments
}

// FileResult holds the migration outcome for a single stylesheet.
type FileResult struct {
	Path     Path      `yaml:"path"`
	Changed  bool      `yaml:"changed"`
	Stats    Stats     `yaml:"stats"`
	Warnings []Warning `yaml:"warnings,omitempty"`
	Diff     string    `yaml:"-"`
	Err      error     `yaml:"-"`
	Error    string    `yaml:"error,omitempty"`
}

// Summary aggregates the results of one migration run.
type Summary struct {
	Components []string     `yaml:"components"`
	DryRun     bool         `yaml:"dryRun"`
	Files      []FileResult `yaml:"files"`
}

// Totals sums the stats of every file.
func (s Summary) Totals() Stats {
	var total Stats
	for _, file := range s.Files {
		total = total.Add(file.Stats)
	}

	return total
}

// ChangedFiles counts files with at least one rewrite.
func (s Summary) ChangedFiles() int {
	count := 0

	for _, file := range s.Files {
		if file.Changed {
			count++
		}
	}

	return count
}

// FailedFiles counts files that could not be processed.
func (s Summary) FailedFiles() int {
	count := 0

	for _, file := range s.Files {
		if file.Err != nil || file.Error != "" {
			count++
		}
	}

	return count
}
