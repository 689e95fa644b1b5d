package model

import (
	"fmt"
	"sort"
	"strings"
)

// Edit replaces the bytes [Start, End) of a document with Text. An edit with
// Start == End is an insertion.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Segment is a piece of rewritten output. Rewritten is false for spans that
// were copied from the original text.
type Segment struct {
	Text      string
	Rewritten bool
}

// Document is a stylesheet under transformation: the original text plus the
// edits recorded against it. Edits are applied all at once so offsets always
// refer to the original text.
type Document struct {
	text  string
	edits []Edit
}

// NewDocument wraps text for editing.
func NewDocument(text string) *Document {
	return &Document{text: text}
}

// Text returns the original text.
func (d *Document) Text() string {
	return d.text
}

// Replace records a replacement of [start, end) with text.
func (d *Document) Replace(start, end int, text string) {
	d.edits = append(d.edits, Edit{Start: start, End: end, Text: text})
}

// Insert records an insertion of text at offset.
func (d *Document) Insert(offset int, text string) {
	d.Replace(offset, offset, text)
}

// Edits returns the recorded edits in application order.
func (d *Document) Edits() []Edit {
	edits := make([]Edit, len(d.edits))
	copy(edits, d.edits)

	// Insertions sort before a replacement starting at the same offset.
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Start != edits[j].Start {
			return edits[i].Start < edits[j].Start
		}

		return edits[i].End-edits[i].Start < edits[j].End-edits[j].Start
	})

	return edits
}

// Changed reports whether any edit was recorded.
func (d *Document) Changed() bool {
	return len(d.edits) > 0
}

// Segments splits the output into original and rewritten pieces.
// Concatenating the segment texts yields the output of Apply.
func (d *Document) Segments() ([]Segment, error) {
	edits := d.Edits()
	segments := make([]Segment, 0, 2*len(edits)+1)
	cursor := 0

	for _, edit := range edits {
		if edit.Start < cursor || edit.End < edit.Start || edit.End > len(d.text) {
			return nil, fmt.Errorf("edit [%d,%d) overlaps or is out of range (cursor %d, length %d)",
				edit.Start, edit.End, cursor, len(d.text))
		}

		if edit.Start > cursor {
			segments = append(segments, Segment{Text: d.text[cursor:edit.Start]})
		}

		segments = append(segments, Segment{Text: edit.Text, Rewritten: true})
		cursor = edit.End
	}

	if cursor < len(d.text) {
		segments = append(segments, Segment{Text: d.text[cursor:]})
	}

	return segments, nil
}

// Apply returns the text with every edit applied.
func (d *Document) Apply() (string, error) {
	if !d.Changed() {
		return d.text, nil
	}

	segments, err := d.Segments()
	if err != nil {
		return "", err
	}

	var b strings.Builder

	b.Grow(len(d.text))

	for _, segment := range segments {
		b.WriteString(segment.Text)
	}

	return b.String(), nil
}
