// Package diff compares line-oriented texts using the sergi/go-diff library.
// The watch command uses it to show how a program edit changed the set of
// templates.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineType represents the type of diff line
type LineType int

const (
	LineContext LineType = iota // Unchanged line
	LineAdded                   // Added line
	LineRemoved                 // Removed line
)

// Line represents a single line in the diff
type Line struct {
	Content string
	Type    LineType
}

// Engine computes line diffs.
type Engine struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewEngine creates a new diff engine.
func NewEngine() *Engine {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // Disable timeout for accuracy
	return &Engine{dmp: dmp}
}

// DefaultEngine is a singleton engine for general use
var DefaultEngine = NewEngine()

// Lines diffs old against new line by line. A trailing newline does not
// produce an empty final line.
func (e *Engine) Lines(oldContent, newContent string) []Line {
	// Line-level reduction avoids newline boundary artifacts.
	a, b, lineArray := e.dmp.DiffLinesToChars(oldContent, newContent)
	diffs := e.dmp.DiffMain(a, b, false)
	diffs = e.dmp.DiffCharsToLines(diffs, lineArray)

	var lines []Line
	for _, d := range diffs {
		typ := LineContext
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			typ = LineAdded
		case diffmatchpatch.DiffDelete:
			typ = LineRemoved
		}
		for _, content := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			if content == "" && d.Text == "" {
				continue
			}
			lines = append(lines, Line{Content: content, Type: typ})
		}
	}
	return lines
}

// Lines is a convenience function using the default engine.
func Lines(oldContent, newContent string) []Line {
	return DefaultEngine.Lines(oldContent, newContent)
}

// Count returns the number of added and removed lines.
func Count(lines []Line) (added, removed int) {
	for _, l := range lines {
		switch l.Type {
		case LineAdded:
			added++
		case LineRemoved:
			removed++
		}
	}
	return added, removed
}

// WriteChanges writes the added and removed lines with "+ " and "- "
// prefixes, skipping unchanged ones.
func WriteChanges(w io.Writer, lines []Line) {
	for _, l := range lines {
		switch l.Type {
		case LineAdded:
			fmt.Fprintf(w, "+ %s\n", l.Content)
		case LineRemoved:
			fmt.Fprintf(w, "- %s\n", l.Content)
		}
	}
}
