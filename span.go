// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codeprint

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// File is a source code file involved in a diagnostic.
//
// It contains additional book-keeping information for resolving span
// locations. The file's contents belong to the caller and must outlive any
// [Printer] that refers to them; this package only ever borrows them.
//
// Two File values with the same path are treated as the same file for
// ordering and grouping purposes, regardless of their contents.
//
// A nil *File behaves like an empty file with the path name "".
type File struct {
	path, text string

	once sync.Once
	// Start offsets for each line of text, computed on demand. Given a byte
	// offset, the containing line is recovered with a binary search on this
	// list.
	lineIndex []int
}

// NewFile constructs a new source file.
func NewFile(path, text string) *File {
	return &File{path: path, text: text}
}

// Path returns this file's filesystem path.
//
// It doesn't need to be a real path, but it is used as the file's identity
// when ordering references and grouping them into sections.
func (f *File) Path() string {
	if f == nil {
		return ""
	}

	return f.path
}

// Text returns this file's textual contents.
func (f *File) Text() string {
	if f == nil {
		return ""
	}

	return f.text
}

// Span is a shorthand for creating a new Span.
func (f *File) Span(start, end int) Span {
	if f == nil {
		return Span{}
	}

	return Span{f, start, end}
}

// Location searches this file's line index to build full Location
// information for the given byte offset. Columns are measured in terminal
// cells, with tabstops expanded.
//
// This operation is O(log n).
func (f *File) Location(offset int) Location {
	if f == nil && offset == 0 {
		return Location{Offset: 0, Line: 1, Column: 1}
	}

	lines := f.lines()

	// Find the greatest index such that lines[line] <= offset.
	line, exact := slices.BinarySearch(lines, offset)
	if !exact {
		line--
	}

	chunk := f.Text()[lines[line]:offset]
	return Location{
		Offset: offset,
		Line:   line + 1,
		Column: stringWidth(0, chunk, nil) + 1,
	}
}

// Line returns the text of the given line, without its trailing newline.
//
// line is expected to be 1-indexed.
func (f *File) Line(line int) string {
	start, end := f.LineOffsets(line)
	return strings.TrimSuffix(f.text[start:end], "\n")
}

// LineOffsets returns the offsets for the given line, including its
// trailing newline (if the line has one).
//
// line is expected to be 1-indexed.
func (f *File) LineOffsets(line int) (start, end int) {
	lines := f.lines()
	start = lines[line-1]
	if line < len(lines) {
		return start, lines[line]
	}
	return start, len(f.text)
}

func (f *File) lines() []int {
	// Compute the line index on-demand.
	f.once.Do(func() {
		f.lineIndex = append(f.lineIndex, 0)

		// We add 1 to the return value of IndexByte because we want to work
		// with the index immediately *after* the newline byte.
		var next int
		text := f.Text()
		for {
			newline := strings.IndexByte(text[next:], '\n') + 1
			if newline == 0 || next+newline == len(text) {
				break
			}

			next += newline
			f.lineIndex = append(f.lineIndex, next)
		}
	})
	return f.lineIndex
}

// Span is a location within a [File]: the byte range [Start, End).
//
// Spans are immutable values; once created they are only ever copied.
type Span struct {
	// The file this span refers to.
	*File

	// The start and end byte offsets for this span.
	Start, End int
}

// IsZero returns whether or not this is the zero span.
func (s Span) IsZero() bool {
	return s.File == nil
}

// Text returns the text corresponding to this span.
func (s Span) Text() string {
	return s.File.Text()[s.Start:s.End]
}

// Len returns the length of this span, in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// StartLoc returns the start location for this span.
func (s Span) StartLoc() Location {
	return s.File.Location(s.Start)
}

// EndLoc returns the end location for this span.
func (s Span) EndLoc() Location {
	return s.File.Location(s.End)
}

// String implements [fmt.Stringer].
func (s Span) String() string {
	start := s.StartLoc()
	return fmt.Sprintf("%q:%d:%d[%d:%d]", s.Path(), start.Line, start.Column, s.Start, s.End)
}

// Location is a user-displayable location within a source code file.
type Location struct {
	// The byte offset for this location.
	Offset int

	// The line and column for this location, 1-indexed.
	//
	// Columns are measured in terminal cells: tabstops are expanded and
	// wide runes count for their rendered width.
	//
	// Because these are 1-indexed, a zero Line can be used as a sentinel.
	Line, Column int
}
