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
)

// DefaultMaxDisplayed is the default suppression budget: the maximum
// number of references outside the origin's file that are rendered before
// the rest are dropped and summarized in a footer.
const DefaultMaxDisplayed = 5

// Printer accumulates one diagnostic — a primary message and location plus
// any number of secondary references — and renders it as a sequence of
// sections handed to a [Sink].
//
// A Printer is not safe for concurrent use, and is meant to be built,
// printed exactly once, and discarded.
type Printer struct {
	// The suppression budget. Defaults to [DefaultMaxDisplayed].
	MaxDisplayed int

	// If set, rendered sections are enriched with ANSI color escapes.
	Colorize bool

	// If set, renders the primary origin's ancestry chain at the top of the
	// origin file's section whenever the origin has a parent.
	Stack StackPrinter

	isError bool
	tag     string

	origin  Origin
	message string

	// References on the same file and line as the primary origin.
	originLine *refSet
	// All other references, bucketed by file path. Disjoint from
	// originLine by construction.
	files map[string]*refSet

	nextIndex  int
	suppressed int
}

// ErrorCode returns a printer for an error diagnostic with the given
// machine-readable tag.
func ErrorCode(tag string) *Printer {
	return newPrinter(true, tag)
}

// WarningCode returns a printer for a warning diagnostic with the given
// machine-readable tag.
func WarningCode(tag string) *Printer {
	return newPrinter(false, tag)
}

func newPrinter(isError bool, tag string) *Printer {
	return &Printer{
		MaxDisplayed: DefaultMaxDisplayed,
		isError:      isError,
		tag:          tag,
		originLine:   newRefSet(),
		files:        make(map[string]*refSet),
	}
}

// WithMessage sets the primary origin and headline message, replacing any
// previous primary.
func (p *Printer) WithMessage(origin Origin, message string) *Printer {
	p.origin = origin
	p.message = message
	return p
}

// WithSource adds a secondary reference. References on the same file and
// line as the primary origin are rendered directly under the headline;
// everything else is grouped into per-file sections.
//
// The message may be empty, in which case the reference renders as a bare
// underline.
func (p *Printer) WithSource(origin Origin, message string) *Printer {
	return p.WithReference(Reference{Origin: origin, Message: message})
}

// WithReference is like [Printer.WithSource], but takes a pre-built
// [Reference].
func (p *Printer) WithReference(ref Reference) *Printer {
	// Stamp the arrival order for tie-breaks when multiple references land
	// on the same token.
	ref.index = p.nextIndex
	p.nextIndex++

	if ref.Origin.OnSameLine(p.origin) {
		p.originLine.insert(ref)
	} else {
		path := ref.Origin.Path()
		bucket := p.files[path]
		if bucket == nil {
			bucket = newRefSet()
			p.files[path] = bucket
		}
		bucket.insert(ref)
	}
	return p
}

// Print renders the diagnostic and hands the result to sink, dispatching
// on severity.
//
// Print panics if no primary origin was set with [Printer.WithMessage]:
// rendering an origin-less diagnostic is a programming error, not a
// recoverable condition.
func (p *Printer) Print(sink Sink) error {
	if p.origin.IsZero() {
		panic(fmt.Sprintf("codeprint: %s %q is missing its origin", p.severity(), p.tag))
	}

	// Suppress references if there are too many.
	p.suppress()

	c := newStyleSheet(p.Colorize)
	sections := p.sections(c)
	if p.suppressed > 0 {
		sections = append(sections, p.suppressedMessage(c))
	}

	if p.isError {
		return sink.Error(p.message, p.tag, sections)
	}
	return sink.Warning(p.message, p.tag, sections)
}

func (p *Printer) severity() string {
	if p.isError {
		return "error"
	}
	return "warning"
}

// suppress bounds the rendered references to the display budget. Files are
// visited in the same order that rendering uses; whole buckets are kept
// while the budget lasts, the first overflowing bucket is truncated to the
// remaining budget, and every later bucket is dropped entirely.
//
// The origin's own file is always rendered in full and is exempt.
//
// Returns the number of newly dropped references. Calling suppress on an
// already-trimmed printer drops nothing.
func (p *Printer) suppress() int {
	available := p.MaxDisplayed
	var dropped int

	for _, path := range p.sortedFiles() {
		if path == p.origin.Path() {
			continue
		}

		bucket := p.files[path]
		count := bucket.len()
		if available >= count {
			available -= count
			continue
		}

		dropped += count - available
		bucket.truncate(available)
		available = 0
	}

	p.suppressed += dropped
	return dropped
}

// sections renders the origin file's section followed by one section per
// remaining file, in sorted file order.
func (p *Printer) sections(c styleSheet) []string {
	sections := []string{p.originFileSection(c)}

	for _, path := range p.sortedFiles() {
		if path == p.origin.Path() {
			continue
		}

		refs := p.files[path].items()
		if len(refs) == 0 {
			continue
		}

		var out strings.Builder
		p.renderFileSet(&out, refs, -1, true, c)
		sections = append(sections, out.String())
	}

	return sections
}

func (p *Printer) suppressedMessage(c styleSheet) string {
	return fmt.Sprintf(
		"%sSuppressed %d additional %s%s%s\n",
		c.nWarning, p.suppressed, p.severity(), plural(p.suppressed), c.reset,
	)
}

func (p *Printer) sortedFiles() []string {
	paths := make([]string, 0, len(p.files))
	for path := range p.files {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}
