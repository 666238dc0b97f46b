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
	"iter"
	"slices"
	"strings"
)

// originDivider separates the primary origin's line from the rest of the
// origin file's references.
const originDivider = "^^^"

// sidebarWidth is the width of the line-number gutter for the given
// maximum line number: one cell of padding on either side of the digits.
func sidebarWidth(maxLine int) int {
	return 2 + digits(maxLine)
}

// originFileSection renders the section for the primary origin's file: the
// ancestry stack (if any), the references sharing the origin's line, an
// optional divider, and the file's remaining references.
func (p *Printer) originFileSection(c styleSheet) string {
	var out strings.Builder

	if p.origin.Parent != nil && p.Stack != nil {
		p.Stack.PrintStack(&out, p.origin.Parent)
	}

	var fileRefs []Reference
	if bucket := p.files[p.origin.Path()]; bucket != nil {
		fileRefs = bucket.items()
	}
	originRefs := p.originLine.items()

	// The origin's line participates in the sidebar width so that every
	// block of this section lines up.
	maxLine := p.origin.StartLoc().Line
	originIsFirst := true
	for _, ref := range fileRefs {
		maxLine = max(maxLine, ref.Origin.StartLoc().Line)
		if !ref.Origin.OnSameLine(p.origin) && ref.Origin.Start < p.origin.Start {
			originIsFirst = false
		}
	}
	sidebar := sidebarWidth(maxLine)

	// If the origin message is the first thing printed for this file, a
	// divider splitting it from the file's other references is redundant.
	needsDivider := !originIsFirst && len(originRefs) > 0 && len(fileRefs) > 0

	p.renderFileSet(&out, originRefs, sidebar, true, c)
	if needsDivider {
		padBy(&out, sidebar-len(originDivider)/2)
		out.WriteString(originDivider)
		out.WriteByte('\n')
	}
	// If nothing rendered on the origin's line, the filename header falls to
	// the rest of the file's references instead.
	p.renderFileSet(&out, fileRefs, sidebar, len(originRefs) == 0, c)

	return out.String()
}

// renderFileSet renders an ordered set of references belonging to a single
// file: one copy of each annotated source line, caret underlines, and the
// messages attached to each line.
//
// If sidebar is negative, it is computed from the largest line number in
// refs. If withFilename is set, the section opens with the file's path.
func (p *Printer) renderFileSet(out *strings.Builder, refs []Reference, sidebar int, withFilename bool, c styleSheet) {
	if len(refs) == 0 {
		return
	}

	if withFilename {
		fmt.Fprintf(out, "%s%s%s\n", c.nAccent, refs[0].Origin.Path(), c.reset)
	}

	if sidebar < 0 {
		// refs is already sorted, so the last reference has the greatest
		// line number.
		sidebar = sidebarWidth(refs[len(refs)-1].Origin.StartLoc().Line)
	}

	byLine := partition(refs, func(a, b *Reference) bool {
		return !a.Origin.OnSameLine(b.Origin)
	})
	for _, group := range byLine {
		p.renderLineGroup(out, group, sidebar, c)
	}
}

// caretSpan is a half-open range of terminal columns underlined together.
type caretSpan struct {
	start, end int
}

// renderLineGroup renders one annotated source line. References whose
// column ranges overlap are merged into a single shared underline;
// disjoint ranges each get their own run of carets. Messages follow in
// reverse arrival order, so the most recently added message sits closest
// to the source line.
func (p *Printer) renderLineGroup(out *strings.Builder, group []Reference, sidebar int, c styleSheet) {
	anchor := group[0].Origin
	lineno := anchor.StartLoc().Line
	lineStart, _ := anchor.File.LineOffsets(lineno)
	line := anchor.File.Line(lineno)

	// The source line, with tabstops expanded.
	fmt.Fprintf(out, "%s%*d | %s", c.nAccent, sidebar-1, lineno, c.reset)
	stringWidth(0, line, out)
	out.WriteByte('\n')

	gutter := strings.Repeat(" ", sidebar-1) + " | "

	// Resolve the disjoint underline spans, in terminal columns. The group
	// is ordered by start offset, so a single forward pass suffices; any
	// overlap merges into the previous span.
	var spans []caretSpan
	columns := make([]int, len(group))
	for i, ref := range group {
		so := clamp(ref.Origin.Start-lineStart, 0, len(line))
		eo := clamp(ref.Origin.End-lineStart, so, len(line))

		start := stringWidth(0, line[:so], nil)
		end := stringWidth(start, line[so:eo], nil)
		if end == start {
			// Zero-width spans (e.g. at end of line) still get one caret.
			end++
		}
		columns[i] = start

		if len(spans) > 0 && start < spans[len(spans)-1].end {
			spans[len(spans)-1].end = max(spans[len(spans)-1].end, end)
		} else {
			spans = append(spans, caretSpan{start, end})
		}
	}

	// The caret row.
	fmt.Fprintf(out, "%s%s%s%s", c.nAccent, gutter, c.reset, c.nSuccess)
	var column int
	for _, span := range spans {
		padBy(out, span.start-column)
		for range span.end - span.start {
			out.WriteByte('^')
		}
		column = span.end
	}
	out.WriteString(c.reset)
	out.WriteByte('\n')

	// The message rows, most recent arrival first.
	order := make([]int, len(group))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int { return group[b].index - group[a].index })

	for _, i := range order {
		if group[i].Message == "" {
			continue
		}
		fmt.Fprintf(out, "%s%s%s", c.nAccent, gutter, c.reset)
		padBy(out, columns[i])
		out.WriteString(group[i].Message)
		out.WriteByte('\n')
	}
}

func clamp(n, lo, hi int) int {
	return min(max(n, lo), hi)
}

// partition returns an iterator of subslices of s such that each yielded
// slice is delimited according to delimit. Also yields the starting index
// of the subslice.
//
// In other words, suppose delimit is !=. Then, the slice [a a a b c c] is
// yielded as the subslices [a a a], [b], and [c c c].
//
// Will never yield an empty slice.
func partition[T any](s []T, delimit func(a, b *T) bool) iter.Seq2[int, []T] {
	return func(yield func(int, []T) bool) {
		var start int
		for i := 1; i < len(s); i++ {
			if delimit(&s[i-1], &s[i]) {
				if !yield(start, s[start:i]) {
					return
				}
				start = i
			}
		}
		rest := s[start:]
		if len(rest) > 0 {
			yield(start, rest)
		}
	}
}
