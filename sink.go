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
	"io"
)

// Sink receives a fully rendered diagnostic for final layout and emission.
//
// The printer hands the sink a headline message, the machine-readable
// diagnostic tag, and the rendered sections in presentation order. The
// sink is responsible for everything after that, including how errors and
// warnings are presented differently.
type Sink interface {
	Error(message, tag string, sections []string) error
	Warning(message, tag string, sections []string) error
}

// StackPrinter renders the ancestry chain of an origin: the trail of macro
// expansions, file inclusions, and similar sites that produced a location.
//
// The printer only decides when the chain is rendered; the format is
// entirely up to the implementation.
type StackPrinter interface {
	PrintStack(out io.Writer, parent *Origin)
}

// WriterSink is a [Sink] that lays a diagnostic out on an [io.Writer]:
// a severity headline followed by each section, separated by blank lines.
//
//	error[E1001]: cannot resolve identifier
//
//	main.src
//	 2 | let y = x + frobnicate(x)
//	   |             ^^^^^^^^^^
//	   |             called here
type WriterSink struct {
	Out io.Writer

	// If set, the headline is enriched with ANSI color escapes.
	Colorize bool
}

var _ Sink = (*WriterSink)(nil)

// Error implements [Sink].
func (s *WriterSink) Error(message, tag string, sections []string) error {
	return s.emit(true, message, tag, sections)
}

// Warning implements [Sink].
func (s *WriterSink) Warning(message, tag string, sections []string) error {
	return s.emit(false, message, tag, sections)
}

func (s *WriterSink) emit(isError bool, message, tag string, sections []string) error {
	c := newStyleSheet(s.Colorize)
	w := &writer{out: s.Out}

	severity := "warning"
	if isError {
		severity = "error"
	}

	if tag == "" {
		fmt.Fprintf(w, "%s%s:%s %s\n", c.BoldForSeverity(isError), severity, c.reset, message)
	} else {
		fmt.Fprintf(w, "%s%s[%s]:%s %s\n", c.BoldForSeverity(isError), severity, tag, c.reset, message)
	}

	for _, section := range sections {
		if section == "" {
			continue
		}
		_, _ = w.WriteString("\n")
		_, _ = w.WriteString(section)
	}

	return w.Flush()
}
