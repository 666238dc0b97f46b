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

/*
Package codeprint renders compiler diagnostics as annotated source code
snippets: the offending line, caret underlines beneath the annotated
regions, and stacked messages, bounded by a configurable suppression
budget so that a pathological diagnostic cannot flood the terminal.

A diagnostic is accumulated into a [Printer], which is a builder over a
primary location plus any number of secondary references. References may
span multiple files; the printer keeps them in a deterministic total order
(file, then byte offset, then arrival order) so that rendering the same
diagnostic always produces the same output, no matter how the references
were produced.

	file := codeprint.NewFile("main.src", text)
	err := codeprint.ErrorCode("E1001").
		WithMessage(codeprint.NewOrigin(file.Span(30, 31)), "cannot resolve identifier").
		WithSource(codeprint.NewOrigin(file.Span(34, 44)), "called here").
		Print(&codeprint.WriterSink{Out: os.Stderr})

Rendering is a pure transformation: the printer borrows file contents from
the caller (see [File]) and owns only its own reference sets. Each Printer
is built once, printed exactly once via [Printer.Print], and discarded.

The rendered sections are handed to a [Sink] for final layout, which
distinguishes error from warning presentation. [WriterSink] is a ready-made
sink that writes to an [io.Writer]; callers with their own output pipeline
can provide their own Sink.

When the primary location carries an ancestry chain (see [Origin]), such as
a macro expansion or file inclusion trail, the printer asks an optional
[StackPrinter] collaborator to render the chain. This package decides only
when the chain is shown, never how.
*/
package codeprint
