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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink records whatever the printer hands it.
type captureSink struct {
	isError  bool
	message  string
	tag      string
	sections []string
}

func (s *captureSink) Error(message, tag string, sections []string) error {
	s.isError = true
	s.message, s.tag, s.sections = message, tag, sections
	return nil
}

func (s *captureSink) Warning(message, tag string, sections []string) error {
	s.isError = false
	s.message, s.tag, s.sections = message, tag, sections
	return nil
}

// refFile builds a file with enough lines for tests that only care about
// routing and counting.
func refFile(path string) *File {
	return NewFile(path, "line one one one\nline two two two\nline three three\nline four four f\nline five five f\nline six six six\nline seven seven\n")
}

// lineSpan returns a span covering columns [start, end) of the given line.
// Lines here are all 17 bytes long including the newline.
func lineSpan(f *File, line, start, end int) Span {
	offset := (line - 1) * 17
	return f.Span(offset+start, offset+end)
}

func TestOriginLineRouting(t *testing.T) {
	t.Parallel()

	file := refFile("a.src")
	p := ErrorCode("E0001").WithMessage(NewOrigin(lineSpan(file, 2, 5, 8)), "boom")

	p.WithSource(NewOrigin(lineSpan(file, 2, 0, 4)), "same line")
	p.WithSource(NewOrigin(lineSpan(file, 4, 0, 4)), "same file, other line")
	p.WithSource(NewOrigin(refFile("b.src").Span(0, 4)), "other file")

	assert.Equal(t, 1, p.originLine.len())
	require.Contains(t, p.files, "a.src")
	require.Contains(t, p.files, "b.src")
	assert.Equal(t, 1, p.files["a.src"].len())
	assert.Equal(t, 1, p.files["b.src"].len())

	// A same-line reference never lands in the per-file map.
	for _, ref := range p.files["a.src"].items() {
		assert.False(t, ref.Origin.OnSameLine(p.origin))
	}
}

func TestWithMessageReplacesPrimary(t *testing.T) {
	t.Parallel()

	file := refFile("a.src")
	p := WarningCode("W0001").
		WithMessage(NewOrigin(lineSpan(file, 1, 0, 4)), "first").
		WithMessage(NewOrigin(lineSpan(file, 3, 0, 4)), "second")

	assert.Equal(t, "second", p.message)
	assert.Equal(t, 3, p.origin.StartLoc().Line)
}

func TestSuppressionExactness(t *testing.T) {
	t.Parallel()

	origin := refFile("a.src")
	other := refFile("b.src")

	p := ErrorCode("E0002").WithMessage(NewOrigin(lineSpan(origin, 1, 0, 4)), "boom")
	for i := range 7 {
		p.WithSource(NewOrigin(lineSpan(other, i+1, 0, 4)), fmt.Sprintf("ref %d", i))
	}

	assert.Equal(t, 2, p.suppress())
	assert.Equal(t, 5, p.files["b.src"].len())
	assert.Equal(t, 2, p.suppressed)

	// The survivors are the earliest-arriving five by the total order.
	for i, ref := range p.files["b.src"].items() {
		assert.Equal(t, fmt.Sprintf("ref %d", i), ref.Message)
	}
}

func TestSuppressionFairnessAcrossFiles(t *testing.T) {
	t.Parallel()

	origin := refFile("a.src")
	b := refFile("b.src")
	c := refFile("c.src")

	p := ErrorCode("E0003").WithMessage(NewOrigin(lineSpan(origin, 1, 0, 4)), "boom")
	p.MaxDisplayed = 3

	p.WithSource(NewOrigin(lineSpan(b, 1, 0, 4)), "b1")
	p.WithSource(NewOrigin(lineSpan(b, 2, 0, 4)), "b2")
	for i := 1; i <= 4; i++ {
		p.WithSource(NewOrigin(lineSpan(c, i, 0, 4)), fmt.Sprintf("c%d", i))
	}

	assert.Equal(t, 3, p.suppress())
	assert.Equal(t, 2, p.files["b.src"].len())
	assert.Equal(t, 1, p.files["c.src"].len())
	assert.Equal(t, "c1", p.files["c.src"].items()[0].Message)
}

func TestSuppressionSkipsOriginFile(t *testing.T) {
	t.Parallel()

	origin := refFile("a.src")
	other := refFile("b.src")

	p := ErrorCode("E0004").WithMessage(NewOrigin(lineSpan(origin, 1, 0, 4)), "boom")
	p.MaxDisplayed = 1

	// Six references in the origin's own file, on other lines.
	for i := 2; i <= 7; i++ {
		p.WithSource(NewOrigin(lineSpan(origin, i, 0, 4)), "origin file")
	}
	p.WithSource(NewOrigin(lineSpan(other, 1, 0, 4)), "kept")
	p.WithSource(NewOrigin(lineSpan(other, 2, 0, 4)), "dropped")

	assert.Equal(t, 1, p.suppress())
	assert.Equal(t, 6, p.files["a.src"].len())
	assert.Equal(t, 1, p.files["b.src"].len())
}

func TestSuppressionIdempotent(t *testing.T) {
	t.Parallel()

	origin := refFile("a.src")
	b := refFile("b.src")
	c := refFile("c.src")

	p := ErrorCode("E0005").WithMessage(NewOrigin(lineSpan(origin, 1, 0, 4)), "boom")
	p.MaxDisplayed = 3

	p.WithSource(NewOrigin(lineSpan(b, 1, 0, 4)), "b1")
	p.WithSource(NewOrigin(lineSpan(b, 2, 0, 4)), "b2")
	for i := 1; i <= 4; i++ {
		p.WithSource(NewOrigin(lineSpan(c, i, 0, 4)), fmt.Sprintf("c%d", i))
	}

	assert.Equal(t, 3, p.suppress())
	assert.Equal(t, 0, p.suppress())
	assert.Equal(t, 3, p.suppressed)
}

func TestSuppressionFooter(t *testing.T) {
	t.Parallel()

	origin := refFile("a.src")
	other := refFile("b.src")

	t.Run("plural errors", func(t *testing.T) {
		t.Parallel()

		p := ErrorCode("E0006").WithMessage(NewOrigin(lineSpan(origin, 1, 0, 4)), "boom")
		for i := 1; i <= 7; i++ {
			p.WithSource(NewOrigin(lineSpan(other, i, 0, 4)), "ref")
		}

		var sink captureSink
		require.NoError(t, p.Print(&sink))
		assert.True(t, sink.isError)
		assert.Equal(t, "E0006", sink.tag)
		require.NotEmpty(t, sink.sections)
		assert.Equal(t, "Suppressed 2 additional errors\n", sink.sections[len(sink.sections)-1])
	})

	t.Run("singular warning", func(t *testing.T) {
		t.Parallel()

		p := WarningCode("W0006").WithMessage(NewOrigin(lineSpan(origin, 1, 0, 4)), "hmm")
		for i := 1; i <= 6; i++ {
			p.WithSource(NewOrigin(lineSpan(other, i, 0, 4)), "ref")
		}

		var sink captureSink
		require.NoError(t, p.Print(&sink))
		assert.False(t, sink.isError)
		assert.Equal(t, "Suppressed 1 additional warning\n", sink.sections[len(sink.sections)-1])
	})

	t.Run("no footer", func(t *testing.T) {
		t.Parallel()

		p := ErrorCode("E0007").WithMessage(NewOrigin(lineSpan(origin, 1, 0, 4)), "boom")
		p.WithSource(NewOrigin(lineSpan(other, 1, 0, 4)), "ref")

		var sink captureSink
		require.NoError(t, p.Print(&sink))
		for _, section := range sink.sections {
			assert.NotContains(t, section, "Suppressed")
		}
	})
}

func TestPrintWithoutOriginPanics(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, `codeprint: error "E0008" is missing its origin`, func() {
		_ = ErrorCode("E0008").Print(&captureSink{})
	})
	assert.PanicsWithValue(t, `codeprint: warning "W0008" is missing its origin`, func() {
		_ = WarningCode("W0008").Print(&captureSink{})
	})
}
