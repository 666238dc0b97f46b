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

package codeprint_test

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/bufbuild/codeprint"
	"github.com/bufbuild/codeprint/internal/corpora"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// goldenCase is the YAML schema for a rendering test case.
type goldenCase struct {
	Severity string `yaml:"severity"`
	Tag      string `yaml:"tag"`
	Message  string `yaml:"message"`
	Budget   int    `yaml:"budget"`

	Files []struct {
		Path string `yaml:"path"`
		Text string `yaml:"text"`
	} `yaml:"files"`

	Origin  goldenSpan   `yaml:"origin"`
	Sources []goldenSpan `yaml:"sources"`
}

type goldenSpan struct {
	File    string      `yaml:"file"`
	Start   int         `yaml:"start"`
	End     int         `yaml:"end"`
	Message string      `yaml:"message"`
	Parent  *goldenSpan `yaml:"parent"`
}

// expansionStack renders an origin's ancestry as one line per ancestor.
type expansionStack struct{}

func (expansionStack) PrintStack(out io.Writer, parent *codeprint.Origin) {
	for ; parent != nil; parent = parent.Parent {
		loc := parent.StartLoc()
		fmt.Fprintf(out, "expanded from %s:%d:%d\n", parent.Path(), loc.Line, loc.Column)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	corpus := corpora.Corpus{
		Root:      "testdata",
		Refresh:   "CODEPRINT_REFRESH",
		Extension: "yaml",
		Outputs: []corpora.Output{
			{Extension: "txt"},
		},
	}

	corpus.Run(t, func(t *testing.T, path, text string, outputs []string) {
		var tc goldenCase
		require.NoError(t, yaml.Unmarshal([]byte(text), &tc))

		files := make(map[string]*codeprint.File)
		for _, f := range tc.Files {
			files[f.Path] = codeprint.NewFile(f.Path, f.Text)
		}

		var origin func(s goldenSpan) codeprint.Origin
		origin = func(s goldenSpan) codeprint.Origin {
			file := files[s.File]
			require.NotNil(t, file, "unknown file %q", s.File)

			o := codeprint.NewOrigin(file.Span(s.Start, s.End))
			if s.Parent != nil {
				o = o.WithParent(origin(*s.Parent))
			}
			return o
		}

		var p *codeprint.Printer
		if tc.Severity == "warning" {
			p = codeprint.WarningCode(tc.Tag)
		} else {
			p = codeprint.ErrorCode(tc.Tag)
		}
		p.Stack = expansionStack{}
		if tc.Budget > 0 {
			p.MaxDisplayed = tc.Budget
		}

		p.WithMessage(origin(tc.Origin), tc.Message)
		for _, s := range tc.Sources {
			p.WithSource(origin(s), s.Message)
		}

		var out strings.Builder
		require.NoError(t, p.Print(&codeprint.WriterSink{Out: &out}))
		outputs[0] = out.String()
	})
}
