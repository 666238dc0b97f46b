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

// Package corpora provides a mechanism for managing test corpora: a
// collection of files that each define one rendering test case, with the
// expected outputs stored alongside them.
package corpora

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// Corpus describes a test data corpus. This is essentially a way of doing
// table-driven tests where the "table" is in your file system.
type Corpus struct {
	// The root of the test data directory, relative to the file that calls
	// [Corpus.Run].
	Root string

	// An environment variable to check with regards to whether to run in
	// "refresh" mode or not. Its value is a glob over test case names;
	// matching cases have their expected outputs rewritten in-place.
	Refresh string

	// The file extension (without a dot) of files that define a test case,
	// e.g. "yaml".
	Extension string

	// Possible outputs of each test case, found by appending
	// Outputs[n].Extension to the case's file name. A missing output file
	// is treated as expecting the empty string.
	Outputs []Output
}

// Output represents one output of a test case.
type Output struct {
	// The extension of the output. If Corpus.Extension is "yaml", for a
	// test "foo.yaml" the runner looks for files named "foo.yaml.<ext>".
	Extension string

	// The comparison function for this output. May be nil, in which case
	// values are compared byte-for-byte with a unified diff on mismatch.
	Compare Compare
}

// Compare is a comparison function between strings, used in [Output].
//
// Returns the empty string if the strings match, and an error message
// otherwise.
type Compare func(got, want string) string

// Run walks the corpus and executes test on every case in it. The test
// callback fills in outputs, one element per [Corpus.Outputs] entry.
func (c Corpus) Run(t *testing.T, test func(t *testing.T, path, text string, outputs []string)) {
	root := filepath.Join(callerDir(0), c.Root)

	var cases []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.TrimPrefix(filepath.Ext(p), ".") == c.Extension {
			cases = append(cases, p)
		}
		return nil
	})
	if err != nil {
		t.Fatal("corpora: error while walking testdata:", err)
	}

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("corpora: invalid refresh glob %q", refresh)
		}
	}
	if refresh != "" {
		t.Logf("corpora: refreshing test data because %s=%s", c.Refresh, refresh)
		// A refreshed run must not masquerade as a passing test.
		t.Fail()
	}

	for _, path := range cases {
		name, _ := filepath.Rel(root, path)
		t.Run(name, func(t *testing.T) {
			bytes, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("corpora: error while loading input file %q: %v", path, err)
			}

			outputs := make([]string, len(c.Outputs))
			test(t, name, string(bytes), outputs)

			refreshThis, _ := doublestar.Match(refresh, name)
			for i, output := range c.Outputs {
				outputPath := path + "." + output.Extension

				if refreshThis {
					c.refresh(t, outputPath, outputs[i])
					continue
				}

				want, err := os.ReadFile(outputPath)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("corpora: error while loading output file %q: %v", outputPath, err)
					continue
				}

				compare := output.Compare
				if compare == nil {
					compare = diffCompare
				}
				if msg := compare(outputs[i], string(want)); msg != "" {
					t.Errorf("output mismatch for %q:\n%s", outputPath, msg)
				}
			}
		})
	}
}

func (c Corpus) refresh(t *testing.T, path, text string) {
	if text == "" {
		err := os.Remove(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			t.Errorf("corpora: error while deleting output file %q: %v", path, err)
		}
		return
	}
	if err := os.WriteFile(path, []byte(text), 0o660); err != nil {
		t.Errorf("corpora: error while writing output file %q: %v", path, err)
	}
}

func diffCompare(got, want string) string {
	if got == want {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: could not determine test file's directory")
	}
	return filepath.Dir(file)
}
