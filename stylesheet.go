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

// styleSheet is the colors used for pretty-rendering diagnostics.
//
// Styling is purely cosmetic: a zero styleSheet renders everything as
// plain text with identical layout.
type styleSheet struct {
	reset string
	// Normal colors.
	nError, nWarning, nSuccess, nAccent string
	// Bold colors.
	bError, bWarning, bSuccess, bAccent string
}

func newStyleSheet(colorize bool) styleSheet {
	if !colorize {
		return styleSheet{}
	}

	return styleSheet{
		reset: "\033[0m",
		// Red.
		nError: "\033[0;31m",
		bError: "\033[1;31m",

		// Yellow. Also used for the suppression footer.
		nWarning: "\033[0;33m",
		bWarning: "\033[1;33m",

		// Green. Used for underline carets, to clearly separate them from
		// the source code (which appears in white).
		nSuccess: "\033[0;32m",
		bSuccess: "\033[1;32m",

		// Blue. Used for "accents" such as filenames, line numbers, and
		// other rendering details.
		nAccent: "\033[0;34m",
		bAccent: "\033[1;34m",
	}
}

// BoldForSeverity returns the bold color for an error or warning headline.
func (c styleSheet) BoldForSeverity(isError bool) string {
	if isError {
		return c.bError
	}
	return c.bWarning
}
