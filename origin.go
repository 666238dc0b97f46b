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

// Origin is a source location together with the causal chain that produced
// it: the macro expansion, file inclusion, or similar site that a token
// ultimately came from.
//
// Parent links form a singly-rooted chain, never a general graph. Chains
// are acyclic by construction, because a parent is always a fully built
// origin at the time [Origin.WithParent] is called.
type Origin struct {
	Span

	// The origin this one was produced from, such as the invocation site of
	// a macro expansion. Nil for a top-level origin.
	Parent *Origin
}

// NewOrigin constructs a new parentless origin for the given span.
func NewOrigin(span Span) Origin {
	return Origin{Span: span}
}

// WithParent returns a copy of o whose ancestry chain points at parent.
//
// The parent is copied, so later mutation of the argument does not affect
// the returned origin.
func (o Origin) WithParent(parent Origin) Origin {
	p := parent
	o.Parent = &p
	return o
}

// OnSameLine reports whether both origins refer to the same line of the
// same file. File identity is by path, matching reference ordering.
//
// The zero origin is not on the same line as anything, itself included.
func (o Origin) OnSameLine(other Origin) bool {
	if o.IsZero() || other.IsZero() {
		return false
	}

	return o.Path() == other.Path() && o.StartLoc().Line == other.StartLoc().Line
}
