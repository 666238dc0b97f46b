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
	"cmp"
	"strings"

	"github.com/tidwall/btree"
)

// Reference is an [Origin] paired with an optional explanatory message,
// used to annotate a diagnostic beyond its primary location.
type Reference struct {
	Origin  Origin
	Message string

	// Stamped by the printer when the reference is inserted. Used purely as
	// an ordering tie-break for references on the same file and offset; it
	// carries no other meaning.
	index int
}

// compareReferences defines the total order for references: file path,
// then span start offset, then arrival order. Two references at the same
// file and offset are ordered strictly by arrival, never by message, so
// output is reproducible no matter how the references were produced.
func compareReferences(a, b Reference) int {
	if diff := strings.Compare(a.Origin.Path(), b.Origin.Path()); diff != 0 {
		return diff
	}
	if diff := cmp.Compare(a.Origin.Start, b.Origin.Start); diff != 0 {
		return diff
	}
	return cmp.Compare(a.index, b.index)
}

// refSet is an ordered set of references. Insertion keeps the set sorted
// per compareReferences; iteration is always ascending.
type refSet struct {
	tree *btree.BTreeG[Reference]
}

func newRefSet() *refSet {
	// The printer is single-threaded, so the tree's internal locking is
	// dead weight.
	return &refSet{tree: btree.NewBTreeGOptions(
		func(a, b Reference) bool { return compareReferences(a, b) < 0 },
		btree.Options{NoLocks: true},
	)}
}

func (s *refSet) insert(ref Reference) {
	s.tree.Set(ref)
}

func (s *refSet) len() int {
	return s.tree.Len()
}

// items returns the references in ascending order.
func (s *refSet) items() []Reference {
	items := make([]Reference, 0, s.tree.Len())
	s.tree.Scan(func(ref Reference) bool {
		items = append(items, ref)
		return true
	})
	return items
}

// truncate drops all but the first n references.
func (s *refSet) truncate(n int) {
	for _, ref := range s.items()[n:] {
		s.tree.Delete(ref)
	}
}
