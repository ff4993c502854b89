// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package ids

import (
	"encoding/json"
	"testing"
)

func TestRevisionTagUndefinedRoundTrip(t *testing.T) {
	data, err := json.Marshal(UndefinedRevision)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "null" {
		t.Fatalf("want null, got %s", data)
	}
	var r RevisionTag
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !r.IsUndefined() {
		t.Fatalf("expected undefined")
	}
}

func TestRevisionTagDefinedRoundTrip(t *testing.T) {
	r := NewRevisionTag()
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var r2 RevisionTag
	if err := json.Unmarshal(data, &r2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !r.Equal(r2) {
		t.Fatalf("round trip mismatch: %v vs %v", r, r2)
	}
}

func TestRevisionTagEquality(t *testing.T) {
	a := NewRevisionTag()
	b := NewRevisionTag()
	if a.Equal(b) {
		t.Fatalf("distinct tags compared equal")
	}
	if !a.Equal(a) {
		t.Fatalf("tag not equal to itself")
	}
	if !UndefinedRevision.Equal(RevisionTag{}) {
		t.Fatalf("two undefined tags should compare equal")
	}
}

func TestAllocatorMonotonic(t *testing.T) {
	a := NewAllocator()
	first := a.Alloc(3)
	second := a.Alloc(2)
	if first != 0 {
		t.Fatalf("expected first alloc to start at 0, got %d", first)
	}
	if second != 3 {
		t.Fatalf("expected second alloc to start at 3, got %d", second)
	}
	if a.Peek() != 5 {
		t.Fatalf("expected next to be 5, got %d", a.Peek())
	}
}

func TestIdRangeContains(t *testing.T) {
	r := IdRange{Id: 10, Count: 5}
	if !r.Contains(10) || !r.Contains(14) {
		t.Fatalf("expected bounds to be contained")
	}
	if r.Contains(9) || r.Contains(15) {
		t.Fatalf("expected out-of-range ids to be rejected")
	}
}

func TestCellIdResolvedRevision(t *testing.T) {
	fallback := NewRevisionTag()
	inherited := NewInheritedCellId(5)
	if !inherited.ResolvedRevision(fallback).Equal(fallback) {
		t.Fatalf("inherited cell should resolve to fallback revision")
	}

	explicit := NewRevisionTag()
	withRev := NewCellId(explicit, 5)
	if !withRev.ResolvedRevision(fallback).Equal(explicit) {
		t.Fatalf("explicit revision should not be overridden by fallback")
	}
}

func TestEqualCells(t *testing.T) {
	revA := NewRevisionTag()
	revB := NewRevisionTag()
	a := NewInheritedCellId(1)
	b := NewCellId(revA, 1)
	if !EqualCells(a, revA, b, revB) {
		t.Fatalf("cells resolving to the same revision/local should be equal")
	}
	c := NewCellId(revB, 1)
	if EqualCells(a, revA, c, revB) {
		t.Fatalf("cells resolving to different revisions should not be equal")
	}
}

func TestCompareRevisionsDeterministic(t *testing.T) {
	a := NewRevisionTag()
	b := NewRevisionTag()
	first := CompareRevisions(a, b)
	second := CompareRevisions(a, b)
	if first != second {
		t.Fatalf("CompareRevisions must be deterministic")
	}
	if CompareRevisions(UndefinedRevision, a) >= 0 {
		t.Fatalf("undefined revision should sort before any defined tag")
	}
}
