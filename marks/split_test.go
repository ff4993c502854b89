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

package marks

import (
	"reflect"
	"testing"

	"github.com/driftfield/seqedit/ids"
)

func catalogueForSplitMerge() []Mark {
	rev := ids.NewRevisionTag()
	return []Mark{
		NewSkip(4),
		NewTomb(4, ids.NewCellId(rev, 0)),
		NewInsert(4, ids.NewCellId(rev, 0)),
		NewRemove(4, ids.NewCellId(rev, 0)),
		NewRevive(4, ids.NewCellId(rev, 0)),
		NewPin(4, ids.NewCellId(rev, 0)),
		NewMoveOut(4, ids.NewCellId(rev, 0)),
		NewMoveIn(4, ids.NewCellId(rev, 0)),
		NewReturnTo(4, ids.NewCellId(rev, 0), ids.NewCellId(rev, 100)),
	}
}

// TestSplitMergeRoundTrip is property 8.1: for every populated mark m with
// count >= 2, TryMergeMarks(SplitMark(m, k)) == Some(m) for 1 <= k < count.
func TestSplitMergeRoundTrip(t *testing.T) {
	for _, m := range catalogueForSplitMerge() {
		for k := uint32(1); k < m.Count; k++ {
			first, rest := SplitMark(m, k)
			if first.Count != k {
				t.Fatalf("%s: first.Count = %d, want %d", m.Kind, first.Count, k)
			}
			if rest.Count != m.Count-k {
				t.Fatalf("%s: rest.Count = %d, want %d", m.Kind, rest.Count, m.Count-k)
			}
			merged, ok := TryMergeMarks(first, rest)
			if !ok {
				t.Fatalf("%s: split at %d failed to remerge", m.Kind, k)
			}
			if !reflect.DeepEqual(merged, m) {
				t.Fatalf("%s: remerge mismatch at k=%d:\n got  %+v\n want %+v", m.Kind, k, merged, m)
			}
		}
	}
}

func TestTryMergeMarksRejectsDifferentKinds(t *testing.T) {
	rev := ids.NewRevisionTag()
	a := NewSkip(2)
	b := NewInsert(2, ids.NewCellId(rev, 0))
	if _, ok := TryMergeMarks(a, b); ok {
		t.Fatalf("expected merge of different kinds to fail")
	}
}

func TestTryMergeMarksRejectsNonContiguousCells(t *testing.T) {
	rev := ids.NewRevisionTag()
	a := NewInsert(2, ids.NewCellId(rev, 0))
	b := NewInsert(2, ids.NewCellId(rev, 10))
	if _, ok := TryMergeMarks(a, b); ok {
		t.Fatalf("expected merge of non-contiguous cells to fail")
	}
}

func TestTryMergeMarksRejectsMarksWithChanges(t *testing.T) {
	a := NewModify("child-change-a")
	b := NewModify("child-change-b")
	if _, ok := TryMergeMarks(a, b); ok {
		t.Fatalf("expected merge of two Modify marks to fail")
	}
}

func TestSplitMarkAttachAndDetach(t *testing.T) {
	rev := ids.NewRevisionTag()
	attach := NewInsert(4, ids.NewCellId(rev, 0))
	detach := NewRemove(4, ids.NewCellId(rev, 50))
	m := NewAttachAndDetach(attach, detach)

	first, rest := SplitMark(m, 1)
	if first.Count != 1 || rest.Count != 3 {
		t.Fatalf("unexpected split counts: first=%d rest=%d", first.Count, rest.Count)
	}
	if rest.InnerAttach.CellId.Local != 1 {
		t.Fatalf("expected inner attach cell id to shift, got %d", rest.InnerAttach.CellId.Local)
	}
	if rest.InnerDetach.CellId.Local != 51 {
		t.Fatalf("expected inner detach cell id to shift, got %d", rest.InnerDetach.CellId.Local)
	}

	merged, ok := TryMergeMarks(first, rest)
	if !ok {
		t.Fatalf("expected AttachAndDetach halves to remerge")
	}
	if !reflect.DeepEqual(merged, m) {
		t.Fatalf("remerge mismatch:\n got  %+v\n want %+v", merged, m)
	}
}
