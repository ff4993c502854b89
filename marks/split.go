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

import "github.com/driftfield/seqedit/ids"

// SplitMark cuts a mark spanning m.Count cells into (first, rest) where
// first.Count == n and rest.Count == m.Count - n; every id field that names
// a range shifts by n in rest (spec §4.B). n must be in [1, m.Count-1] for a
// populated split to make sense, but SplitMark allows n == m.Count (rest is
// empty, count 0 — callers drop zero-count marks).
func SplitMark(m Mark, n uint32) (first, rest Mark) {
	if n > m.Count {
		panic("marks: SplitMark n exceeds mark count")
	}
	first = m
	first.Count = n
	rest = m
	rest.Count = m.Count - n

	if m.CellId != nil {
		rc := m.CellId.Shift(n)
		rest.CellId = &rc
	}
	if m.IdOverride != nil {
		rc := m.IdOverride.Shift(n)
		rest.IdOverride = &rc
	}
	if m.ReturnSourceCell != nil {
		rc := m.ReturnSourceCell.Shift(n)
		rest.ReturnSourceCell = &rc
	}
	if m.OldCellId != nil {
		rc := m.OldCellId.Shift(n)
		rest.OldCellId = &rc
	}
	if m.NewCellId != nil {
		rc := m.NewCellId.Shift(n)
		rest.NewCellId = &rc
	}
	if m.FinalEndpoint != nil {
		fe := *m.FinalEndpoint
		fe.Local += ids.LocalId(n)
		rest.FinalEndpoint = &fe
	}
	if m.InnerAttach != nil && m.InnerDetach != nil {
		_, attachRest := SplitMark(*m.InnerAttach, n)
		_, detachRest := SplitMark(*m.InnerDetach, n)
		rest.InnerAttach = &attachRest
		rest.InnerDetach = &detachRest

		attachFirst, _ := SplitMark(*m.InnerAttach, n)
		detachFirst, _ := SplitMark(*m.InnerDetach, n)
		first.InnerAttach = &attachFirst
		first.InnerDetach = &detachFirst
	}
	// Changes attaches to a single node (Count == 1 whenever present), so a
	// non-trivial split (0 < n < m.Count) never occurs on a mark carrying
	// Changes; n == m.Count leaves `rest` with Count 0 and no Changes.
	if n < m.Count {
		rest.Changes = m.Changes
		first.Changes = nil
	} else {
		first.Changes = m.Changes
		rest.Changes = nil
	}
	return first, rest
}

func cellIdsContiguous(a, b *ids.CellId, gap uint32) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	if !a.HasRevision && !b.HasRevision {
		// both inherited: fine as long as locals are contiguous
	} else if a.HasRevision != b.HasRevision || !a.Revision.Equal(b.Revision) {
		return false
	}
	return uint32(b.Local-a.Local) == gap
}

func endpointsContiguous(a, b *Endpoint, gap uint32) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	if !a.Revision.Equal(b.Revision) {
		return false
	}
	return uint32(b.Local-a.Local) == gap
}

// TryMergeMarks returns (merged, true) iff a and b are compatible: same
// Kind, identical fields modulo count, and contiguous cell ids (b's ids
// pick up exactly where a's left off). This and SplitMark form an inverse
// pair (spec §4.B, tested as property 8.1).
func TryMergeMarks(a, b Mark) (Mark, bool) {
	if a.Kind != b.Kind {
		return Mark{}, false
	}
	if a.HasRevision != b.HasRevision || (a.HasRevision && !a.Revision.Equal(b.Revision)) {
		return Mark{}, false
	}
	if a.Changes != nil || b.Changes != nil {
		// A mark carrying nested changes is inherently single-node; two
		// such marks never merge into one.
		return Mark{}, false
	}
	if !cellIdsContiguous(a.CellId, b.CellId, a.Count) {
		return Mark{}, false
	}
	if !cellIdsContiguous(a.IdOverride, b.IdOverride, a.Count) {
		return Mark{}, false
	}
	if !cellIdsContiguous(a.ReturnSourceCell, b.ReturnSourceCell, a.Count) {
		return Mark{}, false
	}
	if !cellIdsContiguous(a.OldCellId, b.OldCellId, a.Count) {
		return Mark{}, false
	}
	if !cellIdsContiguous(a.NewCellId, b.NewCellId, a.Count) {
		return Mark{}, false
	}
	if !endpointsContiguous(a.FinalEndpoint, b.FinalEndpoint, a.Count) {
		return Mark{}, false
	}
	if a.Kind == AttachAndDetach {
		if a.InnerAttach == nil || b.InnerAttach == nil || a.InnerDetach == nil || b.InnerDetach == nil {
			return Mark{}, false
		}
		mergedAttach, ok := TryMergeMarks(*a.InnerAttach, *b.InnerAttach)
		if !ok {
			return Mark{}, false
		}
		mergedDetach, ok := TryMergeMarks(*a.InnerDetach, *b.InnerDetach)
		if !ok {
			return Mark{}, false
		}
		merged := a
		merged.Count = a.Count + b.Count
		merged.InnerAttach = &mergedAttach
		merged.InnerDetach = &mergedDetach
		return merged, true
	}

	merged := a
	merged.Count = a.Count + b.Count
	return merged, true
}
