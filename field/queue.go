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

package field

import (
	"github.com/driftfield/seqedit/ids"
	"github.com/driftfield/seqedit/marks"
)

// pairedMark is one step of the changeset queue's walk over two changesets
// sharing a coordinate frame: HaveA or HaveB is false (and that side left
// zero) if this step has no counterpart on the other side (spec §4.C "a mark whose cell is not yet
// known to the other side").
type pairedMark struct {
	A, B  marks.Mark
	HaveA bool
	HaveB bool
}

// emptyFn reports whether a mark's cells are empty in the occupancy view a
// caller is walking that side in: EmptyBefore for a changeset read in its
// own input context (both sides of Rebase), EmptyAfter for a changeset read
// in its output context (the a-side of Compose).
type emptyFn func(marks.Mark) bool

// gapIdentityBefore names the empty cell a gap mark fills, valid only when
// the mark's cells are empty before it (spec §4.C step 1 "cellId on marks").
func gapIdentityBefore(m marks.Mark) *ids.CellId {
	switch m.Kind {
	case marks.Insert, marks.Revive, marks.MoveIn, marks.ReturnTo, marks.Tomb:
		return m.CellId
	case marks.Rename:
		return m.OldCellId
	case marks.AttachAndDetach:
		if m.InnerAttach != nil {
			return gapIdentityBefore(*m.InnerAttach)
		}
	}
	return nil
}

// gapIdentityAfter names the empty cell a gap mark leaves behind, valid only
// when the mark's cells are empty after it.
func gapIdentityAfter(m marks.Mark) *ids.CellId {
	switch m.Kind {
	case marks.Remove, marks.MoveOut, marks.Tomb:
		return m.CellId
	case marks.Rename:
		return m.NewCellId
	case marks.AttachAndDetach:
		if m.InnerDetach != nil {
			return gapIdentityAfter(*m.InnerDetach)
		}
	}
	return nil
}

// zipMarks walks a and b in lock step over their shared coordinate frame
// (spec §4.C). Populated-cell steps are aligned purely by count, since both
// sides necessarily agree on occupancy there. Empty-cell steps are aligned
// by cell identity: matching cell ids pair up; unmatched ones (a concurrent
// insert the other side has never seen, for instance) are emitted solo,
// ordered by gapOrdersFirst, and do not consume the other side's cursor —
// an empty region on one side need not exist on the other at all.
//
// aEmpty/bEmpty select which occupancy view each side is read in (Compose
// reads a in its output context and b in its input context; Rebase reads
// both change and base in their shared input context), and aGapId/bGapId
// the matching accessor for that same view.
func zipMarks(a, b []marks.Mark, aRev, bRev ids.RevisionTag, aEmpty, bEmpty emptyFn, aGapId, bGapId func(marks.Mark) *ids.CellId) []pairedMark {
	var out []pairedMark
	ai, bi := 0, 0
	for ai < len(a) || bi < len(b) {
		haveA := ai < len(a)
		haveB := bi < len(b)

		switch {
		case haveA && haveB && !aEmpty(a[ai]) && !bEmpty(b[bi]):
			am, bm := a[ai], b[bi]
			switch {
			case am.Count == bm.Count:
				out = append(out, pairedMark{A: am, B: bm, HaveA: true, HaveB: true})
				ai++
				bi++
			case am.Count < bm.Count:
				first, rest := marks.SplitMark(bm, am.Count)
				out = append(out, pairedMark{A: am, B: first, HaveA: true, HaveB: true})
				b[bi] = rest
				ai++
			default:
				first, rest := marks.SplitMark(am, bm.Count)
				out = append(out, pairedMark{A: first, B: bm, HaveA: true, HaveB: true})
				a[ai] = rest
				bi++
			}

		case haveA && haveB && aEmpty(a[ai]) && bEmpty(b[bi]):
			am, bm := a[ai], b[bi]
			if n, ok := matchGapCells(am, aRev, bm, bRev, aGapId, bGapId); ok {
				firstA, restA := marks.SplitMark(am, n)
				firstB, restB := marks.SplitMark(bm, n)
				out = append(out, pairedMark{A: firstA, B: firstB, HaveA: true, HaveB: true})
				if restA.Count == 0 {
					ai++
				} else {
					a[ai] = restA
				}
				if restB.Count == 0 {
					bi++
				} else {
					b[bi] = restB
				}
			} else if gapOrdersFirst(am, aRev, bm, bRev, aGapId, bGapId) {
				out = append(out, pairedMark{A: am, HaveA: true})
				ai++
			} else {
				out = append(out, pairedMark{B: bm, HaveB: true})
				bi++
			}

		case haveA && aEmpty(a[ai]):
			out = append(out, pairedMark{A: a[ai], HaveA: true})
			ai++

		case haveB && bEmpty(b[bi]):
			out = append(out, pairedMark{B: b[bi], HaveB: true})
			bi++

		case haveA:
			out = append(out, pairedMark{A: a[ai], HaveA: true})
			ai++

		case haveB:
			out = append(out, pairedMark{B: b[bi], HaveB: true})
			bi++
		}
	}
	return out
}

// matchGapCells reports whether am and bm's gap identities name the same
// cell (spec §4.C step 2) and, if so, the count both sides agree on.
func matchGapCells(am marks.Mark, aRev ids.RevisionTag, bm marks.Mark, bRev ids.RevisionTag, aGapId, bGapId func(marks.Mark) *ids.CellId) (uint32, bool) {
	ac, bc := aGapId(am), bGapId(bm)
	if ac == nil || bc == nil {
		return 0, false
	}
	if !ids.EqualCells(*ac, am.RevisionOrFallback(aRev), *bc, bm.RevisionOrFallback(bRev)) {
		return 0, false
	}
	n := am.Count
	if bm.Count < n {
		n = bm.Count
	}
	return n, true
}

// gapOrdersFirst decides, for two unmatched empty-cell marks, whether am's
// cells sort before bm's (spec §4.C step 3, §4.F "tiebreak"): the cell
// carrying the tiebreak that prefers to lead wins; ties (both or neither
// requesting lead) break by revision then by localId ascending, a total
// order (spec §4.C step 3 "The ordering is total").
func gapOrdersFirst(am marks.Mark, aRev ids.RevisionTag, bm marks.Mark, bRev ids.RevisionTag, aGapId, bGapId func(marks.Mark) *ids.CellId) bool {
	ac, bc := aGapId(am), bGapId(bm)
	if ac == nil || bc == nil {
		return ac != nil
	}
	if ap, bp := tiebreakPriority(ac.Tiebreak), tiebreakPriority(bc.Tiebreak); ap != bp {
		return ap < bp
	}
	ar := ac.ResolvedRevision(am.RevisionOrFallback(aRev))
	br := bc.ResolvedRevision(bm.RevisionOrFallback(bRev))
	if cmp := ids.CompareRevisions(ar, br); cmp != 0 {
		return cmp < 0
	}
	return ac.Local < bc.Local
}

func tiebreakPriority(t ids.Tiebreak) int {
	if t == ids.TiebreakRight {
		return 1
	}
	return 0
}

// cloneMarks makes a shallow copy of a mark slice so zipMarks can mutate
// split remainders in place without corrupting the caller's changeset.
func cloneMarks(in []marks.Mark) []marks.Mark {
	out := make([]marks.Mark, len(in))
	copy(out, in)
	return out
}
