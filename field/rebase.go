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

import "github.com/driftfield/seqedit/marks"

// Rebase returns change as it should be applied after base, given that
// change and base were both authored against the same prior state (spec
// §4.F, tested as properties 8.3-8.4). change and base share an input
// context; the changeset queue (4.C) walks them over that shared frame,
// aligning populated cells by count and empty cells by identity. A concurrent
// Insert in change that base never saw (different cell id, e.g. two sessions
// inserting at the same conceptual index) is therefore never paired against
// base's own Insert at all — it is emitted solo and passes through unchanged,
// which is what keeps property 8.5 (rebase-over-composition) and the
// concurrent-insert scenarios (spec §8.1-8.2) from disturbing either side's
// own edit.
//
// When a populated cell change concurrently modifies is also concurrently
// detached by base, the rebased result degrades to a Tomb rather than
// carrying a distinct "blocked" state — the simplification recorded for
// this module's blocked/conflicted-revive open question.
func Rebase(change, base Changeset, rebaser ChildRebaser) Changeset {
	pairs := zipMarks(cloneMarks(change.Marks), cloneMarks(base.Marks), change.Revision, base.Revision,
		marks.Mark.EmptyBefore, marks.Mark.EmptyBefore, gapIdentityBefore, gapIdentityBefore)
	out := make([]marks.Mark, 0, len(pairs))
	for _, p := range pairs {
		switch {
		case p.HaveA && p.HaveB:
			out = appendMark(out, rebaseMark(p.A, p.B, rebaser))
		case p.HaveA:
			out = appendMark(out, p.A)
		}
		// A base mark with no corresponding change mark (p.HaveB only)
		// contributes nothing to the rebased change — it's purely base's
		// own territory.
	}
	return Changeset{Revision: change.Revision, Marks: normalize(out)}
}

func beforeOccupied(r role) bool {
	return r == roleStay || r == roleDetach
}

// rebaseMark combines one step of the changeset queue's walk. change and base
// arrive here either as a populated/populated pair (any mix of Stay and
// Detach) or as a gap pair naming the same empty cell — the queue
// (queue.go) resolves empty cells by identity and emits
// an unmatched Insert/Revive/etc. solo rather than pairing it against an
// unrelated populated mark, so the populated/empty mismatch this used to
// panic on is unreachable for well-formed input; the check stays as a
// defensive assertion against a malformed queue, not a live hazard.
func rebaseMark(change, base marks.Mark, rebaser ChildRebaser) marks.Mark {
	rc, rb := classify(change), classify(base)
	if beforeOccupied(rc) != beforeOccupied(rb) {
		panic("field: rebase received marks with mismatched populated/empty state")
	}
	switch {
	case rc == roleStay && rb == roleStay:
		return rebaseStayStay(change, base, rebaser)
	case rc == roleStay && rb == roleDetach:
		return rebaseStayDetach(change, base)
	case rc == roleDetach && rb == roleStay:
		return change
	case rc == roleDetach && rb == roleDetach:
		return rebaseDetachDetach(change, base)
	default:
		// Attach/Attach, Attach/Void, Void/Attach, Void/Void: the queue only
		// pairs two gap marks here when they named the same cell identity, in
		// which case there is nothing further to rebase; change passes
		// through unchanged.
		return change
	}
}

// rebaseStayStay: only two concurrent Modify marks on the same node need to
// interact; Skip and Pin carry no content to rebase.
func rebaseStayStay(change, base marks.Mark, rebaser ChildRebaser) marks.Mark {
	if change.Kind == marks.Modify && base.Kind == marks.Modify && rebaser != nil {
		out := change
		out.Changes = rebaser.Rebase(change.Changes, base.Changes)
		return out
	}
	return change
}

// rebaseStayDetach: base already removed the node change wanted to touch in
// place; change degrades to a tombstone reference at base's emitted cell.
func rebaseStayDetach(change, base marks.Mark) marks.Mark {
	if base.CellId == nil {
		return change
	}
	return marks.NewTomb(change.Count, *base.CellId)
}

// rebaseDetachDetach: base already detached the node change also wanted to
// detach; change's half of the double-detach is redundant.
func rebaseDetachDetach(change, base marks.Mark) marks.Mark {
	if base.CellId == nil {
		return change
	}
	return marks.NewTomb(change.Count, *base.CellId)
}
