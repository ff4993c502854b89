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

// Compose returns the changeset equivalent to applying a then b in sequence
// (spec §4.D). a's output context must equal b's input context — callers
// that got a and b from unrelated sources are responsible for rebasing
// first. rebaser composes nested child changes; pass nil for sequence-only
// changesets with no attached Changes.
func Compose(a, b Changeset, rebaser ChildRebaser) Changeset {
	pairs := zipMarks(cloneMarks(a.Marks), cloneMarks(b.Marks), a.Revision, b.Revision,
		marks.Mark.EmptyAfter, marks.Mark.EmptyBefore, gapIdentityAfter, gapIdentityBefore)
	out := make([]marks.Mark, 0, len(pairs))
	for _, p := range pairs {
		switch {
		case p.HaveA && p.HaveB:
			out = appendMark(out, combineMarks(p.A, p.B, rebaser))
		case p.HaveA:
			out = appendMark(out, p.A)
		case p.HaveB:
			out = appendMark(out, p.B)
		}
	}
	rev := a.Revision
	if rev.IsUndefined() {
		rev = b.Revision
	}
	return Changeset{Revision: rev, Marks: normalize(out)}
}

// combineMarks implements the 8 reachable (role, role) combinations of
// spec §4.D's combination table. The queue (queue.go) only pairs a with b
// here when a's post-state cell occupancy agrees with b's pre-state: either
// both are populated (count-aligned) or both are empty and name the same
// cell identity. An empty cell only one side knows about is emitted solo and
// never reaches combineMarks at all, so the roleA.after != roleB.before
// combinations the default branch guards against do not occur for
// well-formed input.
func combineMarks(a, b marks.Mark, rebaser ChildRebaser) marks.Mark {
	ra, rb := classify(a), classify(b)
	switch {
	case ra == roleStay && rb == roleStay:
		return composeStayStay(a, b, rebaser)
	case ra == roleStay && rb == roleDetach:
		return composeStayDetach(a, b)
	case ra == roleAttach && rb == roleStay:
		return composeAttachStay(a, b, rebaser)
	case ra == roleAttach && rb == roleDetach:
		return composeAttachDetach(a, b)
	case ra == roleDetach && rb == roleAttach:
		return composeDetachAttach(a, b)
	case ra == roleDetach && rb == roleVoid:
		return a
	case ra == roleVoid && rb == roleAttach:
		return b
	case ra == roleVoid && rb == roleVoid:
		return composeVoidVoid(a, b)
	default:
		// Unreachable when a's output context matches b's input context.
		panic("field: compose received marks with mismatched populated/empty state")
	}
}

func composeChanges(a, b any, rebaser ChildRebaser) any {
	switch {
	case a != nil && b != nil && rebaser != nil:
		return rebaser.Compose(a, b)
	case b != nil:
		return b
	default:
		return a
	}
}

// composeStayStay: both marks leave the cell populated on both sides
// (Skip, Modify, Pin). Pin's identity assertion outranks a bare Modify or
// Skip; nested changes, if any, compose.
func composeStayStay(a, b marks.Mark, rebaser ChildRebaser) marks.Mark {
	out := a
	out.Changes = composeChanges(a.Changes, b.Changes, rebaser)
	if b.Kind == marks.Pin {
		out.Kind = marks.Pin
		out.CellId = b.CellId
	} else if a.Kind != marks.Pin {
		if out.Changes != nil {
			out.Kind = marks.Modify
		} else {
			out.Kind = marks.Skip
		}
	}
	return out
}

// composeStayDetach: the cell was merely touched (or asserted) by a, then
// detached by b. b's detach wins; a's incidental nested change has no
// observable effect once the cell leaves the field.
func composeStayDetach(a, b marks.Mark) marks.Mark {
	return b
}

// composeAttachStay: a attaches a new node into the cell, b then touches it
// in place (Skip/Modify/Pin). a's attach stands; a nested Modify in b folds
// into the attach's own Changes.
func composeAttachStay(a, b marks.Mark, rebaser ChildRebaser) marks.Mark {
	out := a
	out.Changes = composeChanges(a.Changes, b.Changes, rebaser)
	return out
}

// composeAttachDetach: a attaches, b immediately detaches again — the node
// never observably existed in the composed changeset's own context, but
// both half-events remain visible to concurrent operations via the
// transient AttachAndDetach mark (spec §3.2).
func composeAttachDetach(a, b marks.Mark) marks.Mark {
	return marks.NewAttachAndDetach(a, b)
}

// composeDetachAttach: a detaches a node, leaving the cell empty; b then
// attaches a (possibly unrelated) node into that same empty cell. Both
// halves keep their own identity — this does not assert the two nodes are
// the same.
func composeDetachAttach(a, b marks.Mark) marks.Mark {
	return marks.NewAttachAndDetach(b, a)
}

// composeVoidVoid: the cell is empty on both sides of both marks (Tomb,
// Rename, AttachAndDetach). A transient AttachAndDetach always wins since
// it is the only variant carrying real attach/detach content; otherwise
// Rename chains fold into one relabeling, and two Tombs collapse to the
// earlier one's identity.
func composeVoidVoid(a, b marks.Mark) marks.Mark {
	if a.Kind == marks.AttachAndDetach {
		return a
	}
	if b.Kind == marks.AttachAndDetach {
		return b
	}
	if a.Kind == marks.Rename || b.Kind == marks.Rename {
		out := a
		out.Kind = marks.Rename
		if a.Kind == marks.Rename {
			out.OldCellId = a.OldCellId
		} else {
			out.OldCellId = a.CellId
		}
		if b.Kind == marks.Rename {
			out.NewCellId = b.NewCellId
		} else {
			out.NewCellId = b.CellId
		}
		out.CellId = nil
		return out
	}
	return a
}
