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

// DeltaOpKind discriminates the projected, tombstone-free view of a
// changeset that a tree consumer applies to its live document (spec §4.H):
// unlike a Changeset, a Delta never mentions empty cells at all.
type DeltaOpKind int

const (
	DeltaSkip DeltaOpKind = iota
	DeltaModify
	DeltaInsert
	DeltaDelete
	DeltaMoveOut
	DeltaMoveIn
)

// DeltaOp is one step of a Delta, indexed purely by populated-field
// position — a consumer walking a Delta never needs to know about
// tombstones, lineage, or cell ids at all.
type DeltaOp struct {
	Kind    DeltaOpKind
	Count   uint32
	Changes any
	MoveId  uint64 // numbers MoveOut/MoveIn ops in order; the two halves of one move get different ids and are not paired.
}

// ToDelta projects a changeset down to the sequence of operations a tree
// consumer actually needs to apply to its document (spec §4.H). Tomb and
// Rename marks vanish entirely since they never touch populated content;
// AttachAndDetach, although void, always contributes both an
// insert and a delete (an observer does briefly see the node, even though
// the sequence-field layer treats it as transient).
func ToDelta(c Changeset) []DeltaOp {
	var out []DeltaOp
	var nextMoveId uint64
	for _, m := range c.Marks {
		switch m.Kind {
		case marks.Skip:
			out = appendDelta(out, DeltaOp{Kind: DeltaSkip, Count: m.Count})
		case marks.Modify:
			out = appendDelta(out, DeltaOp{Kind: DeltaModify, Count: m.Count, Changes: m.Changes})
		case marks.Insert, marks.Revive, marks.ReturnTo:
			out = appendDelta(out, DeltaOp{Kind: DeltaInsert, Count: m.Count, Changes: m.Changes})
		case marks.Remove:
			out = appendDelta(out, DeltaOp{Kind: DeltaDelete, Count: m.Count})
		case marks.Pin:
			out = appendDelta(out, DeltaOp{Kind: DeltaSkip, Count: m.Count, Changes: m.Changes})
		case marks.MoveOut:
			id := nextMoveId
			nextMoveId++
			out = appendDelta(out, DeltaOp{Kind: DeltaMoveOut, Count: m.Count, MoveId: id})
		case marks.MoveIn:
			id := nextMoveId
			nextMoveId++
			out = appendDelta(out, DeltaOp{Kind: DeltaMoveIn, Count: m.Count, MoveId: id})
		case marks.AttachAndDetach:
			out = appendDelta(out, DeltaOp{Kind: DeltaInsert, Count: m.Count, Changes: m.InnerAttach.Changes})
			out = appendDelta(out, DeltaOp{Kind: DeltaDelete, Count: m.Count})
		case marks.Tomb, marks.Rename:
			// No observable effect: both sides of the field are empty.
		}
	}
	return out
}

func appendDelta(ops []DeltaOp, op DeltaOp) []DeltaOp {
	if op.Count == 0 {
		return ops
	}
	if len(ops) > 0 {
		last := &ops[len(ops)-1]
		if last.Kind == op.Kind && last.Changes == nil && op.Changes == nil && last.MoveId == op.MoveId {
			last.Count += op.Count
			return ops
		}
	}
	return append(ops, op)
}
