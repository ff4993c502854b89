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

// Invert builds the changeset that, composed after c, cancels its effect
// (spec §4.E, tested as property 8.2). Every mark maps to its dual: attaches
// invert to detaches and vice versa, Modify inverts its nested change, Pin/
// Rename/Tomb/Skip are their own inverse modulo cell-id bookkeeping.
//
// rebaser inverts a mark's nested Changes; pass nil when inverting a changeset that carries no child changes (the
// sequence-only test scenarios).
func Invert(c Changeset, rebaser ChildRebaser) Changeset {
	out := make([]marks.Mark, 0, len(c.Marks))
	for _, m := range c.Marks {
		out = appendMark(out, invertMark(m, rebaser))
	}
	return Changeset{Revision: c.Revision, Marks: normalize(out)}
}

func invertMark(m marks.Mark, rebaser ChildRebaser) marks.Mark {
	inv := m
	if m.Changes != nil && rebaser != nil {
		inv.Changes = rebaser.Invert(m.Changes)
	}

	switch m.Kind {
	case marks.Skip, marks.Pin, marks.Tomb:
		// Self-dual: a Skip/Pin/Tomb inverts to the same kind over the same
		// cells; only the nested change (if any) flips.
		return inv

	case marks.Insert:
		// Inserting cells is undone by removing them; the cells the revive
		// would need to target are exactly the ones this insert created.
		inv.Kind = marks.Remove
		return inv

	case marks.Remove:
		// Removing cells is undone by reviving them from where they landed.
		inv.Kind = marks.Revive
		return inv

	case marks.Revive:
		inv.Kind = marks.Remove
		return inv

	case marks.MoveOut:
		inv.Kind = marks.MoveIn
		inv.FinalEndpoint = m.FinalEndpoint
		return inv

	case marks.MoveIn:
		inv.Kind = marks.MoveOut
		return inv

	case marks.ReturnTo:
		// The inverse of "return to origin" is "move out, remembering this
		// as the place it would return to again".
		inv.Kind = marks.MoveOut
		if m.ReturnSourceCell != nil {
			c := *m.ReturnSourceCell
			inv.CellId = &c
		}
		return inv

	case marks.Rename:
		inv.OldCellId, inv.NewCellId = m.NewCellId, m.OldCellId
		return inv

	case marks.AttachAndDetach:
		// The inverse swaps which half runs first: detach's inverse
		// (attach-shaped) becomes the new inner attach, attach's inverse
		// (detach-shaped) becomes the new inner detach.
		invAttach := invertMark(*m.InnerDetach, rebaser)
		invDetach := invertMark(*m.InnerAttach, rebaser)
		return marks.NewAttachAndDetach(invAttach, invDetach)

	default:
		return inv
	}
}
