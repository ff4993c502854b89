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

// role collapses the twelve mark kinds down to the four shapes that matter
// for combining two marks sharing a coordinate (spec §4.D): whether the
// cell is populated or empty on each side of the mark. Compose and rebase
// both dispatch on the pair of roles rather than the pair of kinds — 144
// kind combinations collapse to the 8 that are actually reachable, since a
// shared coordinate forces agreement on populated-vs-empty.
type role int

const (
	roleStay   role = iota // populated before and after: Skip, Modify, Pin
	roleAttach             // empty before, populated after: Insert, Revive, MoveIn, ReturnTo
	roleDetach             // populated before, empty after: Remove, MoveOut
	roleVoid               // empty before and after: Tomb, Rename, AttachAndDetach
)

func classify(m marks.Mark) role {
	switch m.Kind {
	case marks.Skip, marks.Modify, marks.Pin:
		return roleStay
	case marks.Insert, marks.Revive, marks.MoveIn, marks.ReturnTo:
		return roleAttach
	case marks.Remove, marks.MoveOut:
		return roleDetach
	default: // Tomb, Rename, AttachAndDetach
		return roleVoid
	}
}
