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

// Package marks implements the mark model (spec component B): the tagged
// union of marks that make up a changeset, plus the splitMark/tryMergeMarks
// inverse pair that compose/rebase/the changeset queue all build on.
//
// A Mark is one struct with a Kind discriminator rather than an interface
// per variant, mirroring how the teacher represents OutboxEnvelope/
// QueuedDiffV1 — one struct, a Kind string, fields meaningful only for some
// kinds — because the wire form (spec §6) is itself one flat object
// {type, count, ...}.
package marks

import (
	"fmt"

	"github.com/driftfield/seqedit/ids"
)

// Kind discriminates the mark variants of spec §3.2.
type Kind int

const (
	Skip Kind = iota
	Tomb
	Modify
	Insert
	Remove
	Revive
	Pin
	MoveOut
	MoveIn
	ReturnTo
	Rename
	AttachAndDetach
)

func (k Kind) String() string {
	switch k {
	case Skip:
		return "Skip"
	case Tomb:
		return "Tomb"
	case Modify:
		return "Modify"
	case Insert:
		return "Insert"
	case Remove:
		return "Remove"
	case Revive:
		return "Revive"
	case Pin:
		return "Pin"
	case MoveOut:
		return "MoveOut"
	case MoveIn:
		return "MoveIn"
	case ReturnTo:
		return "ReturnTo"
	case Rename:
		return "Rename"
	case AttachAndDetach:
		return "AttachAndDetach"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Endpoint names one side of a move that may have chained through several
// hops during compose; the vestigial "final" endpoint lets a reader recover
// the logical source/destination of the whole chain (spec §3.2).
type Endpoint struct {
	Revision ids.RevisionTag
	Local    ids.LocalId
}

func (e Endpoint) Equal(o Endpoint) bool {
	return e.Revision.Equal(o.Revision) && e.Local == o.Local
}

// Mark is one element of a Changeset (spec §3.2). Not every field is
// meaningful for every Kind; see the per-kind constructors below for the
// fields each variant actually uses.
type Mark struct {
	Kind  Kind
	Count uint32

	// CellId is present iff the cells are empty before the mark (for
	// Insert/Revive/MoveIn/ReturnTo/Tomb) or names the cells a Remove/
	// MoveOut/Pin mark emits or asserts (spec §3.2).
	CellId *ids.CellId

	// Changes is the nested child change attached to the (single) node in
	// this mark's cell, an opaque value passed through to the injected
	// ChildRebaser without interpretation (spec §4 "child-rebaser
	// boundary"). A mark with Changes set always has Count == 1.
	Changes any

	// Revision overrides the changeset's revision for this mark only; the
	// zero value means "inherit" (spec §3.2).
	Revision    ids.RevisionTag
	HasRevision bool

	// Move-specific fields (MoveOut/MoveIn/ReturnTo).
	FinalEndpoint    *Endpoint
	IdOverride       *ids.CellId // MoveOut only; see spec §9 "idOverride".
	ReturnSourceCell *ids.CellId // ReturnTo only: the cell being returned from.

	// Rename-specific fields.
	OldCellId *ids.CellId
	NewCellId *ids.CellId

	// AttachAndDetach-specific fields: an inner attach (Insert/MoveIn/
	// ReturnTo-shaped) and an inner detach (Remove/MoveOut-shaped),
	// composed atomically (spec §3.2).
	InnerAttach *Mark
	InnerDetach *Mark
}

// EmptyBefore reports whether this mark's cells are empty in the input
// context (spec §3.2 "Pre-cells" column).
func (m Mark) EmptyBefore() bool {
	switch m.Kind {
	case Insert, Revive, MoveIn, ReturnTo, Rename, AttachAndDetach, Tomb:
		return true
	default:
		return false
	}
}

// EmptyAfter reports whether this mark's cells are empty in the output
// context (spec §3.2 "Post-cells" column).
func (m Mark) EmptyAfter() bool {
	switch m.Kind {
	case Remove, MoveOut, Rename, AttachAndDetach, Tomb:
		return true
	default:
		return false
	}
}

// IsNoop reports whether a mark has no observable effect and no attached
// metadata worth keeping: a Skip with no children. A Tomb is not a no-op
// here — it carries no effect, but it does carry ordering information.
func (m Mark) IsNoop() bool {
	return m.Kind == Skip && m.Changes == nil
}

// RevisionOrFallback resolves a mark's effective revision against a
// changeset-level fallback.
func (m Mark) RevisionOrFallback(fallback ids.RevisionTag) ids.RevisionTag {
	if m.HasRevision {
		return m.Revision
	}
	return fallback
}

// NewSkip builds a Skip mark spanning count populated cells.
func NewSkip(count uint32) Mark {
	return Mark{Kind: Skip, Count: count}
}

// NewTomb builds a Tomb mark over the given empty cell.
func NewTomb(count uint32, cell ids.CellId) Mark {
	c := cell
	return Mark{Kind: Tomb, Count: count, CellId: &c}
}

// NewModify builds a Modify mark carrying a nested child change.
func NewModify(changes any) Mark {
	return Mark{Kind: Modify, Count: 1, Changes: changes}
}

// NewInsert builds an Insert mark creating count nodes starting at dest.
func NewInsert(count uint32, dest ids.CellId) Mark {
	d := dest
	return Mark{Kind: Insert, Count: count, CellId: &d}
}

// NewRemove builds a Remove mark detaching count nodes, which become
// addressable via emittedCellId onward.
func NewRemove(count uint32, emittedCellId ids.CellId) Mark {
	c := emittedCellId
	return Mark{Kind: Remove, Count: count, CellId: &c}
}

// NewRevive builds a Revive mark restoring count nodes previously detached
// under source.
func NewRevive(count uint32, source ids.CellId) Mark {
	c := source
	return Mark{Kind: Revive, Count: count, CellId: &c}
}

// NewPin builds a Pin mark asserting the populated cell is identified by id.
func NewPin(count uint32, id ids.CellId) Mark {
	c := id
	return Mark{Kind: Pin, Count: count, CellId: &c}
}

// NewMoveOut builds the source side of a move.
func NewMoveOut(count uint32, emittedCellId ids.CellId) Mark {
	c := emittedCellId
	return Mark{Kind: MoveOut, Count: count, CellId: &c}
}

// NewMoveIn builds the destination side of a move.
func NewMoveIn(count uint32, dest ids.CellId) Mark {
	d := dest
	return Mark{Kind: MoveIn, Count: count, CellId: &d}
}

// NewReturnTo builds a return-to-origin move destination.
func NewReturnTo(count uint32, dest ids.CellId, source ids.CellId) Mark {
	d, s := dest, source
	return Mark{Kind: ReturnTo, Count: count, CellId: &d, ReturnSourceCell: &s}
}

// NewRename builds a Rename mark relabeling empty cells.
func NewRename(count uint32, oldId, newId ids.CellId) Mark {
	o, n := oldId, newId
	return Mark{Kind: Rename, Count: count, OldCellId: &o, NewCellId: &n}
}

// NewAttachAndDetach builds a transient mark: attach and detach fuse
// atomically, leaving the cell empty on both sides but the cell ids
// observable to concurrent operations (spec §3.2).
func NewAttachAndDetach(attach, detach Mark) Mark {
	return Mark{Kind: AttachAndDetach, Count: attach.Count, InnerAttach: &attach, InnerDetach: &detach}
}

func (m Mark) String() string {
	return fmt.Sprintf("%s(count=%d)", m.Kind, m.Count)
}
