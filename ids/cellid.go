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

// Tiebreak is the per-insertion policy that decides ordering against a
// concurrent insertion at the same conceptual index (spec §4.F, glossary).
type Tiebreak int

const (
	// TiebreakLeft orders the incoming insert before the concurrent base
	// insert. This is the default (spec §4.F).
	TiebreakLeft Tiebreak = iota
	// TiebreakRight orders the incoming insert after the concurrent base
	// insert.
	TiebreakRight
)

// LineageEntry is a legacy per-cell ordering hint (spec §4.C, glossary).
// Current-generation code only ever produces tombstone marks for ordering,
// but decode must still accept lineage-bearing cell ids from older encodings
// (spec §9).
type LineageEntry struct {
	Revision RevisionTag
	Id       LocalId
	Count    uint32
	Offset   uint32
}

// CellId names a single position that once held (or will hold) a node (spec
// §3.1). HasRevision distinguishes "explicitly no revision" (Revision is
// UndefinedRevision) from "omitted — inherit the enclosing changeset's
// revision" (HasRevision is false); replaceRevisions only ever rewrites
// cells that carry an explicit revision.
type CellId struct {
	Revision    RevisionTag
	HasRevision bool
	Local       LocalId

	// Lineage is populated only when decoding the legacy wire form (spec
	// §9); current-generation marks leave it empty and rely on tombstones.
	Lineage []LineageEntry

	// Tiebreak records the tie-break policy an Insert's cell id was minted
	// with, so it survives further rebases (spec §4.F).
	Tiebreak Tiebreak
}

// NewCellId builds a cell id with an explicit revision.
func NewCellId(revision RevisionTag, local LocalId) CellId {
	return CellId{Revision: revision, HasRevision: true, Local: local}
}

// NewInheritedCellId builds a cell id whose revision is inherited from the
// enclosing changeset or mark.
func NewInheritedCellId(local LocalId) CellId {
	return CellId{Local: local}
}

// ResolvedRevision returns the cell's revision, substituting fallback when
// the cell id has no explicit revision of its own.
func (c CellId) ResolvedRevision(fallback RevisionTag) RevisionTag {
	if c.HasRevision {
		return c.Revision
	}
	return fallback
}

// EqualCells compares two cell ids as resolved against their respective fallback
// revisions — this is the comparison the changeset queue uses to decide "do
// the two sides name the same cell" (spec §4.C.2).
func EqualCells(a CellId, aFallback RevisionTag, b CellId, bFallback RevisionTag) bool {
	return a.ResolvedRevision(aFallback).Equal(b.ResolvedRevision(bFallback)) && a.Local == b.Local
}

// WithRevision returns a copy of c with its revision replaced and marked
// explicit.
func (c CellId) WithRevision(rev RevisionTag) CellId {
	c.Revision = rev
	c.HasRevision = true
	return c
}

// WithTiebreak returns a copy of c minted with the given tie-break policy,
// used when building an Insert's destination cell id (spec §4.F).
func (c CellId) WithTiebreak(t Tiebreak) CellId {
	c.Tiebreak = t
	return c
}

// Shift returns a copy of c with its local id advanced by delta, used by
// splitMark when a mark naming a contiguous cell range is cut in two (spec
// §4.B).
func (c CellId) Shift(delta uint32) CellId {
	c.Local += LocalId(delta)
	return c
}

// ChangeAtomId names a change rather than a cell; it shares CellId's shape
// (spec §3.1 glossary: "ChangeAtomId — alias for CellId").
type ChangeAtomId = CellId

// NodeId is the opaque id of a nested child change, passed through to the
// child-rebaser without interpretation. It shares CellId's (revision,
// localId) shape because child changes are minted from the same per-revision
// allocator as cells.
type NodeId = ChangeAtomId
