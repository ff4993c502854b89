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

// ReplaceRevisions rewrites every revision reference a changeset carries —
// the changeset's own Revision, each mark's per-mark override, the explicit
// revision of every cell id, every lineage entry and final endpoint, and
// the inner marks of an AttachAndDetach — according to oldToNew. Cell ids
// without an explicit revision and nested child Changes are left as they
// are. Nothing in the edit manager or codec calls it (spec §4.G, tested as
// property 8.7: a homomorphism over compose).
func ReplaceRevisions(c Changeset, oldToNew map[ids.RevisionTag]ids.RevisionTag) Changeset {
	replace := func(r ids.RevisionTag) ids.RevisionTag {
		if nr, ok := oldToNew[r]; ok {
			return nr
		}
		return r
	}
	out := make([]marks.Mark, len(c.Marks))
	for i, m := range c.Marks {
		out[i] = replaceMarkRevisions(m, replace)
	}
	return Changeset{Revision: replace(c.Revision), Marks: out}
}

func replaceCellRevisions(cell *ids.CellId, replace func(ids.RevisionTag) ids.RevisionTag) *ids.CellId {
	if cell == nil {
		return nil
	}
	nc := *cell
	if nc.HasRevision {
		nc.Revision = replace(nc.Revision)
	}
	if len(nc.Lineage) > 0 {
		lineage := make([]ids.LineageEntry, len(nc.Lineage))
		for i, l := range nc.Lineage {
			l.Revision = replace(l.Revision)
			lineage[i] = l
		}
		nc.Lineage = lineage
	}
	return &nc
}

func replaceMarkRevisions(m marks.Mark, replace func(ids.RevisionTag) ids.RevisionTag) marks.Mark {
	out := m
	if m.HasRevision {
		out.Revision = replace(m.Revision)
	}
	out.CellId = replaceCellRevisions(m.CellId, replace)
	out.IdOverride = replaceCellRevisions(m.IdOverride, replace)
	out.ReturnSourceCell = replaceCellRevisions(m.ReturnSourceCell, replace)
	out.OldCellId = replaceCellRevisions(m.OldCellId, replace)
	out.NewCellId = replaceCellRevisions(m.NewCellId, replace)
	if m.FinalEndpoint != nil {
		fe := *m.FinalEndpoint
		fe.Revision = replace(fe.Revision)
		out.FinalEndpoint = &fe
	}
	if m.InnerAttach != nil {
		inner := replaceMarkRevisions(*m.InnerAttach, replace)
		out.InnerAttach = &inner
	}
	if m.InnerDetach != nil {
		inner := replaceMarkRevisions(*m.InnerDetach, replace)
		out.InnerDetach = &inner
	}
	return out
}
