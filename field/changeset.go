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

// Package field implements the sequence field change algebra: the changeset
// iterator/queue, compose, invert, rebase, replaceRevisions and delta
// emission (spec components C-H). This is the hardest part of the module —
// the rest of the repo (editmanager, codec) is glue around it.
package field

import (
	"github.com/driftfield/seqedit/ids"
	"github.com/driftfield/seqedit/marks"
)

// ChildRebaser is the injected dependency over the opaque nested
// child-change algebra (spec §1, "out of scope... specified only by the
// interface it needs"). The sequence core never inspects ChildChange
// internals; it only ever composes/inverts/rebases them through here.
type ChildRebaser interface {
	Compose(base, over any) any
	Invert(change any) any
	Rebase(change, base any) any
}

// Changeset is an ordered sequence of marks (spec §3.2). Revision is the
// default revision new marks inherit when they don't carry their own.
type Changeset struct {
	Revision ids.RevisionTag
	Marks    []marks.Mark
}

// Empty reports whether the changeset represents no change — the identity
// changeset is the empty mark sequence (spec invariant 5).
func (c Changeset) Empty() bool {
	return len(c.Marks) == 0
}

// InputLength is the logical length of the field in the changeset's input
// context (spec invariant 1): the sum of counts for marks populated before.
func (c Changeset) InputLength() uint32 {
	var n uint32
	for _, m := range c.Marks {
		if !m.EmptyBefore() {
			n += m.Count
		}
	}
	return n
}

// OutputLength is the logical length of the field in the changeset's output
// context.
func (c Changeset) OutputLength() uint32 {
	var n uint32
	for _, m := range c.Marks {
		if !m.EmptyAfter() {
			n += m.Count
		}
	}
	return n
}

// TaggedChange pairs a Changeset with the revision it was authored under
// (spec §4.D "TaggedChange"); Compose, Invert and Rebase themselves take
// plain Changesets, whose own Revision field carries the tag.
type TaggedChange struct {
	Revision  ids.RevisionTag
	Changeset Changeset
}

// Tag wraps c as a TaggedChange under revision rev.
func Tag(c Changeset, rev ids.RevisionTag) TaggedChange {
	return TaggedChange{Revision: rev, Changeset: c}
}

// normalize merges adjacent mergeable marks and drops zero-count/no-op
// marks, restoring invariant 4 ("no empty marks may remain" / adjacent
// mergeable marks must be merged) after compose or rebase build up a raw
// mark list incrementally.
func normalize(raw []marks.Mark) []marks.Mark {
	out := make([]marks.Mark, 0, len(raw))
	for _, m := range raw {
		if m.Count == 0 {
			continue
		}
		if len(out) > 0 {
			if merged, ok := marks.TryMergeMarks(out[len(out)-1], m); ok {
				out[len(out)-1] = merged
				continue
			}
		}
		out = append(out, m)
	}
	// Drop leading/trailing/standalone Skip(0) already handled by Count==0
	// filter above; collapse a changeset that is nothing but one big Skip
	// into the canonical empty form only when it is literally a no-op with
	// no attached metadata (invariant 5).
	if len(out) == 1 && out[0].IsNoop() {
		return nil
	}
	return out
}

// appendMark appends m to raw, splitting off a zero-count mark never
// happens here — callers are expected to have already trimmed m.Count to a
// non-zero value via splitMark before calling append.
func appendMark(raw []marks.Mark, m marks.Mark) []marks.Mark {
	if m.Count == 0 {
		return raw
	}
	return append(raw, m)
}
