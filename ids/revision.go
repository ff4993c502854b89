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

// Package ids implements the identifier model (spec component A): revision
// tags, local ids, cell ids and the per-revision local-id allocator that the
// mark and changeset algebra build on.
package ids

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// RevisionTag is an opaque identifier for one committed changeset. The zero
// value is "undefined" — the placeholder a changeset carries before it has
// been committed and assigned a real tag. Two tags compare by identity only;
// RevisionTag itself carries no order. Where a deterministic total order is
// required for tie-break (see CompareRevisions), the raw bytes of the
// underlying id are used as an arbitrary but stable ordering — it has no
// semantic meaning beyond determinism.
type RevisionTag struct {
	id    uuid.UUID
	valid bool
}

// UndefinedRevision is the placeholder tag a changeset carries before commit.
var UndefinedRevision = RevisionTag{}

// NewRevisionTag mints a fresh, globally unique revision tag. In production
// this is the external minter's job (spec §4.A); this constructor is the
// default allocator used by tests and the CLI.
func NewRevisionTag() RevisionTag {
	return RevisionTag{id: uuid.New(), valid: true}
}

// RevisionTagFromUUID wraps an externally-minted id as a RevisionTag.
func RevisionTagFromUUID(u uuid.UUID) RevisionTag {
	return RevisionTag{id: u, valid: true}
}

// IsUndefined reports whether this tag is the pre-commit placeholder.
func (r RevisionTag) IsUndefined() bool {
	return !r.valid
}

// Equal compares two tags by identity. Two undefined tags are equal to each
// other (both are "no tag yet"), matching how an uncommitted changeset's
// cells compare amongst themselves.
func (r RevisionTag) Equal(o RevisionTag) bool {
	if r.valid != o.valid {
		return false
	}
	if !r.valid {
		return true
	}
	return r.id == o.id
}

// CompareRevisions returns a deterministic, arbitrary (non-semantic) total
// order over revision tags, used only to break ties (spec §4.C.3, §4.F
// "tie-break"). Undefined sorts before any defined tag.
func CompareRevisions(a, b RevisionTag) int {
	if a.valid != b.valid {
		if !a.valid {
			return -1
		}
		return 1
	}
	if !a.valid {
		return 0
	}
	return bytes.Compare(a.id[:], b.id[:])
}

// String renders the tag for logs and test failure messages.
func (r RevisionTag) String() string {
	if !r.valid {
		return "<undefined>"
	}
	return r.id.String()
}

// MarshalJSON encodes an undefined tag as null, matching spec §6: "may be
// undefined inside a changeset before it is committed; codecs must accept
// that encoding".
func (r RevisionTag) MarshalJSON() ([]byte, error) {
	if !r.valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

// UnmarshalJSON accepts null as the undefined tag.
func (r *RevisionTag) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = UndefinedRevision
		return nil
	}
	var u uuid.UUID
	if err := json.Unmarshal(data, &u); err != nil {
		return err
	}
	*r = RevisionTag{id: u, valid: true}
	return nil
}
