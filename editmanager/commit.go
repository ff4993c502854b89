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

// Package editmanager implements the branch/trunk bookkeeping, sandwich
// rebasing protocol, and sequence-number-driven eviction that schedules the
// field package's compose/invert/rebase against a session's commit history
// (spec component I).
package editmanager

import (
	"github.com/driftfield/seqedit/field"
	"github.com/driftfield/seqedit/ids"
)

// commitHandle is an arena index into a Manager's commit table, not a
// pointer — branches hold handles so eviction can reclaim trunk commits
// without chasing down every reference to a Go pointer (spec §7
// "Ownership of commits").
type commitHandle uint64

const invalidHandle commitHandle = 0

// commit is one entry in the arena. Sequenced commits carry Seq/RefSeq/
// SessionId; an unsequenced local commit has Seq == 0 until it is
// acknowledged back off the trunk.
type commit struct {
	Revision  ids.RevisionTag
	Changeset field.Changeset
	Seq       uint64
	RefSeq    uint64
	SessionId string
	Parent    commitHandle
}

// Commit is the read-only view of a commit handed back to callers (spec
// §4.I getTrunkChanges/getLocalChanges).
type Commit struct {
	Revision  ids.RevisionTag
	Changeset field.Changeset
	Seq       uint64
	SessionId string
}
