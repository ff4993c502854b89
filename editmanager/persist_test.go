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

package editmanager

import (
	"testing"

	"github.com/driftfield/seqedit/field"
	"github.com/driftfield/seqedit/marks"
	"github.com/driftfield/seqedit/storage"
)

// TestLoadFromStorageReplaysTrunk verifies a fresh Manager can rebuild its
// trunk entirely from what a prior Manager persisted (spec SPEC_FULL §6).
func TestLoadFromStorageReplaysTrunk(t *testing.T) {
	kv := storage.NewMemory()

	m := New("me", nil, kv)
	batch := []field.Changeset{
		{Marks: []marks.Mark{marks.NewSkip(1)}},
		{Marks: []marks.Mark{marks.NewSkip(2)}},
		{Marks: []marks.Mark{marks.NewSkip(3)}},
	}
	if err := m.AddSequencedChanges(batch, "other", 1, 0); err != nil {
		t.Fatalf("AddSequencedChanges: %v", err)
	}

	fresh := New("me", nil, kv)
	if err := fresh.LoadFromStorage(); err != nil {
		t.Fatalf("LoadFromStorage: %v", err)
	}

	trunk := fresh.GetTrunkChanges()
	if len(trunk) != 3 {
		t.Fatalf("expected 3 replayed trunk commits, got %d", len(trunk))
	}
	for i, c := range trunk {
		if c.Seq != uint64(1+i) {
			t.Fatalf("replayed commit %d has seq %d, want %d", i, c.Seq, 1+i)
		}
		if c.SessionId != "other" {
			t.Fatalf("replayed commit %d has sessionId %q, want \"other\"", i, c.SessionId)
		}
	}
}

// TestLoadFromStorageDropsEvictedCommits checks that an eviction is
// reflected in a subsequent replay from storage.
func TestLoadFromStorageDropsEvictedCommits(t *testing.T) {
	kv := storage.NewMemory()

	m := New("me", nil, kv)
	batch := []field.Changeset{
		{Marks: []marks.Mark{marks.NewSkip(1)}},
		{Marks: []marks.Mark{marks.NewSkip(1)}},
	}
	if err := m.AddSequencedChanges(batch, "other", 1, 0); err != nil {
		t.Fatalf("AddSequencedChanges: %v", err)
	}
	if err := m.AdvanceMinimumSequenceNumber(1); err != nil {
		t.Fatalf("AdvanceMinimumSequenceNumber: %v", err)
	}

	fresh := New("me", nil, kv)
	if err := fresh.LoadFromStorage(); err != nil {
		t.Fatalf("LoadFromStorage: %v", err)
	}
	trunk := fresh.GetTrunkChanges()
	if len(trunk) != 1 || trunk[0].Seq != 2 {
		t.Fatalf("expected only commit seq=2 to survive, got %+v", trunk)
	}
}
