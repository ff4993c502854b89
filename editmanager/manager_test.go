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

	"github.com/driftfield/seqedit/childchange"
	"github.com/driftfield/seqedit/field"
	"github.com/driftfield/seqedit/marks"
)

// TestTenLocalThenTenTrunk is spec scenario 5: ten local commits authored
// at ref=0, then ten trunk commits from another session arrive. The trunk
// should end up with all ten in arrival order and the local branch should
// still have ten (rebased) commits.
func TestTenLocalThenTenTrunk(t *testing.T) {
	m := New("me", childchange.Rebaser{}, nil)

	for i := 0; i < 10; i++ {
		m.Apply(field.Changeset{Marks: []marks.Mark{marks.NewModify(childchange.Set("f", i))}})
	}
	if got := len(m.GetLocalChanges()); got != 10 {
		t.Fatalf("expected 10 local commits before any trunk activity, got %d", got)
	}

	batch := make([]field.Changeset, 10)
	for i := range batch {
		batch[i] = field.Changeset{Marks: []marks.Mark{marks.NewModify(childchange.Set("g", i))}}
	}
	if err := m.AddSequencedChanges(batch, "other", 1, 0); err != nil {
		t.Fatalf("AddSequencedChanges: %v", err)
	}

	trunk := m.GetTrunkChanges()
	if len(trunk) != 10 {
		t.Fatalf("expected 10 trunk commits, got %d", len(trunk))
	}
	for i, c := range trunk {
		if c.Seq != uint64(1+i) {
			t.Fatalf("trunk commit %d has seq %d, want %d", i, c.Seq, 1+i)
		}
	}
	if got := len(m.GetLocalChanges()); got != 10 {
		t.Fatalf("expected local branch to still have 10 rebased commits, got %d", got)
	}
	if got := m.GetLongestBranchLength(); got != 10 {
		t.Fatalf("GetLongestBranchLength() = %d, want 10", got)
	}
}

// TestEvictionRespectsMinimumSequenceNumber is spec scenario 6: commits
// 1..4 on the trunk, advanceMinimumSequenceNumber(4) with no live branches
// past commit 4 removes all four.
func TestEvictionRespectsMinimumSequenceNumber(t *testing.T) {
	m := New("me", nil, nil)
	batch := make([]field.Changeset, 4)
	for i := range batch {
		batch[i] = field.Changeset{Marks: []marks.Mark{marks.NewSkip(1)}}
	}
	if err := m.AddSequencedChanges(batch, "other", 1, 0); err != nil {
		t.Fatalf("AddSequencedChanges: %v", err)
	}
	if err := m.AdvanceMinimumSequenceNumber(4); err != nil {
		t.Fatalf("AdvanceMinimumSequenceNumber: %v", err)
	}
	if got := len(m.GetTrunkChanges()); got != 0 {
		t.Fatalf("expected all 4 commits evicted, got %d remaining", got)
	}

	// A subsequent commit from a new peer referencing the evicted commit 2,
	// below the msn of 4, is rejected as a usage error rather than silently
	// misbehaving.
	if err := m.AddSequencedChanges([]field.Changeset{{Marks: []marks.Mark{marks.NewSkip(1)}}}, "late", 5, 2); err == nil {
		t.Fatalf("expected a reference to an evicted commit to error")
	}
}

// TestRevertiblePinsAgainstEviction exercises the revertible/eviction
// interaction (spec §7 "Eviction safety").
func TestRevertiblePinsAgainstEviction(t *testing.T) {
	m := New("me", nil, nil)
	rev := m.Apply(field.Changeset{Marks: []marks.Mark{marks.NewSkip(1)}})
	if err := m.AddSequencedChanges([]field.Changeset{{Marks: []marks.Mark{marks.NewSkip(1)}}}, "me", 1, 0); err != nil {
		t.Fatalf("AddSequencedChanges: %v", err)
	}

	r, err := m.MakeRevertible(rev)
	if err != nil {
		t.Fatalf("MakeRevertible: %v", err)
	}
	if err := m.AdvanceMinimumSequenceNumber(1); err != nil {
		t.Fatalf("AdvanceMinimumSequenceNumber: %v", err)
	}
	if got := len(m.GetTrunkChanges()); got != 1 {
		t.Fatalf("expected the pinned commit to survive eviction, got %d remaining", got)
	}

	r.Dispose()
	if err := m.AdvanceMinimumSequenceNumber(1); err != nil {
		t.Fatalf("AdvanceMinimumSequenceNumber: %v", err)
	}
	if got := len(m.GetTrunkChanges()); got != 0 {
		t.Fatalf("expected the commit to be evicted after disposal, got %d remaining", got)
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	m := New("me", nil, nil)
	if err := m.AddSequencedChanges([]field.Changeset{{Marks: []marks.Mark{marks.NewSkip(2)}}}, "other", 1, 0); err != nil {
		t.Fatalf("AddSequencedChanges: %v", err)
	}
	data := m.GetSummaryData()

	reloaded := New("me", nil, nil)
	reloaded.LoadSummaryData(data)

	if got := len(reloaded.GetTrunkChanges()); got != 1 {
		t.Fatalf("expected 1 trunk commit after reload, got %d", got)
	}
	if got := len(reloaded.GetLocalChanges()); got != 0 {
		t.Fatalf("expected local branch to reset on reload, got %d", got)
	}
}
