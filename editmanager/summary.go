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

import "github.com/driftfield/seqedit/ids"

// PeerBranchSummary captures one remote session's outstanding commits for
// the summary form (spec §4.I "Summary form").
type PeerBranchSummary struct {
	SessionId string
	RefSeq    uint64
	Commits   []Commit
}

// SummaryData is the in-memory shape the codec package's summary codec
// reads and writes; GetSummaryData/LoadSummaryData never touch the wire
// format directly (spec §4.J owns versioning and encoding).
type SummaryData struct {
	Trunk    []Commit
	Branches []PeerBranchSummary
}

// GetSummaryData serialises the trunk and every peer branch (not the local
// branch, which is this session's own transient scratch state).
func (m *Manager) GetSummaryData() SummaryData {
	m.mu.Lock()
	defer m.mu.Unlock()

	data := SummaryData{Trunk: make([]Commit, len(m.trunkOrder))}
	for i, h := range m.trunkOrder {
		c := m.commits[h]
		data.Trunk[i] = Commit{Revision: c.Revision, Changeset: c.Changeset, Seq: c.Seq, SessionId: c.SessionId}
	}
	for sid, p := range m.peers {
		pb := PeerBranchSummary{SessionId: sid, RefSeq: p.refSeq, Commits: make([]Commit, len(p.commits))}
		for i, h := range p.commits {
			c := m.commits[h]
			pb.Commits[i] = Commit{Revision: c.Revision, Changeset: c.Changeset}
		}
		data.Branches = append(data.Branches, pb)
	}
	return data
}

// LoadSummaryData replaces the manager's trunk and peer branches with data;
// the local branch is reset to empty, matching a freshly attached session.
func (m *Manager) LoadSummaryData(data SummaryData) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.commits = make(map[commitHandle]commit)
	m.nextHandle = 0
	m.trunkOrder = nil
	m.trunkBySeq = make(map[uint64]commitHandle)
	m.localBranch = nil
	m.peers = make(map[string]*peerBranch)
	m.revertibles = make(map[ids.RevisionTag]commitHandle)

	for _, c := range data.Trunk {
		h := m.alloc(commit{Revision: c.Revision, Changeset: c.Changeset, Seq: c.Seq, SessionId: c.SessionId})
		m.trunkOrder = append(m.trunkOrder, h)
		m.trunkBySeq[c.Seq] = h
	}
	for _, pb := range data.Branches {
		p := &peerBranch{sessionId: pb.SessionId, refSeq: pb.RefSeq}
		for _, c := range pb.Commits {
			h := m.alloc(commit{Revision: c.Revision, Changeset: c.Changeset})
			p.commits = append(p.commits, h)
		}
		m.peers[pb.SessionId] = p
	}
}
