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
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/driftfield/seqedit/field"
	"github.com/driftfield/seqedit/ids"
	seqmetrics "github.com/driftfield/seqedit/internal/metrics"
	"github.com/driftfield/seqedit/storage"
)

// ErrUnknownReference is a usage error: a peer's reference sequence number
// names a trunk commit this manager has already evicted (spec §4
// "Propagation").
var ErrUnknownReference = fmt.Errorf("editmanager: reference sequence number points to an evicted or unseen commit")

// peerBranch records how far one remote session has been observed on the
// trunk (refSeq). Its commits list is only filled by LoadSummaryData; the
// manager does not append that peer's commits to it or rebase them as the
// trunk advances (spec §4.I "peer branches share ancestors with the trunk").
type peerBranch struct {
	sessionId string
	refSeq    uint64
	commits   []commitHandle
}

// DeltaObserver is notified with the externally-visible effect of whatever
// just landed on the trunk (spec §4.I "emit the net delta to observers").
type DeltaObserver func(delta []field.DeltaOp)

// Manager owns a session's view of the trunk, its own local branch, and
// every peer branch it knows about, guarded by a single mutex exactly like
// the teacher's emitter service guards its outbox state.
type Manager struct {
	sessionId string
	rebaser   field.ChildRebaser
	kv        storage.KV

	mu         sync.Mutex
	commits    map[commitHandle]commit
	nextHandle commitHandle

	trunkOrder []commitHandle // ascending seq
	trunkBySeq map[uint64]commitHandle

	localBranch []commitHandle // oldest first; always rebased onto the current trunk head

	peers map[string]*peerBranch

	revertibles map[ids.RevisionTag]commitHandle

	minimumSequenceNumber uint64
	observers             []DeltaObserver

	degraded atomic.Bool
}

// New creates a Manager for sessionId. kv may be nil for a purely in-memory
// manager that never persists (tests, ephemeral sessions); rebaser may be
// nil for sequence-only changesets with no attached child changes.
func New(sessionId string, rebaser field.ChildRebaser, kv storage.KV) *Manager {
	return &Manager{
		sessionId:   sessionId,
		rebaser:     rebaser,
		kv:          kv,
		commits:     make(map[commitHandle]commit),
		trunkBySeq:  make(map[uint64]commitHandle),
		peers:       make(map[string]*peerBranch),
		revertibles: make(map[ids.RevisionTag]commitHandle),
	}
}

// Subscribe registers an observer for future delta notifications.
func (m *Manager) Subscribe(obs DeltaObserver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, obs)
}

func (m *Manager) alloc(c commit) commitHandle {
	m.nextHandle++
	h := m.nextHandle
	m.commits[h] = c
	return h
}

func (m *Manager) changesetOf(h commitHandle) field.Changeset {
	return m.commits[h].Changeset
}

// Apply appends change to the local branch as a new unsequenced commit and
// returns the revision tag it was authored under (spec §4.I "apply").
func (m *Manager) Apply(change field.Changeset) ids.RevisionTag {
	start := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	rev := ids.NewRevisionTag()
	c := commit{Revision: rev, Changeset: field.Tag(change, rev).Changeset}
	h := m.alloc(c)
	m.localBranch = append(m.localBranch, h)

	seqmetrics.ApplyLatency.UpdateSince(start)
	seqmetrics.LocalBranchLength.Update(int64(len(m.localBranch)))
	return rev
}

// persistCommit mirrors a newly-landed trunk commit to the KV store keyed
// the same way core/rawdb/accessors_ubt_outbox.go keys outbox events. A
// failure here degrades the manager but never blocks the caller — the
// commit is already durable in memory, and the KV store is only consulted
// again by a future process restart (spec SPEC_FULL §6).
func (m *Manager) persistCommit(c commit) {
	if m.kv == nil {
		return
	}
	start := time.Now()
	data, err := encodeCommitForStorage(c)
	if err != nil {
		m.handlePersistFailure("encode commit", c.Seq, err)
		return
	}
	if err := m.kv.Put(trunkKey(c.Seq), data); err != nil {
		m.handlePersistFailure("write commit", c.Seq, err)
		return
	}
	seqmetrics.StorageWriteLatency.UpdateSince(start)
	if m.degraded.Load() {
		m.degraded.Store(false)
		seqmetrics.StorageBackendDegraded.Update(0)
		log.Info("editmanager: storage backend recovered", "seq", c.Seq)
	}
}

func (m *Manager) handlePersistFailure(op string, seq uint64, err error) {
	m.degraded.Store(true)
	seqmetrics.StorageBackendDegraded.Update(1)
	seqmetrics.UsageErrorsTotal.Inc(1)
	log.Error("editmanager: storage backend failure", "op", op, "seq", seq, "err", err)
}

// trunkCommitsAfter returns the trunk commits sequenced strictly after ref,
// in ascending order.
func (m *Manager) trunkCommitsAfter(ref uint64) []commitHandle {
	var out []commitHandle
	for _, h := range m.trunkOrder {
		if m.commits[h].Seq > ref {
			out = append(out, h)
		}
	}
	return out
}

// AddSequencedChanges lands a batch of commits authored by sessionId at
// reference point ref onto the trunk starting at sequence number seq, then
// sandwich-rebases the local branch over the result (spec §4.I).
func (m *Manager) AddSequencedChanges(batch []field.Changeset, sessionId string, seq, ref uint64) error {
	start := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	if ref > 0 {
		if ref < m.minimumSequenceNumber {
			return fmt.Errorf("%w: ref=%d already evicted below msn=%d", ErrUnknownReference, ref, m.minimumSequenceNumber)
		}
		tip := uint64(0)
		if n := len(m.trunkOrder); n > 0 {
			tip = m.commits[m.trunkOrder[n-1]].Seq
		}
		if _, ok := m.trunkBySeq[ref]; !ok && ref != tip {
			return fmt.Errorf("%w: ref=%d", ErrUnknownReference, ref)
		}
	}

	catchUp := m.trunkCommitsAfter(ref)

	isOwnSession := sessionId == m.sessionId
	var lastSeq uint64
	var landed field.Changeset // the combined effect of this whole batch, for the sandwich rebase below
	for i, cs := range batch {
		rebased := cs
		for _, ch := range catchUp {
			rebased = field.Rebase(rebased, m.changesetOf(ch), m.rebaser)
		}
		rev := ids.NewRevisionTag()
		if isOwnSession && len(m.localBranch) > 0 {
			// Acknowledge: this batch is our own local commits coming
			// back sequenced. Reuse the original commit's revision and
			// drop it from the front of the local branch.
			original := m.commits[m.localBranch[0]]
			rev = original.Revision
			m.localBranch = m.localBranch[1:]
		}
		newCommit := commit{Revision: rev, Changeset: rebased, Seq: seq + uint64(i), RefSeq: ref, SessionId: sessionId}
		h := m.alloc(newCommit)
		m.trunkOrder = append(m.trunkOrder, h)
		m.trunkBySeq[seq+uint64(i)] = h
		lastSeq = seq + uint64(i)
		catchUp = append(catchUp, h)
		m.persistCommit(newCommit)
		if landed.Marks == nil {
			landed = rebased
		} else {
			landed = field.Compose(landed, rebased, m.rebaser)
		}
	}

	if !isOwnSession {
		m.sandwichRebaseLocalBranch(landed)
	}
	m.advancePeerBranch(sessionId, lastSeq)

	seqmetrics.TrunkLength.Update(int64(len(m.trunkOrder)))
	seqmetrics.LocalBranchLength.Update(int64(len(m.localBranch)))
	seqmetrics.AddSequencedLatency.UpdateSince(start)

	if len(batch) > 0 {
		delta := field.ToDelta(landed)
		for _, obs := range m.observers {
			obs(delta)
		}
	}
	return nil
}

// sandwichRebaseLocalBranch inverts the whole local branch, replays it on
// top of newTrunkEffect (the composed effect of everything that just landed
// on the trunk, which may be several commits from one AddSequencedChanges
// call), then re-rebases each local commit forward in order (spec §4.I
// "invert all local commits, append the new trunk commits, re-rebase each
// local commit onto the new tip").
func (m *Manager) sandwichRebaseLocalBranch(newTrunkEffect field.Changeset) {
	if len(m.localBranch) == 0 {
		return
	}
	start := time.Now()
	defer seqmetrics.SandwichRebaseLatency.UpdateSince(start)

	undo := field.Changeset{}
	for i := len(m.localBranch) - 1; i >= 0; i-- {
		inv := field.Invert(m.changesetOf(m.localBranch[i]), m.rebaser)
		if undo.Marks == nil {
			undo = inv
		} else {
			undo = field.Compose(undo, inv, m.rebaser)
		}
	}

	sandwich := field.Compose(undo, newTrunkEffect, m.rebaser)

	base := sandwich
	for i, h := range m.localBranch {
		c := m.commits[h]
		c.Changeset = field.Rebase(c.Changeset, base, m.rebaser)
		m.commits[h] = c
		base = field.Compose(base, field.Invert(c.Changeset, m.rebaser), m.rebaser)
		m.localBranch[i] = h
	}
}

// advancePeerBranch records that sessionId has now been observed up to
// lastSeq, creating the peer branch record on first contact.
func (m *Manager) advancePeerBranch(sessionId string, lastSeq uint64) {
	if sessionId == m.sessionId {
		return
	}
	p, ok := m.peers[sessionId]
	if !ok {
		p = &peerBranch{sessionId: sessionId}
		m.peers[sessionId] = p
	}
	p.refSeq = lastSeq
}

// AdvanceMinimumSequenceNumber evicts trunk commits with seq <= msn that no
// branch or revertible still references, first catching up every peer
// branch to msn so it never ends up holding a reference to an evicted
// commit (spec §4.I, tested as property 8.8).
func (m *Manager) AdvanceMinimumSequenceNumber(msn uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.peers {
		if p.refSeq < msn {
			p.refSeq = msn
		}
	}

	pinned := make(map[uint64]bool)
	for _, h := range m.revertibles {
		c := m.commits[h]
		if c.Seq > 0 {
			pinned[c.Seq] = true
		}
	}

	kept := m.trunkOrder[:0:0]
	for _, h := range m.trunkOrder {
		c := m.commits[h]
		if c.Seq <= msn && !pinned[c.Seq] {
			delete(m.trunkBySeq, c.Seq)
			delete(m.commits, h)
			if m.kv != nil {
				if err := m.kv.Delete(trunkKey(c.Seq)); err != nil {
					log.Warn("editmanager: failed to delete evicted trunk commit", "seq", c.Seq, "err", err)
				}
			}
			seqmetrics.EvictedTotal.Inc(1)
			continue
		}
		if c.Seq <= msn && pinned[c.Seq] {
			seqmetrics.EvictionRejectedTotal.Inc(1)
		}
		kept = append(kept, h)
	}
	m.trunkOrder = kept
	m.minimumSequenceNumber = msn
	seqmetrics.TrunkLength.Update(int64(len(m.trunkOrder)))
	return nil
}

// GetLongestBranchLength returns the maximum number of commits between any
// branch head and the most recent commit every branch has advanced past
// (spec §4.I).
func (m *Manager) GetLongestBranchLength() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	max := len(m.localBranch)
	for _, p := range m.peers {
		if len(p.commits) > max {
			max = len(p.commits)
		}
	}
	return max
}

// GetTrunkChanges returns the trunk's commits in sequence order.
func (m *Manager) GetTrunkChanges() []Commit {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Commit, len(m.trunkOrder))
	for i, h := range m.trunkOrder {
		c := m.commits[h]
		out[i] = Commit{Revision: c.Revision, Changeset: c.Changeset, Seq: c.Seq, SessionId: c.SessionId}
	}
	return out
}

// GetLocalChanges returns the local branch's commits in authorship order.
func (m *Manager) GetLocalChanges() []Commit {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Commit, len(m.localBranch))
	for i, h := range m.localBranch {
		c := m.commits[h]
		out[i] = Commit{Revision: c.Revision, Changeset: c.Changeset}
	}
	return out
}

// LoadFromStorage rebuilds the trunk from the KV store, discarding any
// existing in-memory trunk/peer/local state, for recovery after a process
// restart (spec SPEC_FULL §6 "replaying the KV store"). A nil-backed
// manager has nothing to replay and returns immediately.
func (m *Manager) LoadFromStorage() error {
	if m.kv == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.commits = make(map[commitHandle]commit)
	m.nextHandle = 0
	m.trunkOrder = nil
	m.trunkBySeq = make(map[uint64]commitHandle)
	m.localBranch = nil
	m.peers = make(map[string]*peerBranch)
	m.revertibles = make(map[ids.RevisionTag]commitHandle)

	it := m.kv.NewIterator([]byte("trunk/"))
	defer it.Release()
	for it.Next() {
		c, err := decodeCommitFromStorage(it.Value())
		if err != nil {
			return fmt.Errorf("editmanager: reload trunk commit: %w", err)
		}
		h := m.alloc(c)
		m.trunkOrder = append(m.trunkOrder, h)
		m.trunkBySeq[c.Seq] = h
	}
	if err := it.Error(); err != nil {
		return fmt.Errorf("editmanager: reload trunk: %w", err)
	}
	seqmetrics.TrunkLength.Update(int64(len(m.trunkOrder)))
	return nil
}

func trunkKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("trunk/%020d", seq))
}
