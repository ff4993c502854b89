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

	"github.com/driftfield/seqedit/field"
	"github.com/driftfield/seqedit/ids"
)

// Revertible is a handle to a commit whose inverse can be applied on
// demand; holding one pins that commit in the trunk against eviction until
// Dispose is called (spec §4.I, GLOSSARY "Revertible").
type Revertible struct {
	revision ids.RevisionTag
	manager  *Manager
}

// MakeRevertible pins the commit carrying revision so it survives eviction
// until the returned Revertible is disposed.
func (m *Manager) MakeRevertible(revision ids.RevisionTag) (Revertible, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.findHandle(revision)
	if !ok {
		return Revertible{}, fmt.Errorf("editmanager: no commit found for revision %s", revision)
	}
	m.revertibles[revision] = h
	return Revertible{revision: revision, manager: m}, nil
}

func (m *Manager) findHandle(revision ids.RevisionTag) (commitHandle, bool) {
	found := invalidHandle
	for h, c := range m.commits {
		if !c.Revision.Equal(revision) {
			continue
		}
		// An acknowledged local commit leaves its unsequenced copy behind
		// under the same revision; the sequenced trunk copy is the one to pin.
		if c.Seq > 0 {
			return h, true
		}
		found = h
	}
	return found, found != invalidHandle
}

// Revert returns the changeset that undoes this revertible's commit,
// composed forward against every commit the trunk has accepted since.
func (r Revertible) Revert() (field.Changeset, error) {
	r.manager.mu.Lock()
	defer r.manager.mu.Unlock()

	h, ok := r.manager.revertibles[r.revision]
	if !ok {
		return field.Changeset{}, fmt.Errorf("editmanager: revertible for %s already disposed", r.revision)
	}
	c := r.manager.commits[h]
	inv := field.Invert(c.Changeset, r.manager.rebaser)
	for _, th := range r.manager.trunkCommitsAfter(c.Seq) {
		inv = field.Rebase(inv, r.manager.changesetOf(th), r.manager.rebaser)
	}
	return inv, nil
}

// Dispose releases the pin; the commit becomes evictable again once its
// sequence number falls at or below the minimum sequence number.
func (r Revertible) Dispose() {
	r.manager.mu.Lock()
	defer r.manager.mu.Unlock()
	delete(r.manager.revertibles, r.revision)
}
