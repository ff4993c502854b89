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
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/driftfield/seqedit/field"
	"github.com/driftfield/seqedit/ids"
)

// rlpCommit is the RLP-encodable representation of a trunk commit, mirroring
// core/ubtemit/encoder.go's rlpOutboxEnvelope: fixed scalar fields plus an
// opaque Payload blob. This is an internal storage detail only — the
// documented wire form lives in the codec package and is never this shape.
// The changeset payload round-trips through plain JSON rather than a typed
// RLP schema because a mark's nested Changes is an opaque value the storage
// layer never interprets; a mark's Changes therefore comes back from a
// reload as a generic map rather than its original concrete type, which is
// fine for eviction bookkeeping but means a reloaded-from-KV commit should
// not be fed back into a live ChildRebaser without re-typing it first.
type rlpCommit struct {
	Revision  []byte
	Seq       uint64
	RefSeq    uint64
	SessionId string
	Payload   []byte
}

func encodeCommitForStorage(c commit) ([]byte, error) {
	revBytes, err := json.Marshal(c.Revision)
	if err != nil {
		return nil, fmt.Errorf("editmanager: marshal revision: %w", err)
	}
	payload, err := json.Marshal(c.Changeset)
	if err != nil {
		return nil, fmt.Errorf("editmanager: marshal changeset: %w", err)
	}
	rc := rlpCommit{Revision: revBytes, Seq: c.Seq, RefSeq: c.RefSeq, SessionId: c.SessionId, Payload: payload}
	return rlp.EncodeToBytes(&rc)
}

func decodeCommitFromStorage(data []byte) (commit, error) {
	var rc rlpCommit
	if err := rlp.DecodeBytes(data, &rc); err != nil {
		return commit{}, fmt.Errorf("editmanager: rlp decode commit: %w", err)
	}
	var rev ids.RevisionTag
	if err := json.Unmarshal(rc.Revision, &rev); err != nil {
		return commit{}, fmt.Errorf("editmanager: unmarshal revision: %w", err)
	}
	var cs field.Changeset
	if err := json.Unmarshal(rc.Payload, &cs); err != nil {
		return commit{}, fmt.Errorf("editmanager: unmarshal changeset: %w", err)
	}
	return commit{Revision: rev, Changeset: cs, Seq: rc.Seq, RefSeq: rc.RefSeq, SessionId: rc.SessionId}, nil
}
