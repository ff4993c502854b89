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

package codec

import (
	"encoding/json"
	"fmt"

	"github.com/driftfield/seqedit/field"
	"github.com/driftfield/seqedit/ids"
)

// CurrentMessageVersion is the only commit-message version this codec
// produces on encode (spec §6 "Message wire form").
const CurrentMessageVersion = 1

// Message is the decoded form of one commit message (spec §4.J).
type Message struct {
	SessionId string
	BranchId  string // empty means the default branch.
	Revision  ids.RevisionTag
	Change    field.Changeset
}

// wireCommit is the {revision, change} object nested inside a message. Any
// extra fields present on decode (e.g. a legacy "parent"/"inverse") are
// simply absent from this struct and therefore dropped silently; they are
// never written back out on encode (spec §4.J, §6 "MUST be dropped").
type wireCommit struct {
	Revision ids.RevisionTag `json:"revision"`
	Change   json.RawMessage `json:"change"`
}

type wireMessage struct {
	Version   *int       `json:"version,omitempty"`
	Type      string     `json:"type,omitempty"`
	SessionId *string    `json:"sessionId"`
	Commit    *wireCommit `json:"commit"`
	BranchId  string     `json:"branchId,omitempty"`
}

// EncodeMessage renders msg as the current-version commit message wire
// form. Use cc to plug in a mark-level Changes codec; nil is fine for
// sequence-only changesets with no nested child changes.
func EncodeMessage(msg Message, cc ChangesCodec) ([]byte, error) {
	change, err := EncodeChangeset(msg.Change, cc)
	if err != nil {
		return nil, fmt.Errorf("codec: encode message: %w", err)
	}
	version := CurrentMessageVersion
	w := wireMessage{
		Version:   &version,
		Type:      "commit",
		SessionId: &msg.SessionId,
		Commit:    &wireCommit{Revision: msg.Revision, Change: change},
		BranchId:  msg.BranchId,
	}
	return json.Marshal(w)
}

// DecodeMessage parses a commit message. Absent version decodes as version
// 1; any other version fails with a descriptive usage error (spec §6, §7
// "Unsupported version").
func DecodeMessage(data []byte, cc ChangesCodec) (Message, error) {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return Message{}, fmt.Errorf("codec: decode message: %w", err)
	}
	version := 1
	if w.Version != nil {
		version = *w.Version
	}
	if version != CurrentMessageVersion {
		return Message{}, fmt.Errorf("codec: unsupported commit message version %d", version)
	}
	if w.SessionId == nil {
		return Message{}, fmt.Errorf("codec: commit message missing sessionId")
	}
	if w.Commit == nil {
		return Message{}, fmt.Errorf("codec: commit message missing commit")
	}
	change, err := DecodeChangeset(w.Commit.Change, cc)
	if err != nil {
		return Message{}, fmt.Errorf("codec: decode message: %w", err)
	}
	return Message{
		SessionId: *w.SessionId,
		BranchId:  w.BranchId,
		Revision:  w.Commit.Revision,
		Change:    change,
	}, nil
}
