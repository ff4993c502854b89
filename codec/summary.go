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

	"github.com/driftfield/seqedit/editmanager"
	"github.com/driftfield/seqedit/ids"
)

// CurrentSummaryVersion is the version this codec writes into the sibling
// metadata blob on encode (spec §6 "Summary form").
const CurrentSummaryVersion = 2

// summaryMeta is the sibling metadata blob. A legacy summary with no such
// blob at all decodes as version 1 (spec §6).
type summaryMeta struct {
	Version int `json:"version"`
}

// wireEncodedCommit is one trunk entry: {revision, change, seq, sessionId}.
type wireEncodedCommit struct {
	Revision  ids.RevisionTag `json:"revision"`
	Change    json.RawMessage `json:"change"`
	Seq       uint64          `json:"seq"`
	SessionId string          `json:"sessionId,omitempty"`
}

type wireBranchBody struct {
	RefSeq  uint64              `json:"refSeq"`
	Commits []wireEncodedCommit `json:"commits"`
}

// wireBranchEntry is the [sessionId, {refSeq, commits}] pair of spec §6.
type wireBranchEntry struct {
	SessionId string
	Body      wireBranchBody
}

func (e wireBranchEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.SessionId, e.Body})
}

func (e *wireBranchEntry) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &e.SessionId); err != nil {
		return fmt.Errorf("codec: branch entry sessionId: %w", err)
	}
	if err := json.Unmarshal(pair[1], &e.Body); err != nil {
		return fmt.Errorf("codec: branch entry body: %w", err)
	}
	return nil
}

type wireSummary struct {
	Trunk    []wireEncodedCommit `json:"trunk"`
	Branches []wireBranchEntry   `json:"branches"`
}

func encodeCommit(c editmanager.Commit, cc ChangesCodec) (wireEncodedCommit, error) {
	change, err := EncodeChangeset(c.Changeset, cc)
	if err != nil {
		return wireEncodedCommit{}, err
	}
	return wireEncodedCommit{Revision: c.Revision, Change: change, Seq: c.Seq, SessionId: c.SessionId}, nil
}

func decodeCommit(w wireEncodedCommit, cc ChangesCodec) (editmanager.Commit, error) {
	change, err := DecodeChangeset(w.Change, cc)
	if err != nil {
		return editmanager.Commit{}, err
	}
	return editmanager.Commit{Revision: w.Revision, Changeset: change, Seq: w.Seq, SessionId: w.SessionId}, nil
}

// EncodeSummary renders data as the summary wire form plus its sibling
// {version: CurrentSummaryVersion} metadata blob.
func EncodeSummary(data editmanager.SummaryData, cc ChangesCodec) (summary, meta []byte, err error) {
	w := wireSummary{Trunk: make([]wireEncodedCommit, 0, len(data.Trunk))}
	for _, c := range data.Trunk {
		wc, err := encodeCommit(c, cc)
		if err != nil {
			return nil, nil, err
		}
		w.Trunk = append(w.Trunk, wc)
	}
	for _, b := range data.Branches {
		body := wireBranchBody{RefSeq: b.RefSeq}
		for _, c := range b.Commits {
			wc, err := encodeCommit(c, cc)
			if err != nil {
				return nil, nil, err
			}
			body.Commits = append(body.Commits, wc)
		}
		w.Branches = append(w.Branches, wireBranchEntry{SessionId: b.SessionId, Body: body})
	}
	summary, err = json.Marshal(w)
	if err != nil {
		return nil, nil, fmt.Errorf("codec: encode summary: %w", err)
	}
	meta, err = json.Marshal(summaryMeta{Version: CurrentSummaryVersion})
	if err != nil {
		return nil, nil, fmt.Errorf("codec: encode summary metadata: %w", err)
	}
	return summary, meta, nil
}

// DecodeSummary parses the summary wire form. A nil or empty meta is the
// legacy version-1 shape; any meta present must name a version this codec
// understands, or decoding fails with a descriptive usage error (spec §6,
// §7 "Unsupported version").
func DecodeSummary(summary, meta []byte, cc ChangesCodec) (editmanager.SummaryData, error) {
	version := 1
	if len(meta) > 0 {
		var m summaryMeta
		if err := json.Unmarshal(meta, &m); err != nil {
			return editmanager.SummaryData{}, fmt.Errorf("codec: decode summary metadata: %w", err)
		}
		version = m.Version
	}
	if version != 1 && version != CurrentSummaryVersion {
		return editmanager.SummaryData{}, fmt.Errorf("codec: unsupported summary version %d", version)
	}

	var w wireSummary
	if err := json.Unmarshal(summary, &w); err != nil {
		return editmanager.SummaryData{}, fmt.Errorf("codec: decode summary: %w", err)
	}

	data := editmanager.SummaryData{Trunk: make([]editmanager.Commit, 0, len(w.Trunk))}
	for _, wc := range w.Trunk {
		c, err := decodeCommit(wc, cc)
		if err != nil {
			return editmanager.SummaryData{}, err
		}
		data.Trunk = append(data.Trunk, c)
	}
	for _, wb := range w.Branches {
		pb := editmanager.PeerBranchSummary{SessionId: wb.SessionId, RefSeq: wb.Body.RefSeq}
		for _, wc := range wb.Body.Commits {
			c, err := decodeCommit(wc, cc)
			if err != nil {
				return editmanager.SummaryData{}, err
			}
			pb.Commits = append(pb.Commits, c)
		}
		data.Branches = append(data.Branches, pb)
	}
	return data, nil
}
