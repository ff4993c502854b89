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
	"testing"

	"github.com/driftfield/seqedit/editmanager"
	"github.com/driftfield/seqedit/field"
	"github.com/driftfield/seqedit/ids"
	"github.com/driftfield/seqedit/marks"
)

func TestChangesetRoundTrip(t *testing.T) {
	cell := ids.NewCellId(ids.NewRevisionTag(), 3)
	cs := field.Changeset{Marks: []marks.Mark{
		marks.NewSkip(2),
		marks.NewInsert(1, cell),
		marks.NewRemove(1, cell),
	}}

	data, err := EncodeChangeset(cs, nil)
	if err != nil {
		t.Fatalf("EncodeChangeset: %v", err)
	}
	back, err := DecodeChangeset(data, nil)
	if err != nil {
		t.Fatalf("DecodeChangeset: %v", err)
	}
	if len(back.Marks) != 3 {
		t.Fatalf("expected 3 marks back, got %d", len(back.Marks))
	}
	if back.Marks[0].Kind != marks.Skip || back.Marks[0].Count != 2 {
		t.Fatalf("mark 0 mismatch: %+v", back.Marks[0])
	}
	if back.Marks[1].Kind != marks.Insert || back.Marks[1].CellId == nil {
		t.Fatalf("mark 1 mismatch: %+v", back.Marks[1])
	}
}

func TestChangesetDecodesBareIntegerAsSkip(t *testing.T) {
	back, err := DecodeChangeset(json.RawMessage(`[3, {"type":"tomb","count":1,"cellId":{"local":0}}]`), nil)
	if err != nil {
		t.Fatalf("DecodeChangeset: %v", err)
	}
	if len(back.Marks) != 2 {
		t.Fatalf("expected 2 marks, got %d", len(back.Marks))
	}
	if back.Marks[0].Kind != marks.Skip || back.Marks[0].Count != 3 {
		t.Fatalf("bare integer did not decode as Skip(3): %+v", back.Marks[0])
	}
}

func TestChangesetCoalescesAdjacentSkips(t *testing.T) {
	back, err := DecodeChangeset(json.RawMessage(`[2, 3]`), nil)
	if err != nil {
		t.Fatalf("DecodeChangeset: %v", err)
	}
	if len(back.Marks) != 1 || back.Marks[0].Count != 5 {
		t.Fatalf("expected a single coalesced Skip(5), got %+v", back.Marks)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	rev := ids.NewRevisionTag()
	msg := Message{
		SessionId: "alice",
		Revision:  rev,
		Change:    field.Changeset{Marks: []marks.Mark{marks.NewSkip(1)}},
	}
	data, err := EncodeMessage(msg, nil)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	back, err := DecodeMessage(data, nil)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if back.SessionId != "alice" || !back.Revision.Equal(rev) {
		t.Fatalf("message round-trip mismatch: %+v", back)
	}
}

func TestMessageDecodesUnversionedAsVersion1(t *testing.T) {
	raw := `{"sessionId":"bob","commit":{"revision":null,"change":[1]}}`
	back, err := DecodeMessage([]byte(raw), nil)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if back.SessionId != "bob" {
		t.Fatalf("expected sessionId bob, got %q", back.SessionId)
	}
	if !back.Revision.IsUndefined() {
		t.Fatalf("expected an undefined revision to decode from null")
	}
}

func TestMessageRejectsUnknownVersion(t *testing.T) {
	raw := `{"version":99,"sessionId":"bob","commit":{"revision":null,"change":[1]}}`
	if _, err := DecodeMessage([]byte(raw), nil); err == nil {
		t.Fatalf("expected an unsupported-version error")
	}
}

func TestMessageRejectsMissingSessionId(t *testing.T) {
	raw := `{"commit":{"revision":null,"change":[1]}}`
	if _, err := DecodeMessage([]byte(raw), nil); err == nil {
		t.Fatalf("expected an error for a missing sessionId")
	}
}

func TestMessageDropsExtraCommitFields(t *testing.T) {
	msg := Message{SessionId: "carol", Change: field.Changeset{Marks: []marks.Mark{marks.NewSkip(1)}}}
	data, err := EncodeMessage(msg, nil)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	commit, _ := raw["commit"].(map[string]any)
	if _, ok := commit["parent"]; ok {
		t.Fatalf("expected no parent field on an encoded commit")
	}
	if _, ok := commit["inverse"]; ok {
		t.Fatalf("expected no inverse field on an encoded commit")
	}
}

func TestSummaryRoundTripThroughCodec(t *testing.T) {
	data := editmanager.SummaryData{
		Trunk: []editmanager.Commit{
			{Revision: ids.NewRevisionTag(), Changeset: field.Changeset{Marks: []marks.Mark{marks.NewSkip(1)}}, Seq: 1, SessionId: "other"},
		},
		Branches: []editmanager.PeerBranchSummary{
			{SessionId: "other", RefSeq: 1, Commits: nil},
		},
	}
	summary, meta, err := EncodeSummary(data, nil)
	if err != nil {
		t.Fatalf("EncodeSummary: %v", err)
	}
	back, err := DecodeSummary(summary, meta, nil)
	if err != nil {
		t.Fatalf("DecodeSummary: %v", err)
	}
	if len(back.Trunk) != 1 || back.Trunk[0].Seq != 1 {
		t.Fatalf("trunk mismatch: %+v", back.Trunk)
	}
	if len(back.Branches) != 1 || back.Branches[0].SessionId != "other" {
		t.Fatalf("branches mismatch: %+v", back.Branches)
	}
}

func TestSummaryAcceptsLegacyNoMetadata(t *testing.T) {
	summary := `{"trunk":[],"branches":[]}`
	if _, err := DecodeSummary([]byte(summary), nil, nil); err != nil {
		t.Fatalf("expected legacy no-metadata summary to decode as version 1: %v", err)
	}
}

func TestSummaryRejectsFutureVersion(t *testing.T) {
	summary := `{"trunk":[],"branches":[]}`
	meta := `{"version":3}`
	if _, err := DecodeSummary([]byte(summary), []byte(meta), nil); err == nil {
		t.Fatalf("expected an unsupported-version error for a future summary version")
	}
}
