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

// Package codec implements the wire encodings of spec component J: the
// changeset/commit/message JSON form and the trunk+branches summary form,
// with version dispatch on decode. It never touches storage or the edit
// manager's state directly — it only converts between field.Changeset /
// editmanager.Commit values and their JSON wire shapes, the same separation
// the teacher keeps between OutboxEnvelope and its RLP encoder.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/driftfield/seqedit/field"
	"github.com/driftfield/seqedit/ids"
	"github.com/driftfield/seqedit/marks"
)

// wireLineage mirrors ids.LineageEntry (spec §9 "legacy lineage").
type wireLineage struct {
	Revision ids.RevisionTag `json:"revision"`
	Id       ids.LocalId     `json:"id"`
	Count    uint32          `json:"count"`
	Offset   uint32          `json:"offset"`
}

// wireCellId is the wire shape of ids.CellId. There is no separate
// HasRevision field: revision is written only when the cell carries an
// explicit revision and is absent otherwise, so the common case stays a flat
// {revision, local}.
type wireCellId struct {
	Revision    *ids.RevisionTag `json:"revision,omitempty"`
	Local       ids.LocalId      `json:"local"`
	Lineage     []wireLineage    `json:"lineage,omitempty"`
	Tiebreak    int              `json:"tiebreak,omitempty"`
}

func encodeCellId(c *ids.CellId) *wireCellId {
	if c == nil {
		return nil
	}
	w := &wireCellId{Local: c.Local, Tiebreak: int(c.Tiebreak)}
	if c.HasRevision {
		rev := c.Revision
		w.Revision = &rev
	}
	for _, l := range c.Lineage {
		w.Lineage = append(w.Lineage, wireLineage{Revision: l.Revision, Id: l.Id, Count: l.Count, Offset: l.Offset})
	}
	return w
}

func decodeCellId(w *wireCellId) *ids.CellId {
	if w == nil {
		return nil
	}
	c := &ids.CellId{Local: w.Local, Tiebreak: ids.Tiebreak(w.Tiebreak)}
	if w.Revision != nil {
		c.Revision = *w.Revision
		c.HasRevision = true
	}
	for _, l := range w.Lineage {
		c.Lineage = append(c.Lineage, ids.LineageEntry{Revision: l.Revision, Id: l.Id, Count: l.Count, Offset: l.Offset})
	}
	return c
}

// wireEndpoint mirrors marks.Endpoint.
type wireEndpoint struct {
	Revision ids.RevisionTag `json:"revision"`
	Local    ids.LocalId     `json:"local"`
}

func encodeEndpoint(e *marks.Endpoint) *wireEndpoint {
	if e == nil {
		return nil
	}
	return &wireEndpoint{Revision: e.Revision, Local: e.Local}
}

func decodeEndpoint(w *wireEndpoint) *marks.Endpoint {
	if w == nil {
		return nil
	}
	return &marks.Endpoint{Revision: w.Revision, Local: w.Local}
}

// wireMark is the flat {type, count, ...variant fields} object of spec §6.
// Changes is carried as raw JSON: it is the opaque child-change payload the
// codec package never interprets (spec §4 "child-rebaser boundary") — the
// caller is responsible for decoding it with whatever childchange codec
// matches its own ChildRebaser.
type wireMark struct {
	Type Kind `json:"type"`

	Count uint32 `json:"count"`

	CellId  *wireCellId     `json:"cellId,omitempty"`
	Changes json.RawMessage `json:"changes,omitempty"`

	Revision *ids.RevisionTag `json:"revision,omitempty"`

	FinalEndpoint    *wireEndpoint `json:"finalEndpoint,omitempty"`
	IdOverride       *wireCellId   `json:"idOverride,omitempty"`
	ReturnSourceCell *wireCellId   `json:"returnSourceCell,omitempty"`

	OldCellId *wireCellId `json:"oldCellId,omitempty"`
	NewCellId *wireCellId `json:"newCellId,omitempty"`

	InnerAttach *wireMark `json:"innerAttach,omitempty"`
	InnerDetach *wireMark `json:"innerDetach,omitempty"`

	// Unrecognized extra fields (e.g. a legacy "parent") are accepted on
	// decode and simply discarded: they are never round-tripped back out.
}

// Kind is the wire spelling of marks.Kind (spec §6 "{type, ...}").
type Kind string

const (
	kindSkip            Kind = "skip"
	kindTomb            Kind = "tomb"
	kindModify          Kind = "modify"
	kindInsert          Kind = "insert"
	kindRemove          Kind = "remove"
	kindRevive          Kind = "revive"
	kindPin             Kind = "pin"
	kindMoveOut         Kind = "moveOut"
	kindMoveIn          Kind = "moveIn"
	kindReturnTo        Kind = "returnTo"
	kindRename          Kind = "rename"
	kindAttachAndDetach Kind = "attachAndDetach"
)

var kindToWire = map[marks.Kind]Kind{
	marks.Skip:            kindSkip,
	marks.Tomb:            kindTomb,
	marks.Modify:          kindModify,
	marks.Insert:          kindInsert,
	marks.Remove:          kindRemove,
	marks.Revive:          kindRevive,
	marks.Pin:             kindPin,
	marks.MoveOut:         kindMoveOut,
	marks.MoveIn:          kindMoveIn,
	marks.ReturnTo:        kindReturnTo,
	marks.Rename:          kindRename,
	marks.AttachAndDetach: kindAttachAndDetach,
}

var wireToKind = func() map[Kind]marks.Kind {
	out := make(map[Kind]marks.Kind, len(kindToWire))
	for k, w := range kindToWire {
		out[w] = k
	}
	return out
}()

// ChangesCodec lets a caller plug in how a mark's opaque Changes field is
// turned into wire bytes and back, since the codec package never interprets
// child changes itself. A nil codec treats Changes as already-JSON-shaped.
type ChangesCodec interface {
	EncodeChanges(any) (json.RawMessage, error)
	DecodeChanges(json.RawMessage) (any, error)
}

func encodeMark(m marks.Mark, cc ChangesCodec) (wireMark, error) {
	wireKind, ok := kindToWire[m.Kind]
	if !ok {
		return wireMark{}, fmt.Errorf("codec: unknown mark kind %v", m.Kind)
	}
	w := wireMark{
		Type:             wireKind,
		Count:            m.Count,
		CellId:           encodeCellId(m.CellId),
		FinalEndpoint:    encodeEndpoint(m.FinalEndpoint),
		IdOverride:       encodeCellId(m.IdOverride),
		ReturnSourceCell: encodeCellId(m.ReturnSourceCell),
		OldCellId:        encodeCellId(m.OldCellId),
		NewCellId:        encodeCellId(m.NewCellId),
	}
	if m.HasRevision {
		rev := m.Revision
		w.Revision = &rev
	}
	if m.Changes != nil {
		var raw json.RawMessage
		var err error
		if cc != nil {
			raw, err = cc.EncodeChanges(m.Changes)
		} else {
			raw, err = json.Marshal(m.Changes)
		}
		if err != nil {
			return wireMark{}, fmt.Errorf("codec: encode changes: %w", err)
		}
		w.Changes = raw
	}
	if m.InnerAttach != nil {
		inner, err := encodeMark(*m.InnerAttach, cc)
		if err != nil {
			return wireMark{}, err
		}
		w.InnerAttach = &inner
	}
	if m.InnerDetach != nil {
		inner, err := encodeMark(*m.InnerDetach, cc)
		if err != nil {
			return wireMark{}, err
		}
		w.InnerDetach = &inner
	}
	return w, nil
}

func decodeMark(w wireMark, cc ChangesCodec) (marks.Mark, error) {
	kind, ok := wireToKind[w.Type]
	if !ok {
		return marks.Mark{}, fmt.Errorf("codec: unknown mark type %q", w.Type)
	}
	m := marks.Mark{
		Kind:             kind,
		Count:            w.Count,
		CellId:           decodeCellId(w.CellId),
		FinalEndpoint:    decodeEndpoint(w.FinalEndpoint),
		IdOverride:       decodeCellId(w.IdOverride),
		ReturnSourceCell: decodeCellId(w.ReturnSourceCell),
		OldCellId:        decodeCellId(w.OldCellId),
		NewCellId:        decodeCellId(w.NewCellId),
	}
	if w.Revision != nil {
		m.Revision = *w.Revision
		m.HasRevision = true
	}
	if len(w.Changes) > 0 {
		var changes any
		var err error
		if cc != nil {
			changes, err = cc.DecodeChanges(w.Changes)
		} else {
			err = json.Unmarshal(w.Changes, &changes)
		}
		if err != nil {
			return marks.Mark{}, fmt.Errorf("codec: decode changes: %w", err)
		}
		m.Changes = changes
	}
	if w.InnerAttach != nil {
		inner, err := decodeMark(*w.InnerAttach, cc)
		if err != nil {
			return marks.Mark{}, err
		}
		m.InnerAttach = &inner
	}
	if w.InnerDetach != nil {
		inner, err := decodeMark(*w.InnerDetach, cc)
		if err != nil {
			return marks.Mark{}, err
		}
		m.InnerDetach = &inner
	}
	return m, nil
}

// wireMarkOrSkip accepts either a full {type,...} object or a bare positive
// integer shorthand for a Skip of that count (spec §6).
type wireMarkOrSkip struct {
	mark wireMark
}

func (w *wireMarkOrSkip) UnmarshalJSON(data []byte) error {
	var n uint32
	if err := json.Unmarshal(data, &n); err == nil {
		w.mark = wireMark{Type: kindSkip, Count: n}
		return nil
	}
	return json.Unmarshal(data, &w.mark)
}

// EncodeChangeset renders a changeset as the JSON array of spec §6, coalescing
// any adjacent bare-Skip shorthand is left to the caller's discretion — this
// encoder always emits full {type:"skip",count} objects, which every decoder
// in this package accepts interchangeably with the bare-integer shorthand.
func EncodeChangeset(c field.Changeset, cc ChangesCodec) (json.RawMessage, error) {
	out := make([]wireMark, 0, len(c.Marks))
	for _, m := range c.Marks {
		wm, err := encodeMark(m, cc)
		if err != nil {
			return nil, err
		}
		out = append(out, wm)
	}
	return json.Marshal(out)
}

// DecodeChangeset parses the JSON array form of a changeset, accepting bare
// integers as Skip shorthand and coalescing comma-adjacent Skips (spec §6).
func DecodeChangeset(data json.RawMessage, cc ChangesCodec) (field.Changeset, error) {
	if len(data) == 0 {
		return field.Changeset{}, nil
	}
	var raw []wireMarkOrSkip
	if err := json.Unmarshal(data, &raw); err != nil {
		return field.Changeset{}, fmt.Errorf("codec: decode changeset: %w", err)
	}
	var out []marks.Mark
	for _, r := range raw {
		m, err := decodeMark(r.mark, cc)
		if err != nil {
			return field.Changeset{}, err
		}
		if n := len(out); n > 0 && out[n-1].Kind == marks.Skip && m.Kind == marks.Skip && m.Changes == nil && out[n-1].Changes == nil {
			out[n-1].Count += m.Count
			continue
		}
		out = append(out, m)
	}
	return field.Changeset{Marks: out}, nil
}
