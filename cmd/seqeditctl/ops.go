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

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/driftfield/seqedit/childchange"
	"github.com/driftfield/seqedit/codec"
	"github.com/driftfield/seqedit/editmanager"
	"github.com/driftfield/seqedit/field"
	"github.com/driftfield/seqedit/marks"
)

// op is one entry of the operations script. Exactly one field should be
// set; unset fields are zero values and skipped.
type op struct {
	Apply      *applyOp   `json:"apply,omitempty"`
	Sequence   *sequenceOp `json:"sequence,omitempty"`
	AdvanceMsn *uint64    `json:"advanceMsn,omitempty"`
}

type applyOp struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type sequenceOp struct {
	SessionId string            `json:"sessionId"`
	Seq       uint64            `json:"seq"`
	Ref       uint64            `json:"ref"`
	Changes   []json.RawMessage `json:"changes"`
}

func runOps(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	kv, err := cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer kv.Close()

	m := editmanager.New(cfg.SessionId, childchange.Rebaser{}, kv)
	if err := m.LoadFromStorage(); err != nil {
		return fmt.Errorf("load trunk from storage: %w", err)
	}

	if path := ctx.String("summary"); path != "" {
		summaryData, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read summary: %w", err)
		}
		var meta []byte
		if metaPath := ctx.String("summary-meta"); metaPath != "" {
			meta, err = os.ReadFile(metaPath)
			if err != nil {
				return fmt.Errorf("read summary metadata: %w", err)
			}
		}
		data, err := codec.DecodeSummary(summaryData, meta, nil)
		if err != nil {
			return fmt.Errorf("decode summary: %w", err)
		}
		m.LoadSummaryData(data)
	}

	scriptData, err := os.ReadFile(ctx.String("ops"))
	if err != nil {
		return fmt.Errorf("read ops script: %w", err)
	}
	var ops []op
	if err := json.Unmarshal(scriptData, &ops); err != nil {
		return fmt.Errorf("parse ops script: %w", err)
	}

	for i, o := range ops {
		if err := applyOne(m, o); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
	}

	if path := ctx.String("summary-out"); path != "" {
		summary, meta, err := codec.EncodeSummary(m.GetSummaryData(), nil)
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		if err := os.WriteFile(path, summary, 0o644); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		if metaPath := ctx.String("summary-meta-out"); metaPath != "" {
			if err := os.WriteFile(metaPath, meta, 0o644); err != nil {
				return fmt.Errorf("write summary metadata: %w", err)
			}
		}
	}
	return nil
}

func applyOne(m *editmanager.Manager, o op) error {
	switch {
	case o.Apply != nil:
		change := field.Changeset{Marks: []marks.Mark{marks.NewModify(childchange.Set(o.Apply.Field, o.Apply.Value))}}
		rev := m.Apply(change)
		log.Info("seqeditctl: applied local edit", "field", o.Apply.Field, "revision", rev)
		return nil

	case o.Sequence != nil:
		batch := make([]field.Changeset, 0, len(o.Sequence.Changes))
		for _, raw := range o.Sequence.Changes {
			cs, err := codec.DecodeChangeset(raw, nil)
			if err != nil {
				return fmt.Errorf("decode changeset: %w", err)
			}
			batch = append(batch, cs)
		}
		if err := m.AddSequencedChanges(batch, o.Sequence.SessionId, o.Sequence.Seq, o.Sequence.Ref); err != nil {
			return err
		}
		log.Info("seqeditctl: landed sequenced batch", "sessionId", o.Sequence.SessionId, "seq", o.Sequence.Seq, "count", len(batch))
		return nil

	case o.AdvanceMsn != nil:
		if err := m.AdvanceMinimumSequenceNumber(*o.AdvanceMsn); err != nil {
			return err
		}
		log.Info("seqeditctl: advanced minimum sequence number", "msn", *o.AdvanceMsn)
		return nil

	default:
		return fmt.Errorf("empty operation")
	}
}
