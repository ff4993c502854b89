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

// Package childchange is a concrete nested node-change algebra that
// satisfies field.ChildRebaser: a per-field last-writer-wins edit set, the
// simplest change type that still exercises compose/invert/rebase through
// the sequence core's child-rebaser boundary.
package childchange

import "fmt"

// FieldEdit is a single field assignment on a node, carrying the prior
// value so it can be inverted.
type FieldEdit struct {
	Field string
	Value any
	Prior any
	// HadPrior distinguishes "the field was unset" from "the field held the
	// zero value", mirroring how the teacher distinguishes a missing
	// account from IsZeroAccount.
	HadPrior bool
}

// Change is the nested change a Modify mark carries: an ordered batch of
// field edits applied to one node.
type Change struct {
	Edits []FieldEdit
}

// Rebaser implements field.ChildRebaser for Change.
type Rebaser struct{}

// Compose concatenates two edit batches applied in sequence; a later edit
// to the same field shadows an earlier one when the whole changeset is
// later applied, but compose itself keeps both entries — shadowing is
// resolved at apply time, exactly as the outbox keeps every queued diff
// rather than collapsing it ahead of replay.
func (Rebaser) Compose(base, over any) any {
	b, bok := base.(Change)
	o, ook := over.(Change)
	switch {
	case bok && ook:
		return Change{Edits: append(append([]FieldEdit{}, b.Edits...), o.Edits...)}
	case ook:
		return o
	case bok:
		return b
	default:
		return Change{}
	}
}

// Invert reverses a batch of edits in reverse order, each edit restoring
// its prior value.
func (Rebaser) Invert(change any) any {
	c, ok := change.(Change)
	if !ok {
		return Change{}
	}
	out := make([]FieldEdit, len(c.Edits))
	for i, e := range c.Edits {
		out[len(c.Edits)-1-i] = FieldEdit{
			Field:    e.Field,
			Value:    e.Prior,
			Prior:    e.Value,
			HadPrior: true,
		}
	}
	return Change{Edits: out}
}

// Rebase keeps every edit of change, including those that target a field
// base also wrote — base's concurrent write to that field already landed
// first; last-writer-among-concurrent-edits is decided by sequencing order,
// not by rebase — but updates such an edit's recorded Prior to base's last
// value for that field, so a later Invert still restores the right thing.
func (Rebaser) Rebase(change, base any) any {
	c, cok := change.(Change)
	b, bok := base.(Change)
	if !cok {
		return Change{}
	}
	if !bok || len(b.Edits) == 0 {
		return c
	}
	latest := map[string]any{}
	for _, e := range b.Edits {
		latest[e.Field] = e.Value
	}
	out := make([]FieldEdit, len(c.Edits))
	for i, e := range c.Edits {
		if v, ok := latest[e.Field]; ok {
			e.Prior = v
			e.HadPrior = true
		}
		out[i] = e
	}
	return Change{Edits: out}
}

func (c Change) String() string {
	return fmt.Sprintf("Change(%d edits)", len(c.Edits))
}

// Set builds a single-edit Change, the common case of a field assignment
// with no known prior value (callers that do know the prior, e.g. the edit
// manager applying a local edit against live content, should set HadPrior).
func Set(field string, value any) Change {
	return Change{Edits: []FieldEdit{{Field: field, Value: value}}}
}
