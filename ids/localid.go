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

package ids

import "fmt"

// LocalId is a dense non-negative integer assigned by a per-revision
// allocator. (revision, localId) is globally unique (spec §3.1).
type LocalId uint32

// IdRange is a compact range of adjacent local ids (spec §3.1).
type IdRange struct {
	Id    LocalId
	Count uint32
}

// Allocator hands out monotonically increasing local ids for a single
// changeset build. It is stack-scoped: a new Allocator is created per commit
// build and never shared across compose/rebase inputs (spec §9 "Allocators").
type Allocator struct {
	next LocalId
}

// NewAllocator returns a fresh allocator starting at local id zero.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Alloc reserves count consecutive local ids and returns the first one.
func (a *Allocator) Alloc(count uint32) LocalId {
	if count == 0 {
		panic("ids: Alloc requires count > 0")
	}
	start := a.next
	a.next += LocalId(count)
	return start
}

// Peek returns the next id that would be handed out, without allocating it.
func (a *Allocator) Peek() LocalId {
	return a.next
}

func (r IdRange) String() string {
	return fmt.Sprintf("[%d..%d)", r.Id, uint32(r.Id)+r.Count)
}

// Contains reports whether id falls within the range.
func (r IdRange) Contains(id LocalId) bool {
	return id >= r.Id && uint32(id-r.Id) < r.Count
}
