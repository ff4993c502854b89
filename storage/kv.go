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

// Package storage is the durable key-value abstraction the edit manager
// mirrors trunk commits onto (deleting them again on eviction; the minimum
// sequence number itself is not stored), shaped the way the
// teacher's ethdb.Database is (spec §4.I "backed by a storage.KV").
package storage

// KV is the subset of ethdb.KeyValueReader/Writer/Database the edit manager
// needs: get/put/delete plus an ordered iterator for replaying a trunk on
// load. Kept minimal and interface-shaped so both the in-memory backend and
// the badger-backed one satisfy it without adapters.
type KV interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	NewIterator(prefix []byte) Iterator
	Close() error
}

// Iterator walks keys in ascending byte order, mirroring ethdb.Iterator.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// ErrNotFound is returned by Get when the key does not exist, matching
// leveldb's/ethdb's convention so callers can use errors.Is consistently
// across backends.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "storage: key not found" }
