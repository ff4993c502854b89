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

package storage

import "github.com/ethereum/go-ethereum/ethdb/memorydb"

// memoryKV adapts go-ethereum's in-memory ethdb.KeyValueStore to KV, for
// tests and single-process sessions that don't need durability across
// restarts.
type memoryKV struct {
	db *memorydb.Database
}

// NewMemory returns a KV backed by an in-process sorted map.
func NewMemory() KV {
	return &memoryKV{db: memorydb.New()}
}

func (m *memoryKV) Get(key []byte) ([]byte, error) {
	v, err := m.db.Get(key)
	if err != nil {
		return nil, ErrNotFound
	}
	return v, nil
}

func (m *memoryKV) Put(key, value []byte) error {
	return m.db.Put(key, value)
}

func (m *memoryKV) Delete(key []byte) error {
	return m.db.Delete(key)
}

func (m *memoryKV) Has(key []byte) (bool, error) {
	return m.db.Has(key)
}

func (m *memoryKV) NewIterator(prefix []byte) Iterator {
	return memoryIterator{it: m.db.NewIterator(prefix, nil)}
}

func (m *memoryKV) Close() error {
	return m.db.Close()
}

type memoryIterator struct {
	it interface {
		Next() bool
		Key() []byte
		Value() []byte
		Release()
		Error() error
	}
}

func (m memoryIterator) Next() bool    { return m.it.Next() }
func (m memoryIterator) Key() []byte   { return m.it.Key() }
func (m memoryIterator) Value() []byte { return m.it.Value() }
func (m memoryIterator) Release()      { m.it.Release() }
func (m memoryIterator) Error() error  { return m.it.Error() }
