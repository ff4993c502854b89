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

import (
	"bytes"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerKV is the durable backend a long-lived session uses to persist its
// trunk commits across restarts; peer branches are not persisted.
type BadgerKV struct {
	db *badger.DB
}

// OpenBadger opens (creating if absent) a Badger database at path.
func OpenBadger(path string) (*BadgerKV, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // the caller wires its own structured logging instead.
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open badger at %s: %w", path, err)
	}
	return &BadgerKV{db: db}, nil
}

func (b *BadgerKV) Get(key []byte) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = append([]byte{}, val...)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: badger get: %w", err)
	}
	return out, nil
}

func (b *BadgerKV) Put(key, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return fmt.Errorf("storage: badger put: %w", err)
	}
	return nil
}

func (b *BadgerKV) Delete(key []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("storage: badger delete: %w", err)
	}
	return nil
}

func (b *BadgerKV) Has(key []byte) (bool, error) {
	var found bool
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("storage: badger has: %w", err)
	}
	return found, nil
}

func (b *BadgerKV) NewIterator(prefix []byte) Iterator {
	txn := b.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	bi := &badgerIterator{txn: txn, it: it, prefix: prefix, started: false}
	return bi
}

func (b *BadgerKV) Close() error {
	return b.db.Close()
}

type badgerIterator struct {
	txn     *badger.Txn
	it      *badger.Iterator
	prefix  []byte
	started bool
	err     error
}

func (b *badgerIterator) Next() bool {
	if !b.started {
		b.it.Seek(b.prefix)
		b.started = true
	} else {
		b.it.Next()
	}
	return b.it.ValidForPrefix(b.prefix)
}

func (b *badgerIterator) Key() []byte {
	return bytes.Clone(b.it.Item().KeyCopy(nil))
}

func (b *badgerIterator) Value() []byte {
	v, err := b.it.Item().ValueCopy(nil)
	if err != nil {
		b.err = err
	}
	return v
}

func (b *badgerIterator) Release() {
	b.it.Close()
	b.txn.Discard()
}

func (b *badgerIterator) Error() error {
	return b.err
}
