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

package editmanager

import (
	"fmt"
	"os"

	"github.com/naoina/toml"

	"github.com/driftfield/seqedit/storage"
)

// Config is a session's on-disk configuration: identity and storage backend
// selection (SPEC_FULL §2 "Config"), mirroring cmd/ubtconv's Config+Validate
// shape.
type Config struct {
	SessionId string

	// StorageBackend is "memory" or "badger"; empty defaults to "memory".
	StorageBackend string
	DataDir        string

	// RetentionWindow, if non-zero, is how many trailing trunk commits a
	// caller driving advanceMinimumSequenceNumber should keep; it is advisory
	// only: neither the edit manager nor cmd/seqeditctl reads this field.
	RetentionWindow uint64
}

// Validate reports whether c is a usable configuration.
func (c *Config) Validate() error {
	if c.SessionId == "" {
		return fmt.Errorf("editmanager: sessionId is required")
	}
	switch c.StorageBackend {
	case "", "memory", "badger":
	default:
		return fmt.Errorf("editmanager: unknown storage backend %q", c.StorageBackend)
	}
	if c.StorageBackend == "badger" && c.DataDir == "" {
		return fmt.Errorf("editmanager: datadir is required for the badger storage backend")
	}
	return nil
}

// LoadConfig reads a TOML configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("editmanager: read config %s: %w", path, err)
	}
	cfg := &Config{StorageBackend: "memory"}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("editmanager: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenStorage opens the storage.KV named by c.StorageBackend.
func (c *Config) OpenStorage() (storage.KV, error) {
	switch c.StorageBackend {
	case "", "memory":
		return storage.NewMemory(), nil
	case "badger":
		return storage.OpenBadger(c.DataDir)
	default:
		return nil, fmt.Errorf("editmanager: unknown storage backend %q", c.StorageBackend)
	}
}
