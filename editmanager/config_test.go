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
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seqedit.toml")
	body := "SessionId = \"alice\"\nStorageBackend = \"memory\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SessionId != "alice" {
		t.Fatalf("expected sessionId alice, got %q", cfg.SessionId)
	}
	if cfg.StorageBackend != "memory" {
		t.Fatalf("expected storage backend memory, got %q", cfg.StorageBackend)
	}
}

func TestConfigValidateRejectsMissingSessionId(t *testing.T) {
	cfg := &Config{StorageBackend: "memory"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected an error for a missing sessionId")
	}
}

func TestConfigValidateRejectsBadgerWithoutDataDir(t *testing.T) {
	cfg := &Config{SessionId: "alice", StorageBackend: "badger"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected an error for badger backend with no datadir")
	}
}

func TestConfigOpenStorageDefaultsToMemory(t *testing.T) {
	cfg := &Config{SessionId: "alice"}
	kv, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage: %v", err)
	}
	defer kv.Close()
	if err := kv.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
}
