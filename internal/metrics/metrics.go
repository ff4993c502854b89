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

// Package metrics registers the process-wide counters/gauges/timers the
// edit manager and storage backends report through, all wired onto
// go-ethereum's metrics registry so they show up wherever the host process
// already exports it (spec ambient observability, not spec scope itself).
package metrics

import "github.com/ethereum/go-ethereum/metrics"

var (
	ApplyLatency           = metrics.NewRegisteredTimer("seqedit/editmanager/apply/latency", nil)
	AddSequencedLatency    = metrics.NewRegisteredTimer("seqedit/editmanager/addsequenced/latency", nil)
	SandwichRebaseLatency  = metrics.NewRegisteredTimer("seqedit/editmanager/sandwich/latency", nil)
	TrunkLength            = metrics.NewRegisteredGauge("seqedit/editmanager/trunk/length", nil)
	LocalBranchLength      = metrics.NewRegisteredGauge("seqedit/editmanager/local/length", nil)
	EvictedTotal           = metrics.NewRegisteredCounter("seqedit/editmanager/evicted/total", nil)
	EvictionRejectedTotal  = metrics.NewRegisteredCounter("seqedit/editmanager/eviction/rejected/total", nil)
	UsageErrorsTotal       = metrics.NewRegisteredCounter("seqedit/editmanager/usage/errors/total", nil)
	StorageWriteLatency    = metrics.NewRegisteredTimer("seqedit/storage/write/latency", nil)
	StorageBackendDegraded = metrics.NewRegisteredGauge("seqedit/storage/degraded", nil) // 0=healthy, 1=degraded
)
