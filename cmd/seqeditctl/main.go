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

// seqeditctl drives a single edit manager instance end to end: apply local
// edits, land sequenced batches, advance the minimum sequence number, and
// dump/load the summary form, grounded on cmd/ubtconv's Config+subcommand
// shape (SPEC_FULL §7). It is a manual testing/demo driver, not part of the
// algebra's public contract.
package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/driftfield/seqedit/editmanager"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML config file (session identity, storage backend)",
	}
	sessionFlag = &cli.StringFlag{
		Name:  "session",
		Usage: "session id, overrides config",
		Value: "local",
	}
	backendFlag = &cli.StringFlag{
		Name:  "backend",
		Usage: "storage backend: memory or badger, overrides config",
		Value: "memory",
	}
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "badger data directory, overrides config",
	}
	opsFlag = &cli.StringFlag{
		Name:     "ops",
		Usage:    "path to a JSON operations script",
		Required: true,
	}
	summaryOutFlag = &cli.StringFlag{
		Name:  "summary-out",
		Usage: "path to write the final summary JSON to",
	}
	summaryMetaOutFlag = &cli.StringFlag{
		Name:  "summary-meta-out",
		Usage: "path to write the final summary metadata blob to",
	}
	summaryInFlag = &cli.StringFlag{
		Name:     "summary",
		Usage:    "path to a summary JSON file to load before running ops",
		Required: false,
	}
	summaryMetaInFlag = &cli.StringFlag{
		Name:  "summary-meta",
		Usage: "path to the summary's sibling metadata blob, if any",
	}
)

func loadConfig(ctx *cli.Context) (*editmanager.Config, error) {
	if path := ctx.String("config"); path != "" {
		cfg, err := editmanager.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		if ctx.IsSet("session") {
			cfg.SessionId = ctx.String("session")
		}
		if ctx.IsSet("backend") {
			cfg.StorageBackend = ctx.String("backend")
		}
		if ctx.IsSet("datadir") {
			cfg.DataDir = ctx.String("datadir")
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	cfg := &editmanager.Config{
		SessionId:      ctx.String("session"),
		StorageBackend: ctx.String("backend"),
		DataDir:        ctx.String("datadir"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "seqeditctl"
	app.Usage = "drive a sequence-field edit manager through a scripted workload"
	app.Commands = []*cli.Command{
		{
			Name:  "run",
			Usage: "apply a JSON operations script against one edit manager instance",
			Flags: []cli.Flag{configFlag, sessionFlag, backendFlag, dataDirFlag, opsFlag, summaryOutFlag, summaryMetaOutFlag, summaryInFlag, summaryMetaInFlag},
			Action: func(ctx *cli.Context) error {
				return runOps(ctx)
			},
		},
	}
	return app
}

func main() {
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, log.LevelInfo, true)))
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
