/*
 * Copyright 2025 XTDB Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command xtdb-cdc replays a file of Debezium change events into XTDB.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	xtdb "github.com/xtdb/xtdb-go"
	"github.com/xtdb/xtdb-go/cdc"
)

type options struct {
	PositionalArgs struct {
		EventsFile string `positional-arg-name:"events-file" description:"Debezium events JSON file"`
	} `positional-args:"yes" positional-optional:"yes"`

	Host     string `long:"host" env:"XTDB_HOST" description:"XTDB host" default:"localhost"`
	Port     int    `long:"port" env:"XTDB_PG_PORT" description:"XTDB Postgres wire port" default:"5432"`
	Database string `long:"database" env:"XTDB_DATABASE" description:"database name" default:"xtdb"`
	User     string `long:"user" env:"XTDB_USER" description:"connection user" default:"xtdb"`
	Password string `long:"password" env:"XTDB_PASSWORD" description:"connection password"`

	ContinueOnError bool `long:"continue-on-error" description:"keep replaying after a failed event"`

	Version bool `long:"version" description:"show version"`

	Dry bool `long:"dry" description:"dry run"`
	Dbg bool `long:"dbg" description:"debug mode"`
}

var revision = "latest"

func main() {
	fmt.Printf("xtdb-cdc %s\n", revision)

	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		os.Exit(1)
	}
	if opts.Version {
		os.Exit(0) // already printed
	}
	setupLog(opts.Dbg)

	if err := run(opts); err != nil {
		if opts.Dbg {
			log.Panicf("[ERROR] %v", err)
		}
		fmt.Printf("failed, %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.Dry {
		if opts.Dbg {
			log.Printf("[WARN] dry run, no events will be written")
		} else {
			msg := color.New(color.FgHiRed).SprintfFunc()("dry run - no events will be written\n")
			fmt.Print(msg)
		}
	}

	st := time.Now()
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	eventsFile := opts.PositionalArgs.EventsFile
	if eventsFile == "" {
		eventsFile = "events.json"
	}

	events, err := cdc.LoadEventsFile(eventsFile)
	if err != nil {
		return fmt.Errorf("can't load events from %q: %w", eventsFile, err)
	}
	log.Printf("[INFO] loaded %d events from %s", len(events), eventsFile)

	var store cdc.Store
	if !opts.Dry {
		client, err := xtdb.Connect(ctx, &xtdb.Config{
			Host:     opts.Host,
			Port:     opts.Port,
			Database: opts.Database,
			User:     opts.User,
			Password: opts.Password,
		})
		if err != nil {
			return fmt.Errorf("can't connect to %s:%d: %w", opts.Host, opts.Port, err)
		}
		defer func() {
			if err := client.Close(context.Background()); err != nil {
				log.Printf("[WARN] can't close connection: %v", err)
			}
		}()
		store = client
	}

	stats, err := cdc.Apply(ctx, store, events, cdc.Options{
		ContinueOnError: opts.ContinueOnError,
		DryRun:          opts.Dry,
	})
	if err != nil {
		return err
	}

	msg := color.New(color.FgHiGreen).SprintfFunc()(
		"replayed %d events (%d inserts, %d updates, %d deletes, %d skipped) into [%s] in %v\n",
		stats.Applied(), stats.Inserts, stats.Updates, stats.Deletes, stats.Skipped,
		strings.Join(stats.Tables, ", "), time.Since(st).Truncate(100*time.Millisecond))
	fmt.Print(msg)
	return nil
}

func setupLog(dbg bool) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)} // default to discard
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
