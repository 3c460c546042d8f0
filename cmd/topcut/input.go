/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/mikeb26/swiss-topcut/ingest"
	"github.com/mikeb26/swiss-topcut/internal"
	"github.com/mikeb26/swiss-topcut/swiss"
)

var errNoInput = errors.New("no input given; use --state, --payload or --html")

// inputFlags are the ways a command can be handed an event.
type inputFlags struct {
	statePath   string
	payloadPath string
	htmlPath    string
	rounds      int
}

func (in *inputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&in.statePath, "state", "", "state snapshot file or URL (- for stdin)")
	fs.StringVar(&in.payloadPath, "payload", "", "event payload file or URL (- for stdin)")
	fs.StringVar(&in.htmlPath, "html", "", "standings page file or URL (- for stdin)")
	fs.IntVar(&in.rounds, "rounds", 0,
		"number of Swiss rounds when a standings page does not say")
}

func (in *inputFlags) given() bool {
	return in.statePath != "" || in.payloadPath != "" || in.htmlPath != ""
}

// load returns the event state and, for payload input, the decoded event.
func (a *app) load(ctx context.Context,
	in *inputFlags) (*swiss.State, *ingest.Event, error) {

	n := 0
	for _, p := range []string{in.statePath, in.payloadPath, in.htmlPath} {
		if p != "" {
			n++
		}
	}
	switch {
	case n == 0:
		return nil, nil, errNoInput
	case n > 1:
		return nil, nil, errors.New("--state, --payload and --html are mutually exclusive")
	}

	switch {
	case in.statePath != "":
		r, closer, err := a.open(ctx, in.statePath)
		if err != nil {
			return nil, nil, err
		}
		defer closer()
		s, err := swiss.Decode(r)
		return s, nil, err
	case in.payloadPath != "":
		r, closer, err := a.open(ctx, in.payloadPath)
		if err != nil {
			return nil, nil, err
		}
		defer closer()
		event, err := ingest.DecodeEvent(r)
		if err != nil {
			return nil, nil, err
		}
		s, err := event.State()
		if err != nil {
			return nil, nil, err
		}
		return s, event, nil
	default:
		r, closer, err := a.open(ctx, in.htmlPath)
		if err != nil {
			return nil, nil, err
		}
		defer closer()
		s, err := ingest.ParseStandingsHTML(r, in.rounds)
		return s, nil, err
	}
}

// open reads path from stdin ("-"), over http(s) through the shared cache,
// or from the local filesystem.
func (a *app) open(ctx context.Context, path string) (io.Reader, func(),
	error) {

	if path == "-" {
		return a.stdin, func() {}, nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		cache, err := a.sharedCache(ctx)
		if err != nil {
			return nil, nil, err
		}
		client := internal.NewCachedHttpClient(cache, a.cfg.FetchMaxAge)
		body, err := internal.Fetch(ctx, client, path)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug("fetched input", zap.String("url", path))
		return body, func() { body.Close() }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open %v: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

// writeState writes s to path, or to stdout when path is "-".
func (a *app) writeState(path string, s *swiss.State) error {
	if path == "" {
		return nil
	}
	if path == "-" {
		return s.Encode(a.out)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %v: %w", path, err)
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// warnNoHistory flags inputs that lack opponent lists and game tallies.
// Pairings built from them may repeat earlier matches and breakers restart
// from the rounds played after the snapshot.
func (a *app) warnNoHistory(cmd string, in *inputFlags) {
	if in.htmlPath == "" {
		return
	}
	a.logger.Warn("standings page has no opponent history",
		zap.String("command", cmd), zap.String("input", in.htmlPath),
		zap.String("hint", "use --payload or --state for exact breakers"))
}
