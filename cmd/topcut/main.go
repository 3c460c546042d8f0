/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gregjones/httpcache"
	"go.uber.org/zap"

	"github.com/mikeb26/swiss-topcut/internal"
	"github.com/mikeb26/swiss-topcut/predstore"
)

//go:embed help.txt
var helpText string

// app carries what every command needs.
type app struct {
	cfg    *internal.Config
	logger *zap.Logger
	out    io.Writer
	errOut io.Writer
	stdin  io.Reader

	openCache func(ctx context.Context) (httpcache.Cache, error)
	cache     httpcache.Cache
}

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(a *app, ctx context.Context, args []string) error

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":        (*app).handleHelp,
	"standings":   (*app).handleStandings,
	"pairings":    (*app).handlePairings,
	"resolve":     (*app).handleResolve,
	"odds":        (*app).handleOdds,
	"predictions": (*app).handlePredictions,
	"snapshot":    (*app).handleSnapshot,
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage(os.Stdout)
		os.Exit(1)
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		os.Exit(1)
	}
	logger, err := internal.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		os.Exit(1)
	}
	defer logger.Sync()

	a := newApp(cfg, logger, os.Stdout, os.Stderr, os.Stdin)
	cmd := os.Args[1]
	handler, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage(os.Stdout)
		os.Exit(1)
	}
	err = handler(a, ctx, os.Args[2:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v %v: %v\n", os.Args[0], cmd, err)
		logger.Sync()
		os.Exit(1)
	}
}

func newApp(cfg *internal.Config, logger *zap.Logger, out, errOut io.Writer,
	stdin io.Reader) *app {

	a := &app{
		cfg:    cfg,
		logger: logger,
		out:    out,
		errOut: errOut,
		stdin:  stdin,
	}
	a.openCache = func(ctx context.Context) (httpcache.Cache, error) {
		return predstore.OpenCache(ctx, a.cfg, a.logger)
	}
	return a
}

// sharedCache opens the configured cache once; the prediction store and
// the http client for URL inputs both live in it.
func (a *app) sharedCache(ctx context.Context) (httpcache.Cache, error) {
	if a.cache == nil {
		cache, err := a.openCache(ctx)
		if err != nil {
			return nil, err
		}
		a.cache = cache
	}
	return a.cache, nil
}

func (a *app) store(ctx context.Context) (*predstore.Store, error) {
	cache, err := a.sharedCache(ctx)
	if err != nil {
		return nil, err
	}
	return predstore.New(cache, a.logger), nil
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "%v", helpText)
}

func (a *app) handleHelp(ctx context.Context, args []string) error {
	usage(a.out)
	return nil
}
