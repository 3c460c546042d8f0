/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"

	"github.com/mikeb26/swiss-topcut/ingest"
	"github.com/mikeb26/swiss-topcut/internal"
	"github.com/mikeb26/swiss-topcut/predstore"
	"github.com/mikeb26/swiss-topcut/sim"
	"github.com/mikeb26/swiss-topcut/swiss"
)

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) handleStandings(ctx context.Context, args []string) error {
	fs := a.newFlagSet("standings")
	var in inputFlags
	in.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, event, err := a.load(ctx, &in)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, swiss.BuildStandingsOutput(s))
	if event != nil {
		timings, err := event.Schedule()
		if err != nil {
			return err
		}
		if len(timings) > 0 {
			fmt.Fprintf(a.out, "\n%v", ingest.FormatSchedule(timings))
		}
	}

	return nil
}

func (a *app) handlePairings(ctx context.Context, args []string) error {
	fs := a.newFlagSet("pairings")
	var in inputFlags
	in.register(fs)
	seed := fs.Int64("seed", a.cfg.Seed, "random seed (0 seeds from the clock)")
	allowRematches := fs.Bool("allow-rematches", false,
		"fall back to rematches when no other pairing exists")
	outPath := fs.String("out", "", "write the paired state to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, _, err := a.load(ctx, &in)
	if err != nil {
		return err
	}
	a.warnNoHistory("pairings", &in)
	if err := a.ensurePairings(s, *seed, *allowRematches); err != nil {
		return err
	}
	fmt.Fprint(a.out, swiss.BuildPairingsOutput(s))

	return a.writeState(*outPath, s)
}

func (a *app) ensurePairings(s *swiss.State, seed int64,
	allowRematches bool) error {

	if len(s.Pairings) != 0 {
		return nil
	}
	pr := swiss.NewPairer(swiss.NewRand(seed))
	pr.AllowRematches = allowRematches
	if err := pr.Pair(s); err != nil {
		return err
	}
	a.logger.Debug("generated pairings", zap.Int("round", s.CurrentRound+1),
		zap.Int("tables", len(s.Pairings)))

	return nil
}

func (a *app) handleResolve(ctx context.Context, args []string) error {
	fs := a.newFlagSet("resolve")
	var in inputFlags
	in.register(fs)
	target := fs.String("target", "", "personaId whose result is fixed")
	resultStr := fs.String("result", "", "win, draw or loss")
	seed := fs.Int64("seed", a.cfg.Seed, "random seed (0 seeds from the clock)")
	cut := fs.Int("cut", a.cfg.TopCut, "top cut size")
	drawRate := fs.Float64("draw-rate", a.cfg.DrawRate,
		"chance a random match is drawn")
	outPath := fs.String("out", "", "write the resolved state to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *target == "" {
		fs.Usage()
		return errors.New("--target is required")
	}
	result, err := swiss.ParseResult(*resultStr)
	if err != nil {
		return err
	}

	s, _, err := a.load(ctx, &in)
	if err != nil {
		return err
	}
	a.warnNoHistory("resolve", &in)
	rng := swiss.NewRand(*seed)
	if len(s.Pairings) == 0 {
		if err := swiss.GeneratePairings(s, rng); err != nil {
			return err
		}
	}
	r := swiss.NewResolver(rng)
	r.TopCut = *cut
	r.DrawRate = *drawRate
	next, err := r.Resolve(s, *target, result)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, swiss.BuildStandingsOutput(next))

	return a.writeState(*outPath, next)
}

func (a *app) handleOdds(ctx context.Context, args []string) error {
	fs := a.newFlagSet("odds")
	var in inputFlags
	in.register(fs)
	target := fs.String("target", "", "personaId to estimate odds for")
	predStr := fs.String("predictions", "",
		"comma separated results for every Swiss round")
	eventID := fs.String("event", "",
		"event id for stored predictions and snapshots")
	trials := fs.Int("trials", a.cfg.Trials, "simulated events per scenario")
	workers := fs.Int("workers", a.cfg.Workers, "worker goroutines")
	seed := fs.Int64("seed", a.cfg.Seed, "random seed (0 seeds from the clock)")
	cut := fs.Int("cut", a.cfg.TopCut, "top cut size")
	drawRate := fs.Float64("draw-rate", a.cfg.DrawRate,
		"chance a random match is drawn")
	allowRematches := fs.Bool("allow-rematches", false,
		"fall back to rematches when no other pairing exists")
	showProgress := fs.Bool("progress", false, "report progress on stderr")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	showMetrics := fs.Bool("metrics", false,
		"print simulation metrics after the report")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *target == "" {
		fs.Usage()
		return errors.New("--target is required")
	}

	var store *predstore.Store
	if *eventID != "" {
		var err error
		store, err = a.store(ctx)
		if err != nil {
			return err
		}
	}

	var s *swiss.State
	var event *ingest.Event
	var err error
	switch {
	case in.given():
		s, event, err = a.load(ctx, &in)
	case store != nil:
		s, err = store.LoadSnapshot(*eventID)
	default:
		err = errNoInput
	}
	if err != nil {
		return err
	}
	a.warnNoHistory("odds", &in)

	results, err := a.predictions(*predStr, *eventID, *target, store, event)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	opts := []sim.Option{
		sim.WithTrials(*trials),
		sim.WithWorkers(*workers),
		sim.WithSeed(*seed),
		sim.WithTopCut(*cut),
		sim.WithDrawRate(*drawRate),
		sim.WithAllowRematches(*allowRematches),
		sim.WithLogger(a.logger),
		sim.WithMetrics(sim.NewMetrics(reg)),
	}
	if *showProgress {
		opts = append(opts, sim.WithProgress(func(frac float64) {
			fmt.Fprintf(a.errOut, "\r%5.1f%%", frac*100)
			if frac >= 1 {
				fmt.Fprintln(a.errOut)
			}
		}))
	}
	report, err := sim.New(opts...).Odds(ctx, s, *target, results)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		fmt.Fprint(a.out, report.String())
	}
	if *showMetrics {
		return a.writeMetrics(reg)
	}

	return nil
}

// predictions picks the result sequence for an odds run: the flag first,
// then the store, then the player's completed rounds in the payload.
func (a *app) predictions(flagVal, eventID, target string,
	store *predstore.Store, event *ingest.Event) ([]swiss.Result, error) {

	if flagVal != "" {
		return swiss.ParseResults(flagVal)
	}
	if store != nil {
		p, err := store.LoadPredictions(eventID)
		switch {
		case err == nil && p.PersonaID == target:
			return p.Results, nil
		case err == nil:
			a.logger.Debug("stored predictions belong to another player",
				zap.String("event", eventID), zap.String("persona", p.PersonaID))
		case !errors.Is(err, swiss.ErrNotFound):
			return nil, err
		}
	}
	if event != nil {
		return event.Predictions(target), nil
	}

	return nil, nil
}

func (a *app) writeMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("unable to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(a.out, mf); err != nil {
			return err
		}
	}

	return nil
}

func (a *app) handlePredictions(ctx context.Context, args []string) error {
	fs := a.newFlagSet("predictions")
	eventID := fs.String("event", "", "event id")
	target := fs.String("target", "", "personaId the predictions belong to")
	setStr := fs.String("set", "", "comma separated results to store")
	payloadPath := fs.String("payload", "",
		"derive predictions from this event payload's completed rounds")
	clearAll := fs.Bool("clear", false, "forget everything stored for the event")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *eventID == "" {
		fs.Usage()
		return errors.New("--event is required")
	}

	store, err := a.store(ctx)
	if err != nil {
		return err
	}
	a.warnEphemeral()

	switch {
	case *clearAll:
		store.Forget(*eventID)
		return nil
	case *setStr != "" || *payloadPath != "":
		if *target == "" {
			fs.Usage()
			return errors.New("--target is required when storing predictions")
		}
		var results []swiss.Result
		if *setStr != "" {
			results, err = swiss.ParseResults(*setStr)
		} else {
			_, event, lerr := a.load(ctx, &inputFlags{payloadPath: *payloadPath})
			if lerr != nil {
				return lerr
			}
			results = event.Predictions(*target)
		}
		if err != nil {
			return err
		}
		p := &predstore.Predictions{
			EventID:   *eventID,
			PersonaID: *target,
			Results:   results,
		}
		if err := store.SavePredictions(p); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%v: %v\n", p.PersonaID, swiss.FormatResults(p.Results))
		return nil
	}

	p, err := store.LoadPredictions(*eventID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%v: %v\n", p.PersonaID, swiss.FormatResults(p.Results))

	return nil
}

func (a *app) handleSnapshot(ctx context.Context, args []string) error {
	fs := a.newFlagSet("snapshot")
	var in inputFlags
	in.register(fs)
	eventID := fs.String("event", "", "event id")
	outPath := fs.String("out", "-", "where to write a fetched snapshot")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *eventID == "" {
		fs.Usage()
		return errors.New("--event is required")
	}

	store, err := a.store(ctx)
	if err != nil {
		return err
	}
	a.warnEphemeral()

	if in.given() {
		s, _, err := a.load(ctx, &in)
		if err != nil {
			return err
		}
		return store.SaveSnapshot(*eventID, s)
	}
	s, err := store.LoadSnapshot(*eventID)
	if err != nil {
		return err
	}

	return a.writeState(*outPath, s)
}

func (a *app) warnEphemeral() {
	if a.cfg.Store == internal.StoreMemory || a.cfg.Store == "" {
		a.logger.Warn("memory store does not outlive this process",
			zap.String("hint", internal.EnvPrefix+"STORE=s3 or redis"))
	}
}
