/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/swiss-topcut/swiss"
)

// Simulator estimates top-cut odds by playing out an event many times.
// A Simulator is safe for concurrent use; the input State is only read.
type Simulator struct {
	opts options
}

func New(opts ...Option) *Simulator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Simulator{opts: o}
}

// Odds runs the last-round batch when one round remains and the
// rest-of-event batch otherwise. results may be shorter than MinRound; the
// missing rounds are treated as wins.
func (sim *Simulator) Odds(ctx context.Context, s *swiss.State, target string,
	results []swiss.Result) (*Report, error) {

	start := time.Now()
	report := &Report{
		RunID:    uuid.NewString(),
		Target:   target,
		Round:    s.CurrentRound,
		MinRound: s.MinRound,
		Trials:   sim.opts.trials,
	}
	logger := sim.opts.logger.With(zap.String("run_id", report.RunID),
		zap.String("target", target))

	var err error
	if s.CurrentRound+1 == s.MinRound {
		report.Mode = ModeLastRound
		report.LastRound, err = sim.LastRound(ctx, s, target)
	} else {
		report.Mode = ModeRestOfEvent
		report.Predictions = swiss.FillResults(results, s.MinRound)
		report.TopCutPercent, err = sim.RestOfEvent(ctx, s, target,
			report.Predictions)
	}
	report.Elapsed = time.Since(start)
	if err != nil {
		logger.Warn("simulation failed", zap.String("mode",
			string(report.Mode)), zap.Error(err))
		return nil, err
	}
	logger.Info("simulation finished", zap.String("mode", string(report.Mode)),
		zap.Int("trials", report.Trials),
		zap.Duration("elapsed", report.Elapsed))

	return report, nil
}

// LastRound computes the six final-round percentages: the target's top-cut
// odds after a win, a draw and a loss, and the same for the target's
// opponent. When s has no pairings yet they are generated once and shared
// by every trial.
func (sim *Simulator) LastRound(ctx context.Context, s *swiss.State,
	target string) (*LastRoundOdds, error) {

	if s.CurrentRound+1 != s.MinRound {
		return nil, fmt.Errorf("%w: round %v of %v is not the last round",
			swiss.ErrInvalidArgument, s.CurrentRound+1, s.MinRound)
	}
	if err := checkTarget(s, target); err != nil {
		return nil, err
	}

	base := s
	if len(s.Pairings) == 0 {
		base = s.Copy()
		pairer := swiss.NewPairer(swiss.NewRand(sim.opts.seed))
		pairer.AllowRematches = sim.opts.allowRematches
		if err := pairer.Pair(base); err != nil {
			return nil, err
		}
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	opponent, ok := base.OpponentOf(target)
	if !ok {
		return nil, fmt.Errorf("%w: no pairing for %v", swiss.ErrNotFound,
			target)
	}

	type scenario struct {
		player string
		result swiss.Result
	}
	var scenarios []scenario
	players := []string{target}
	if opponent != swiss.ByeID {
		players = append(players, opponent)
	}
	for _, id := range players {
		for _, r := range []swiss.Result{swiss.ResultWin, swiss.ResultDraw,
			swiss.ResultLoss} {
			scenarios = append(scenarios, scenario{player: id, result: r})
		}
	}

	counts, err := sim.run(ctx, ModeLastRound, len(scenarios),
		func(rng swiss.Rand, hits []bool) error {
			resolver := sim.newResolver(rng)
			for idx, sc := range scenarios {
				next, err := resolver.Resolve(base, sc.player, sc.result)
				if err != nil {
					return err
				}
				hits[idx] = next.InTopCut(sc.player, sim.opts.topCut)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	pct := func(idx int) float64 {
		return 100 * float64(counts[idx]) / float64(sim.opts.trials)
	}
	ret := &LastRoundOdds{
		TargetID:   target,
		OpponentID: opponent,
		Target:     Outcomes{Win: pct(0), Draw: pct(1), Loss: pct(2)},
	}
	if opponent != swiss.ByeID {
		ret.Opponent = &Outcomes{Win: pct(3), Draw: pct(4), Loss: pct(5)}
	}

	return ret, nil
}

// RestOfEvent plays every remaining round with the target's match fixed to
// results[round] and returns the percentage (0-100) of trials in which the
// target finishes inside the top cut. results must hold one entry per
// scheduled round.
func (sim *Simulator) RestOfEvent(ctx context.Context, s *swiss.State,
	target string, results []swiss.Result) (float64, error) {

	if len(results) != s.MinRound {
		return 0, fmt.Errorf("%w: %v results for %v rounds",
			swiss.ErrInvalidArgument, len(results), s.MinRound)
	}
	for _, r := range results {
		if !r.Valid() {
			return 0, fmt.Errorf("%w: unrecognized result %q",
				swiss.ErrInvalidArgument, r)
		}
	}
	if err := checkTarget(s, target); err != nil {
		return 0, err
	}
	if err := s.Validate(); err != nil {
		return 0, err
	}

	counts, err := sim.run(ctx, ModeRestOfEvent, 1,
		func(rng swiss.Rand, hits []bool) error {
			pairer := swiss.NewPairer(rng)
			pairer.AllowRematches = sim.opts.allowRematches
			resolver := sim.newResolver(rng)

			cur := s
			for !cur.IsFinished() {
				if len(cur.Pairings) == 0 {
					if cur == s {
						cur = s.Copy()
					}
					if err := pairer.Pair(cur); err != nil {
						return err
					}
				}
				next, err := resolver.Resolve(cur, target,
					results[cur.CurrentRound])
				if err != nil {
					return err
				}
				cur = next
			}
			hits[0] = cur.InTopCut(target, sim.opts.topCut)
			return nil
		})
	if err != nil {
		return 0, err
	}

	return 100 * float64(counts[0]) / float64(sim.opts.trials), nil
}

func checkTarget(s *swiss.State, target string) error {
	if target == swiss.ByeID {
		return fmt.Errorf("%w: cannot simulate for the bye",
			swiss.ErrInvalidArgument)
	}
	if _, ok := s.Players[target]; !ok {
		return fmt.Errorf("%w: target player %v", swiss.ErrNotFound, target)
	}
	return nil
}

func (sim *Simulator) newResolver(rng swiss.Rand) *swiss.Resolver {
	resolver := swiss.NewResolver(rng)
	resolver.TopCut = sim.opts.topCut
	resolver.DrawRate = sim.opts.drawRate
	return resolver
}

// trialFunc plays one trial and marks which of the batch's outcomes it hit.
type trialFunc func(rng swiss.Rand, hits []bool) error

// run executes the configured number of trials across the worker pool and
// returns per-outcome hit counts. Each worker owns a contiguous block of
// trials and a private rng seeded from the batch seed, so a fixed seed and
// worker count reproduce the same counts. The first trial error cancels the
// remaining workers and is returned.
func (sim *Simulator) run(ctx context.Context, mode Mode, width int,
	trial trialFunc) ([]int, error) {

	trials := sim.opts.trials
	if trials < 1 {
		return nil, fmt.Errorf("%w: trials must be positive, got %v",
			swiss.ErrInvalidArgument, trials)
	}
	workers := sim.opts.workers
	if workers > trials {
		workers = trials
	}
	if workers < 1 {
		workers = 1
	}

	master := swiss.NewRand(sim.opts.seed)
	seeds := make([]int64, workers)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	start := time.Now()
	progress := newProgressReporter(sim.opts.progress)
	every := int64(sim.opts.progressEvery)
	var completed atomic.Int64
	var mu sync.Mutex
	counts := make([]int, width)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * trials / workers
		hi := (w + 1) * trials / workers
		seed := seeds[w]
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			local := make([]int, width)
			hits := make([]bool, width)
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				clear(hits)
				if err := trial(rng, hits); err != nil {
					return fmt.Errorf("trial %v: %w", i, err)
				}
				for idx, hit := range hits {
					if hit {
						local[idx]++
					}
				}
				if done := completed.Add(1); done%every == 0 {
					progress.report(float64(done) / float64(trials))
				}
			}

			mu.Lock()
			for idx, c := range local {
				counts[idx] += c
			}
			mu.Unlock()

			return nil
		})
	}
	err := g.Wait()
	elapsed := time.Since(start)
	sim.opts.metrics.observe(mode, int(completed.Load()), elapsed, err)
	if err != nil {
		return nil, err
	}
	progress.finish()

	sim.opts.logger.Debug("batch complete", zap.String("mode", string(mode)),
		zap.Int("trials", trials), zap.Int("workers", workers),
		zap.Duration("elapsed", elapsed))

	return counts, nil
}
