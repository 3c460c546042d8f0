/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package sim

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/mikeb26/swiss-topcut/internal"
	"github.com/mikeb26/swiss-topcut/swiss"
)

type options struct {
	trials         int
	workers        int
	seed           int64
	topCut         int
	drawRate       float64
	allowRematches bool
	progress       func(float64)
	progressEvery  int
	logger         *zap.Logger
	metrics        *Metrics
}

func defaultOptions() options {
	return options{
		trials:        internal.DefaultTrials,
		workers:       runtime.NumCPU(),
		topCut:        swiss.DefaultTopCut,
		drawRate:      swiss.DefaultDrawRate,
		progressEvery: internal.DefaultProgressEvery,
		logger:        zap.NewNop(),
	}
}

// Option configures a Simulator.
type Option func(*options)

// WithTrials sets the number of simulated events per scenario.
func WithTrials(n int) Option {
	return func(o *options) { o.trials = n }
}

// WithWorkers sets how many goroutines run trials. Values below 1 select
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		o.workers = n
	}
}

// WithSeed makes a batch reproducible for a given worker count. 0 seeds
// from the clock.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

func WithTopCut(cut int) Option {
	return func(o *options) { o.topCut = cut }
}

func WithDrawRate(rate float64) Option {
	return func(o *options) { o.drawRate = rate }
}

// WithAllowRematches lets pairing fall back to rematches instead of failing
// the batch with swiss.ErrNoLegalPairing.
func WithAllowRematches(allow bool) Option {
	return func(o *options) { o.allowRematches = allow }
}

// WithProgress registers a callback receiving the completed fraction of a
// batch. Calls never overlap and the last one is always 1.0.
func WithProgress(fn func(float64)) Option {
	return func(o *options) { o.progress = fn }
}

func WithProgressEvery(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.progressEvery = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}
