/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package sim

import "sync"

// progressReporter serializes calls to the user callback and keeps them
// monotonic. 1.0 is only delivered by finish.
type progressReporter struct {
	mu   sync.Mutex
	fn   func(float64)
	last float64
	done bool
}

func newProgressReporter(fn func(float64)) *progressReporter {
	return &progressReporter{fn: fn}
}

func (pr *progressReporter) report(frac float64) {
	if pr.fn == nil || frac >= 1.0 {
		return
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.done || frac <= pr.last {
		return
	}
	pr.last = frac
	pr.fn(frac)
}

func (pr *progressReporter) finish() {
	if pr.fn == nil {
		return
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.done {
		return
	}
	pr.done = true
	pr.last = 1.0
	pr.fn(1.0)
}
