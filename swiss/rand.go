/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"math/rand"
	"time"
)

// Rand is the source of randomness used for pairing and result rolls.
// *rand.Rand satisfies it. Implementations need not be safe for concurrent
// use; every simulation worker owns its own.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a Rand seeded with seed, or with the current time when seed
// is 0.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// shuffle permutes ids in place (Fisher-Yates).
func shuffle(rng Rand, ids []string) {
	for i := len(ids) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}
