/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "errors"

var (
	// ErrInvalidArgument is returned for unrecognized results and malformed
	// prediction sequences.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInconsistentState is returned when a State violates one of its
	// invariants, e.g. a pairing references an unknown personaId.
	ErrInconsistentState = errors.New("inconsistent state")

	// ErrNotFound is returned when a player lookup fails or the current
	// pairings do not cover every player.
	ErrNotFound = errors.New("not found")

	// ErrNoLegalPairing is returned by the Pairer when every ordering of the
	// field forces at least one rematch.
	ErrNoLegalPairing = errors.New("no legal pairing")
)
