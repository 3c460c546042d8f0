/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"strings"
)

// Result is the prescribed outcome of a round for one player.
type Result string

const (
	ResultWin  Result = "win"
	ResultDraw Result = "draw"
	ResultLoss Result = "loss"
)

func (r Result) Valid() bool {
	return r == ResultWin || r == ResultDraw || r == ResultLoss
}

// ParseResult accepts "win", "draw" or "loss" (case-insensitive).
func ParseResult(s string) (Result, error) {
	r := Result(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unrecognized result %q", ErrInvalidArgument, s)
	}
	return r, nil
}

// ParseResults parses a comma separated list such as "win,draw,loss".
func ParseResults(s string) ([]Result, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var ret []Result
	for _, field := range strings.Split(s, ",") {
		r, err := ParseResult(field)
		if err != nil {
			return nil, err
		}
		ret = append(ret, r)
	}
	return ret, nil
}

// FillResults returns a copy of rs padded with wins up to minRound entries.
// Entries past minRound are dropped.
func FillResults(rs []Result, minRound int) []Result {
	ret := make([]Result, 0, minRound)
	for i := 0; i < minRound; i++ {
		if i < len(rs) {
			ret = append(ret, rs[i])
		} else {
			ret = append(ret, ResultWin)
		}
	}
	return ret
}

// FormatResults is the inverse of ParseResults.
func FormatResults(rs []Result) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}
