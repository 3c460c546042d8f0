/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package sim

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikeb26/swiss-topcut/swiss"
)

// Mode names the kind of batch that produced a Report.
type Mode string

const (
	ModeLastRound   Mode = "last-round"
	ModeRestOfEvent Mode = "rest-of-event"
)

// Outcomes holds top-cut percentages (0-100) for each result of a single
// match.
type Outcomes struct {
	Win  float64 `json:"win"`
	Draw float64 `json:"draw"`
	Loss float64 `json:"loss"`
}

// LastRoundOdds answers "what happens to me, and to my opponent, for each
// result of the final Swiss round".
type LastRoundOdds struct {
	TargetID   string   `json:"targetId"`
	OpponentID string   `json:"opponentId"`
	Target     Outcomes `json:"target"`
	// Opponent is nil when the target has the bye.
	Opponent *Outcomes `json:"opponent,omitempty"`
}

// Report is the outcome of one Odds call.
type Report struct {
	RunID       string         `json:"runId"`
	Mode        Mode           `json:"mode"`
	Target      string         `json:"target"`
	Round       int            `json:"round"`
	MinRound    int            `json:"minRound"`
	Trials      int            `json:"trials"`
	Predictions []swiss.Result `json:"predictions,omitempty"`
	LastRound   *LastRoundOdds `json:"lastRound,omitempty"`
	// TopCutPercent is the rest-of-event success rate (0-100).
	TopCutPercent float64       `json:"topCutPercent"`
	Elapsed       time.Duration `json:"elapsed"`
}

// String renders the report for terminal output.
func (r *Report) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Top cut odds for %v after round %v of %v (%v trials):\n",
		r.Target, r.Round, r.MinRound, r.Trials))
	switch r.Mode {
	case ModeLastRound:
		lr := r.LastRound
		sb.WriteString(fmt.Sprintf("  with a win:  %6.2f%%\n", lr.Target.Win))
		sb.WriteString(fmt.Sprintf("  with a draw: %6.2f%%\n", lr.Target.Draw))
		sb.WriteString(fmt.Sprintf("  with a loss: %6.2f%%\n", lr.Target.Loss))
		if lr.Opponent != nil {
			sb.WriteString(fmt.Sprintf("Opponent %v:\n", lr.OpponentID))
			sb.WriteString(fmt.Sprintf("  with a win:  %6.2f%%\n",
				lr.Opponent.Win))
			sb.WriteString(fmt.Sprintf("  with a draw: %6.2f%%\n",
				lr.Opponent.Draw))
			sb.WriteString(fmt.Sprintf("  with a loss: %6.2f%%\n",
				lr.Opponent.Loss))
		} else {
			sb.WriteString("Opponent: BYE\n")
		}
	default:
		sb.WriteString(fmt.Sprintf("  predictions %v: %6.2f%%\n",
			swiss.FormatResults(r.Predictions), r.TopCutPercent))
	}

	return sb.String()
}
