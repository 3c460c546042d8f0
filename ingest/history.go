/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ingest

import (
	"sort"

	"github.com/mikeb26/swiss-topcut/swiss"
)

// PredictionsFromHistory returns the default prediction sequence for
// personaID: the actual result of every completed round the player took
// part in (a bye counts as a win), followed by wins up to minRound.
func PredictionsFromHistory(completed []Round, personaID string,
	minRound int) []swiss.Result {

	rounds := append([]Round(nil), completed...)
	sort.SliceStable(rounds, func(i, j int) bool {
		return rounds[i].Number < rounds[j].Number
	})

	var ret []swiss.Result
	for _, round := range rounds {
		if r, ok := resultFor(round, personaID); ok {
			ret = append(ret, r)
		}
	}

	return swiss.FillResults(ret, minRound)
}

// Predictions is PredictionsFromHistory over the event's completed rounds.
func (e *Event) Predictions(personaID string) []swiss.Result {
	return PredictionsFromHistory(e.CompletedRounds(), personaID,
		e.GameState.MinRounds)
}

func resultFor(round Round, personaID string) (swiss.Result, bool) {
	for _, m := range round.Matches {
		for _, t := range m.Teams {
			if t.PersonaID() != personaID {
				continue
			}
			if m.IsBye {
				return swiss.ResultWin, true
			}
			if len(t.Results) == 0 {
				return "", false
			}
			res := t.Results[0]
			switch {
			case res.Wins > res.Losses:
				return swiss.ResultWin, true
			case res.Wins < res.Losses:
				return swiss.ResultLoss, true
			default:
				return swiss.ResultDraw, true
			}
		}
	}
	return "", false
}
