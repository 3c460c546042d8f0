/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ingest

import (
	"fmt"
	"strings"
	"time"
)

// RoundTiming is when a Swiss round actually ran. Zero times are unknown.
type RoundTiming struct {
	Number int
	Start  time.Time
	End    time.Time
}

// Schedule returns the timings of the completed rounds followed by the
// round in progress.
func (e *Event) Schedule() ([]RoundTiming, error) {
	rounds := e.CompletedRounds()
	if current := e.Current(); current != nil {
		rounds = append(rounds, *current)
	}

	ret := make([]RoundTiming, 0, len(rounds))
	for _, round := range rounds {
		start, end, err := round.Times()
		if err != nil {
			return nil, err
		}
		ret = append(ret, RoundTiming{Number: round.Number, Start: start,
			End: end})
	}
	return ret, nil
}

// FormatSchedule renders one line per round, in UTC.
func FormatSchedule(timings []RoundTiming) string {
	var sb strings.Builder
	for _, rt := range timings {
		sb.WriteString(fmt.Sprintf("Round %v: ", rt.Number))
		switch {
		case rt.Start.IsZero():
			sb.WriteString("not started\n")
		case rt.End.IsZero():
			sb.WriteString(fmt.Sprintf("started %v, in progress\n",
				rt.Start.UTC().Format("2006-01-02 15:04 MST")))
		default:
			sb.WriteString(fmt.Sprintf("started %v, finished %v (%v)\n",
				rt.Start.UTC().Format("2006-01-02 15:04 MST"),
				rt.End.UTC().Format("15:04 MST"),
				rt.End.Sub(rt.Start).Round(time.Minute)))
		}
	}
	return sb.String()
}
