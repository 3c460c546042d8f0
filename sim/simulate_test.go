/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mikeb26/swiss-topcut/swiss"
)

func newField(t *testing.T, n, minRound int) *swiss.State {
	t.Helper()
	var players []*swiss.Player
	for i := 1; i <= n; i++ {
		players = append(players, &swiss.Player{
			PersonaID: fmt.Sprintf("p%02d", i),
			FirstName: "Player",
			LastName:  fmt.Sprintf("%02d", i),
		})
	}
	s, err := swiss.NewState(players, minRound)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return s
}

func repeat(r swiss.Result, n int) []swiss.Result {
	ret := make([]swiss.Result, n)
	for i := range ret {
		ret[i] = r
	}
	return ret
}

func TestRestOfEventDeterministic(t *testing.T) {
	s := newField(t, 12, 4)
	results := []swiss.Result{swiss.ResultWin, swiss.ResultLoss,
		swiss.ResultWin, swiss.ResultDraw}

	var got []float64
	for i := 0; i < 2; i++ {
		sim := New(WithTrials(300), WithWorkers(4), WithSeed(42))
		pct, err := sim.RestOfEvent(context.Background(), s, "p03", results)
		if err != nil {
			t.Fatalf("RestOfEvent: %v", err)
		}
		if pct < 0 || pct > 100 {
			t.Fatalf("percentage %v out of range", pct)
		}
		got = append(got, pct)
	}
	if got[0] != got[1] {
		t.Errorf("same seed gave %v and %v", got[0], got[1])
	}
}

func TestRestOfEventExtremes(t *testing.T) {
	s := newField(t, 16, 4)
	sim := New(WithTrials(200), WithWorkers(3), WithSeed(7))

	pct, err := sim.RestOfEvent(context.Background(), s, "p05",
		repeat(swiss.ResultWin, 4))
	if err != nil {
		t.Fatalf("RestOfEvent win-out: %v", err)
	}
	if pct != 100 {
		t.Errorf("winning out made top cut %v%% of the time", pct)
	}

	pct, err = sim.RestOfEvent(context.Background(), s, "p05",
		repeat(swiss.ResultLoss, 4))
	if err != nil {
		t.Fatalf("RestOfEvent lose-out: %v", err)
	}
	if pct != 0 {
		t.Errorf("losing out made top cut %v%% of the time", pct)
	}
}

func TestRestOfEventRejectsBadResults(t *testing.T) {
	s := newField(t, 8, 3)
	sim := New(WithTrials(10))
	cases := [][]swiss.Result{
		nil,
		repeat(swiss.ResultWin, 2),
		repeat(swiss.ResultWin, 4),
		{swiss.ResultWin, "garbage", swiss.ResultWin},
	}
	for _, results := range cases {
		_, err := sim.RestOfEvent(context.Background(), s, "p01", results)
		if !errors.Is(err, swiss.ErrInvalidArgument) {
			t.Errorf("results %v: err = %v", results, err)
		}
	}

	_, err := sim.RestOfEvent(context.Background(), s, "nobody",
		repeat(swiss.ResultWin, 3))
	if !errors.Is(err, swiss.ErrNotFound) {
		t.Errorf("unknown target: err = %v", err)
	}
}

func TestRejectsBadRoundCounter(t *testing.T) {
	sim := New(WithTrials(10), WithWorkers(2), WithSeed(3))
	for _, round := range []int{-1, 4} {
		s := newField(t, 8, 3)
		s.CurrentRound = round

		_, err := sim.RestOfEvent(context.Background(), s, "p01",
			repeat(swiss.ResultWin, 3))
		if !errors.Is(err, swiss.ErrInconsistentState) {
			t.Errorf("RestOfEvent at round %v: err = %v", round, err)
		}
		_, err = sim.Odds(context.Background(), s, "p01", nil)
		if !errors.Is(err, swiss.ErrInconsistentState) {
			t.Errorf("Odds at round %v: err = %v", round, err)
		}
	}
}

func TestProgress(t *testing.T) {
	var mu sync.Mutex
	var calls []float64
	sim := New(WithTrials(1000), WithWorkers(4), WithSeed(3),
		WithProgressEvery(100), WithProgress(func(f float64) {
			mu.Lock()
			calls = append(calls, f)
			mu.Unlock()
		}))

	s := newField(t, 8, 3)
	if _, err := sim.RestOfEvent(context.Background(), s, "p01",
		repeat(swiss.ResultWin, 3)); err != nil {
		t.Fatalf("RestOfEvent: %v", err)
	}

	if len(calls) < 2 {
		t.Fatalf("expected intermediate progress, got %v", calls)
	}
	if calls[len(calls)-1] != 1.0 {
		t.Errorf("last progress %v; want 1.0", calls[len(calls)-1])
	}
	for i, f := range calls[:len(calls)-1] {
		if f <= 0 || f >= 1.0 {
			t.Errorf("intermediate progress %v out of range", f)
		}
		if i > 0 && f <= calls[i-1] {
			t.Errorf("progress went backwards: %v", calls)
		}
	}
}

func TestFailFast(t *testing.T) {
	s := newField(t, 2, 2)
	s.Players["p01"].Opponents = []string{"p02"}
	s.Players["p02"].Opponents = []string{"p01"}

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	finished := false
	sim := New(WithTrials(50), WithWorkers(4), WithMetrics(metrics),
		WithProgress(func(f float64) {
			if f == 1.0 {
				finished = true
			}
		}))

	_, err := sim.RestOfEvent(context.Background(), s, "p01",
		repeat(swiss.ResultWin, 2))
	if !errors.Is(err, swiss.ErrNoLegalPairing) {
		t.Fatalf("err = %v; want ErrNoLegalPairing", err)
	}
	if finished {
		t.Errorf("failed batch reported completion")
	}
	if got := testutil.ToFloat64(
		metrics.failures.WithLabelValues(string(ModeRestOfEvent))); got != 1 {
		t.Errorf("failure counter = %v", got)
	}

	sim = New(WithTrials(50), WithWorkers(4), WithAllowRematches(true))
	if _, err := sim.RestOfEvent(context.Background(), s, "p01",
		repeat(swiss.ResultWin, 2)); err != nil {
		t.Errorf("with rematches allowed: %v", err)
	}
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := New(WithTrials(100), WithWorkers(2))
	_, err := sim.RestOfEvent(ctx, newField(t, 8, 3), "p01",
		repeat(swiss.ResultWin, 3))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v; want context.Canceled", err)
	}
}

func TestLastRound(t *testing.T) {
	// one round of 16: every winner makes the cut and no loser does
	s := newField(t, 16, 1)
	sim := New(WithTrials(200), WithWorkers(2), WithSeed(11))
	odds, err := sim.LastRound(context.Background(), s, "p09")
	if err != nil {
		t.Fatalf("LastRound: %v", err)
	}
	if odds.Opponent == nil || odds.OpponentID == "" {
		t.Fatalf("missing opponent odds: %+v", odds)
	}
	for name, o := range map[string]Outcomes{"target": odds.Target,
		"opponent": *odds.Opponent} {
		if o.Win != 100 || o.Loss != 0 {
			t.Errorf("%v: %+v", name, o)
		}
		if o.Draw < 0 || o.Draw > 100 {
			t.Errorf("%v: draw odds %v", name, o.Draw)
		}
	}
	if len(s.Pairings) != 0 {
		t.Errorf("LastRound paired the caller's state")
	}
}

func TestLastRoundBye(t *testing.T) {
	s := newField(t, 15, 1)
	s.Pairings = []swiss.Pairing{{"p01", swiss.ByeID}}
	for i := 2; i < 16; i += 2 {
		s.Pairings = append(s.Pairings, swiss.Pairing{
			fmt.Sprintf("p%02d", i), fmt.Sprintf("p%02d", i+1)})
	}

	sim := New(WithTrials(50), WithWorkers(2), WithSeed(5))
	odds, err := sim.LastRound(context.Background(), s, "p01")
	if err != nil {
		t.Fatalf("LastRound: %v", err)
	}
	if odds.Opponent != nil || odds.OpponentID != swiss.ByeID {
		t.Errorf("bye produced opponent odds: %+v", odds)
	}
	// the target's own result is ignored when it has the bye
	if odds.Target.Win != 100 || odds.Target.Loss != 100 {
		t.Errorf("bye odds %+v", odds.Target)
	}
}

func TestLastRoundWrongRound(t *testing.T) {
	sim := New(WithTrials(10))
	_, err := sim.LastRound(context.Background(), newField(t, 8, 3), "p01")
	if !errors.Is(err, swiss.ErrInvalidArgument) {
		t.Errorf("err = %v; want ErrInvalidArgument", err)
	}
}

func TestOdds(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	sim := New(WithTrials(40), WithWorkers(2), WithSeed(9),
		WithMetrics(metrics))

	report, err := sim.Odds(context.Background(), newField(t, 8, 1), "p02",
		nil)
	if err != nil {
		t.Fatalf("Odds last round: %v", err)
	}
	if report.Mode != ModeLastRound || report.LastRound == nil {
		t.Errorf("last round report %+v", report)
	}
	if _, err := uuid.Parse(report.RunID); err != nil {
		t.Errorf("RunID %q: %v", report.RunID, err)
	}

	report, err = sim.Odds(context.Background(), newField(t, 8, 3), "p02",
		[]swiss.Result{swiss.ResultLoss})
	if err != nil {
		t.Fatalf("Odds rest of event: %v", err)
	}
	want := []swiss.Result{swiss.ResultLoss, swiss.ResultWin, swiss.ResultWin}
	if report.Mode != ModeRestOfEvent ||
		swiss.FormatResults(report.Predictions) != swiss.FormatResults(want) {
		t.Errorf("rest of event report %+v", report)
	}
	if report.String() == "" {
		t.Errorf("empty report output")
	}

	for _, mode := range []Mode{ModeLastRound, ModeRestOfEvent} {
		if got := testutil.ToFloat64(
			metrics.trials.WithLabelValues(string(mode))); got != 40 {
			t.Errorf("%v trials counter = %v", mode, got)
		}
	}
	if n := testutil.CollectAndCount(metrics.batchDuration); n != 2 {
		t.Errorf("duration series = %v", n)
	}
}
