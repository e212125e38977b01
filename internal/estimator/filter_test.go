// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package estimator

import (
	"math"
	"testing"

	"github.com/tomtom215/rtcast/internal/stats"
)

// steadyFilter returns a filter past warmup with the given belief and
// previous day's cases.
func steadyFilter(p Params, b Belief, prev float64) *Filter {
	f := NewFilter(p)
	f.belief = b
	f.prev = prev
	f.days = warmupDays
	f.phase = PhaseSteady
	return f
}

func TestFilter_Warmup(t *testing.T) {
	t.Parallel()

	f := NewFilter(DefaultParams())
	for i := 0; i < warmupDays; i++ {
		if _, ok := f.Next(10); ok {
			t.Fatalf("day %d produced a step during warmup", i)
		}
		if f.Phase() != PhaseWarmup {
			t.Fatalf("phase = %s, want WARMUP", f.Phase())
		}
	}
	if f.Belief() != (Belief{Alpha: 3, Beta: 2}) {
		t.Errorf("warmup changed the belief: %+v", f.Belief())
	}
	if _, ok := f.Next(10); !ok {
		t.Fatal("expected a step after warmup")
	}
	if f.Phase() != PhaseSteady {
		t.Errorf("phase = %s, want STEADY", f.Phase())
	}
}

func TestFilter_UpdateIsConjugate(t *testing.T) {
	t.Parallel()

	f := steadyFilter(DefaultParams(), Belief{Alpha: 50, Beta: 40}, 20)
	s, _ := f.Next(25)

	if f.Belief() != (Belief{Alpha: 75, Beta: 60}) {
		t.Errorf("belief = %+v, want {75 60}", f.Belief())
	}
	want := 1 + 4.5*math.Log(75.0/60.0)
	if math.Abs(s.Rt-want) > 1e-12 {
		t.Errorf("Rt = %v, want %v", s.Rt, want)
	}
	if s.Anneal != nil {
		t.Errorf("in-range observation annealed: %+v", s.Anneal)
	}
	if !(s.PredLower <= 25 && 25 <= s.PredUpper) {
		t.Errorf("25 outside predictive [%v, %v]", s.PredLower, s.PredUpper)
	}
}

func TestFilter_AnnealLeavesPointEstimate(t *testing.T) {
	t.Parallel()

	f := steadyFilter(DefaultParams(), Belief{Alpha: 100, Beta: 100}, 100)
	s, ok := f.Next(400)
	if !ok {
		t.Fatal("expected a step")
	}
	if s.Anneal == nil {
		t.Fatal("400 against a predictive mean near 100 should anneal")
	}

	want := Belief{Alpha: 500, Beta: 200}.Rt(4.5)
	if s.Rt != want {
		t.Errorf("Rt = %v, want %v (unchanged by annealing)", s.Rt, want)
	}
	if f.Belief() == (Belief{Alpha: 500, Beta: 200}) {
		t.Error("belief was not replaced after annealing")
	}
	if s.Anneal.Iterations == 0 {
		t.Error("expected at least one annealing iteration")
	}
	if !(s.Lower <= s.Rt && s.Rt <= s.Upper) {
		t.Errorf("bounds out of order: %v <= %v <= %v", s.Lower, s.Rt, s.Upper)
	}
	if s.Phase != PhaseAnomalous || f.Phase() != PhaseAnomalous {
		t.Errorf("phase = %s/%s, want ANOMALOUS on the annealed day", s.Phase, f.Phase())
	}

	next, _ := f.Next(0)
	if next.Phase != PhaseSteady || f.Phase() != PhaseSteady {
		t.Errorf("phase = %s/%s, want STEADY on the following day", next.Phase, f.Phase())
	}
}

func TestFilter_AnnealPreservesPredictiveMean(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.MaxAnnealIterations = 10
	f := steadyFilter(p, Belief{Alpha: 100, Beta: 100}, 100)

	r, prob := Belief{Alpha: 100, Beta: 100}.Update(1000, 100).Predictive(100)
	before := r * (1 - prob) / prob

	st := f.anneal(1000, r, prob)
	after := st.r * (1 - st.p) / st.p
	if math.Abs(after-before)/before > 1e-9 {
		t.Errorf("predictive mean moved from %v to %v", before, after)
	}
	if st.Iterations != 10 || st.Converged {
		t.Errorf("got %d iterations converged=%v, want 10 and false", st.Iterations, st.Converged)
	}
}

func TestFilter_AnnealCommitsWidestPredictive(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	f := steadyFilter(p, Belief{Alpha: 100, Beta: 100}, 100)

	r, prob := Belief{Alpha: 100, Beta: 100}.Update(1000, 100).Predictive(100)
	upper := stats.NegBinomQuantile(p.CI, r, prob)

	// Far beyond anything the widened predictive can reach.
	st := f.anneal(1e7, r, prob)
	if st.Converged {
		t.Fatalf("1e7 absorbed after %d iterations", st.Iterations)
	}
	if st.Iterations == 0 || st.Iterations >= p.MaxAnnealIterations {
		t.Errorf("iterations = %d, want the upper-bound peak before the cap", st.Iterations)
	}
	if !(st.AbsorbedUpper > upper) {
		t.Errorf("absorbed upper %v not wider than original %v", st.AbsorbedUpper, upper)
	}
	if st.AbsorbedLower > stats.NegBinomQuantile(1-p.CI, r, prob) {
		t.Errorf("absorbed lower %v above original lower", st.AbsorbedLower)
	}

	// One more decay step narrows the upper bound again.
	p2 := p.AnnealDecay * st.p
	r2 := st.r * (p2 / st.p) * ((1 - st.p) / (1 - p2))
	if next := stats.NegBinomQuantile(p.CI, r2, p2); next >= st.AbsorbedUpper {
		t.Errorf("upper after the committed state = %v, want below %v", next, st.AbsorbedUpper)
	}
}

func TestFilter_NegativeInputIsZero(t *testing.T) {
	t.Parallel()

	f := steadyFilter(DefaultParams(), Belief{Alpha: 10, Beta: 10}, 5)
	s, _ := f.Next(math.NaN())
	if s.NewCases != 0 || !s.Degenerate {
		t.Errorf("NaN input gave %+v, want zero degenerate step", s)
	}
}

func TestPhaseString(t *testing.T) {
	t.Parallel()

	for p, want := range map[Phase]string{
		PhaseWarmup:    "WARMUP",
		PhaseSteady:    "STEADY",
		PhaseAnomalous: "ANOMALOUS",
		Phase(9):       "UNKNOWN",
	} {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), got, want)
		}
	}
}

func TestBeliefInterval(t *testing.T) {
	t.Parallel()

	b := Belief{Alpha: 203, Beta: 202}
	lo, hi := b.Interval(0.95, 4.5)
	rt := b.Rt(4.5)
	if !(lo < rt && rt < hi) {
		t.Errorf("expected %v < %v < %v", lo, rt, hi)
	}

	// A collapsing belief clamps to 0 instead of going negative.
	if got := (Belief{Alpha: 1, Beta: 1000}).Rt(4.5); got != 0 {
		t.Errorf("Rt = %v, want 0", got)
	}
}
