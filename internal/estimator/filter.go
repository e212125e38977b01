// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package estimator

import (
	"math"

	"github.com/tomtom215/rtcast/internal/stats"
)

// Phase is the state of a Filter, as seen after a call to Next.
type Phase int

const (
	// PhaseWarmup is the state before the first estimate.
	PhaseWarmup Phase = iota
	// PhaseSteady follows a day inside its predictive interval, or one
	// without a predictive.
	PhaseSteady
	// PhaseAnomalous follows a day outside its predictive interval, which
	// was then annealed.
	PhaseAnomalous
)

func (p Phase) String() string {
	switch p {
	case PhaseWarmup:
		return "WARMUP"
	case PhaseSteady:
		return "STEADY"
	case PhaseAnomalous:
		return "ANOMALOUS"
	default:
		return "UNKNOWN"
	}
}

// warmupDays is the number of incidence days consumed before the first estimate.
const warmupDays = 2

// Step is the outcome of one filter day past warmup.
type Step struct {
	// Phase is PhaseAnomalous when the day was annealed, else PhaseSteady.
	Phase Phase

	NewCases float64
	Rt       float64
	Lower    float64
	Upper    float64

	PredMean   float64
	PredLower  float64
	PredUpper  float64
	Degenerate bool

	// Anneal is set when the observation fell outside the predictive interval.
	Anneal *Anneal
}

// Anneal describes one run of the annealing sub-loop.
type Anneal struct {
	// Predictive bounds before and after annealing.
	Lower         float64
	Upper         float64
	AbsorbedLower float64
	AbsorbedUpper float64

	Iterations int
	Converged  bool
}

// Filter is the per-location sequential estimator. A Filter is not safe
// for concurrent use; each location gets its own.
type Filter struct {
	params Params
	belief Belief
	phase  Phase
	days   int
	prev   float64
}

// NewFilter returns a filter at the prior belief. params must already be valid.
func NewFilter(params Params) *Filter {
	return &Filter{
		params: params,
		belief: Belief{Alpha: params.PriorAlpha, Beta: params.PriorBeta},
		phase:  PhaseWarmup,
	}
}

// Belief returns the current belief.
func (f *Filter) Belief() Belief { return f.belief }

// Phase returns the phase after the last call to Next. It stays
// PhaseAnomalous until the next day is consumed.
func (f *Filter) Phase() Phase { return f.phase }

// Next consumes one day of incidence. It returns false while warming up.
// Negative and NaN counts are read as 0.
func (f *Filter) Next(newCases float64) (Step, bool) {
	if !(newCases > 0) {
		newCases = 0
	}
	old := f.prev
	f.prev = newCases
	f.days++

	if f.days <= warmupDays {
		return Step{}, false
	}
	f.phase = PhaseSteady
	st := f.step(newCases, old)
	st.Phase = f.phase
	return st, true
}

// step runs the update, the predictive check and annealing for one day.
// The returned Step is only final once annealing has finished, so callers
// never see a record whose bounds are later rewritten.
func (f *Filter) step(newCases, oldCases float64) Step {
	ci, ip := f.params.CI, f.params.InfectiousPeriod

	f.belief = f.belief.Update(newCases, oldCases)
	s := Step{NewCases: newCases, Rt: f.belief.Rt(ip)}
	s.Lower, s.Upper = f.belief.Interval(ci, ip)

	if newCases == 0 || oldCases == 0 {
		s.Degenerate = true
		s.pin()
		return s
	}

	r, p := f.belief.Predictive(oldCases)
	s.PredMean = stats.NegBinomMean(r, p)
	s.PredLower = stats.NegBinomQuantile(1-ci, r, p)
	s.PredUpper = stats.NegBinomQuantile(ci, r, p)
	if s.PredLower == 0 && s.PredUpper == 0 {
		s.PredUpper = 1
	}

	if !outside(newCases, s.PredLower, s.PredUpper) {
		s.pin()
		return s
	}

	f.phase = PhaseAnomalous
	a := f.anneal(newCases, r, p)
	a.Lower, a.Upper = s.PredLower, s.PredUpper
	if a.Iterations == 0 {
		a.AbsorbedLower, a.AbsorbedUpper = a.Lower, a.Upper
	}
	s.Anneal = &a.Anneal

	f.belief = Belief{Alpha: a.r, Beta: a.p / (1 - a.p) * oldCases}
	s.Lower, s.Upper = f.belief.Interval(ci, ip)
	s.pin()
	return s
}

// annealState carries the widened predictive out of the sub-loop.
type annealState struct {
	Anneal
	r, p float64
}

// anneal inflates the predictive variance at constant mean until newCases
// falls inside the predictive interval. Each step shrinks p by the decay
// factor and rescales r so that r(1-p)/p is preserved.
//
// Past some point further decay concentrates the predictive on 0 and the
// upper bound shrinks again. When the observation is not absorbed, the
// state with the largest upper bound is committed: the loop stops as soon
// as the upper bound falls below that peak, or at the iteration cap.
// Iterations counts the decay steps applied to the committed state.
func (f *Filter) anneal(newCases, r, p float64) annealState {
	ci, decay := f.params.CI, f.params.AnnealDecay
	st := annealState{r: r, p: p}
	st.AbsorbedLower, st.AbsorbedUpper = math.NaN(), math.NaN()

	for step := 1; step <= f.params.MaxAnnealIterations; step++ {
		p2 := decay * st.p
		r2 := st.r * (p2 / st.p) * ((1 - st.p) / (1 - p2))
		if !stats.ValidNegBinom(r2, p2) {
			break
		}
		lo := stats.NegBinomQuantile(1-ci, r2, p2)
		hi := stats.NegBinomQuantile(ci, r2, p2)
		if math.IsNaN(lo) || math.IsNaN(hi) {
			break
		}
		if st.Iterations > 0 && hi < st.AbsorbedUpper {
			break
		}

		st.r, st.p = r2, p2
		st.AbsorbedLower, st.AbsorbedUpper = lo, hi
		st.Iterations = step
		if !outside(newCases, lo, hi) {
			st.Converged = true
			break
		}
	}

	return st
}

func outside(x, lo, hi float64) bool {
	return x < lo || x > hi
}

// pin keeps the interval around the point estimate. A strongly skewed
// widened Gamma can put a quantile on the wrong side of its mean.
func (s *Step) pin() {
	if s.Lower > s.Rt {
		s.Lower = s.Rt
	}
	if s.Upper < s.Rt {
		s.Upper = s.Rt
	}
}
