package domain

import "time"

// ScheduleNode holds the CPM-derived fields for one process. Never stored
// on the Process itself — produced fresh by the CPM engine (C4) for a
// given graph.
type ScheduleNode struct {
	ProcessID string

	ES, EF time.Time
	LS, LF time.Time

	// DurationEff is the effective duration in business days, which may
	// differ from the record's DurationDays when a done_date clamp applies.
	DurationEff int

	TotalFloat int // business days; 0 means on the critical path

	// PinOverridesDependency is set when start_earliest_start pinned ES
	// earlier than max(EF(predecessors)) would allow: the schedule is feasible to compute but may represent
	// an infeasible plan.
	PinOverridesDependency bool
}

// Schedule is the result of a CPM run over a (possibly restricted) graph.
type Schedule struct {
	ProjectStart time.Time
	ProjectEnd   time.Time

	Nodes map[string]ScheduleNode

	// CriticalPath lists process ids with TotalFloat == 0 ordered by ES
	// ascending (deterministic mode), or ids whose mean total float is
	// below 0.5 ordered by mean total float ascending (stochastic mode,
	// where TotalFloat is that mean rounded to the nearest integer).
	CriticalPath []string

	// Unavailable is set when a requested terminal pid was absent from the
	// as-of graph.
	Unavailable bool

	// Stochastic holds the Monte Carlo per-node distributions; nil in
	// deterministic mode.
	Stochastic *StochasticResult

	// Warnings is the non-fatal diagnostic set accumulated during
	// scheduling (PinOverridesDependency, terminal_unavailable).
	Warnings []Warning
}

// StochasticResult carries the empirical per-node distributions produced
// by Monte Carlo scheduling.
type StochasticResult struct {
	K    int
	Seed int64

	// Particles[i] is the per-node schedule for particle i, enabling
	// callers to recompute arbitrary statistics beyond the summary below.
	Particles []map[string]ScheduleNode

	// Summary holds the empirical mean/stddev per node per field, keyed by
	// process id.
	Summary map[string]NodeDistribution
}

// NodeDistribution summarizes one node's field across all particles.
type NodeDistribution struct {
	MeanES, MeanEF, MeanLS, MeanLF time.Duration // offsets from ProjectStart, for easy averaging
	MeanTotalFloat                 float64
	StdDevTotalFloat               float64
}

// Warning is a non-fatal diagnostic attached to a Schedule.
type Warning struct {
	Code      string
	ProcessID string
	Message   string
}
