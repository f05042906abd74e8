// Package solver drives the search that turns a validated rota.Config
// into a complete assignment: a constraint-propagation construction
// phase finds a feasible schedule, then a simulated-annealing/tabu
// local-search phase polishes it against the soft objective.
package solver

// Status classifies the terminal outcome of Solve.
type Status string

const (
	// Optimal means a feasible schedule was reached without ever
	// backtracking during construction, the polish phase ran to a
	// plateau (no further improving move found) before its deadline,
	// and the polished schedule passed the hard-rule re-check.
	Optimal Status = "OPTIMAL"
	// Feasible means a schedule was found but the search had to
	// backtrack during construction, or the polish phase ran out of
	// time or iterations before a plateau, or its result failed the
	// hard-rule re-check and the construction schedule was returned.
	Feasible Status = "FEASIBLE"
	// Infeasible means the construction phase exhausted its search
	// tree with zero complete assignments.
	Infeasible Status = "INFEASIBLE"
	// Timeout means the deadline was hit before construction ever
	// produced a single feasible incumbent.
	Timeout Status = "TIMEOUT"
)
