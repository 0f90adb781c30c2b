package types

import "context"

type Engine interface {
	/**
	 * Execute runs nodes in dependency-ordered waves until none is pending.
	 * The returned error is only set when the input is rejected before the
	 * first wave (see IsValidationError) or the engine is closed. Node
	 * failures are reported through ExecutionReport.
	 */
	Execute(ctx context.Context, nodes []*Node, opts ...ExecuteOption) (*ExecutionReport, error)

	/**
	 * Visualize returns the nodes grouped by dependency level, one line per level.
	 * It is advisory only and fails on a cyclic graph.
	 */
	Visualize(nodes []*Node) (string, error)
	// RenderDOT renders the nodes as a graphviz digraph, colored by the report when it is not nil.
	RenderDOT(nodes []*Node, report *ExecutionReport) (string, error)

	GetStats() Stats

	GetExecution(ctx context.Context, executionID string) (*ExecutionRecord, error)
	ListExecutions(ctx context.Context) ([]string, error)
	RenderExecution(ctx context.Context, executionID string) (string, error)

	Close(ctx context.Context) error
}
