package types

import "time"

type NodeResult struct {
	ID     string
	Status StatusType
	// Value is only meaningful when Status is Success.
	Value any
	Error string
	Err   error `json:"-"`

	StartTime time.Time
	EndTime   time.Time
	// Duration is 0 for nodes that never ran.
	Duration time.Duration
	// Wave is the 0-based wave the node ran in, -1 if it never ran.
	Wave int
}

type ExecutionReport struct {
	ExecutionID string
	Success     bool
	NodeResults map[string]*NodeResult

	StartTime time.Time
	EndTime   time.Time
	// TotalTime is the wall clock of the driver loop.
	TotalTime time.Duration
	// SequentialTime is the sum of every node duration.
	SequentialTime  time.Duration
	ParallelSpeedup float64

	NodesExecuted int
	NodesFailed   int
	NodesSkipped  int

	// Waves lists node ids in the order their waves ran.
	Waves [][]string
}

func (r *ExecutionReport) Result(id string) (*NodeResult, bool) {
	nr, exists := r.NodeResults[id]
	return nr, exists
}

// Stats are cumulative counters owned by one engine instance.
type Stats struct {
	TotalExecutions          int64
	TotalNodesExecuted       int64
	CumulativeParallelTime   time.Duration
	CumulativeSequentialTime time.Duration
	AverageSpeedup           float64
}

// NodeTraceRecord is the persisted outcome of one node. Values are not kept.
type NodeTraceRecord struct {
	ID           string
	Dependencies []string `json:",omitempty"`
	Status       StatusType
	Wave         int
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	Error        string `json:",omitempty"`
}

// ExecutionRecord is the persisted summary of one Execute call.
type ExecutionRecord struct {
	ExecutionID     string
	Success         bool
	StartTime       time.Time
	EndTime         time.Time
	TotalTime       time.Duration
	SequentialTime  time.Duration
	ParallelSpeedup float64
	NodesExecuted   int
	NodesFailed     int
	NodesSkipped    int
	Waves           [][]string `json:",omitempty"`

	Nodes map[string]*NodeTraceRecord `json:"-"`
}
