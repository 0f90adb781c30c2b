package types

import (
	"context"

	"github.com/juju/errors"
)

type StatusType int32

const (
	None    StatusType = 0
	Pending StatusType = 1
	Running StatusType = 2
	Success StatusType = 3
	Failed  StatusType = 4
	Skipped StatusType = 5
)

var statusNames = map[StatusType]string{
	None:    "none",
	Pending: "pending",
	Running: "running",
	Success: "success",
	Failed:  "failed",
	Skipped: "skipped",
}

func (s StatusType) String() string {
	if name, exists := statusNames[s]; exists {
		return name
	}
	return "unknown"
}

func (s StatusType) IsTerminal() bool {
	return s == Success || s == Failed || s == Skipped
}

/**
 * CanTransitionTo reports whether a node may move from s to next.
 * Pending -> Running -> Success|Failed, Pending -> Skipped (cascade)
 * and Pending -> Failed (deadlock). Nothing leaves a terminal status.
 */
func (s StatusType) CanTransitionTo(next StatusType) bool {
	switch s {
	case Pending:
		return next == Running || next == Skipped || next == Failed
	case Running:
		return next == Success || next == Failed
	default:
		return false
	}
}

func (s StatusType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *StatusType) UnmarshalText(b []byte) error {
	for status, name := range statusNames {
		if name == string(b) {
			*s = status
			return nil
		}
	}
	return errors.NotValidf("status %q", string(b))
}

// Context is handed to every node body.
type Context interface {
	context.Context

	GetExecutionID() string
	GetNodeID() string
	GetMetadata() Metadata
}
