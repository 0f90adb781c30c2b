package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
)

const (
	SkippedMessage  = "skipped due to previous failure"
	DeadlockMessage = "circular dependency or deadlock"
)

var (
	_ error = &DeadlockError{}
	_ error = &SkippedError{}
	_ error = &PanicError{}
)

func newBaseErr(otherErr error) *baseError {
	return &baseError{unwrapErr(otherErr)}
}

func unwrapErr(err error) error {
	if err == nil {
		return nil
	}
	if ue, ok := err.(wrappedErr); ok {
		return unwrapErr(ue.UnwrapLocal())
	}
	return err
}

type wrappedErr interface {
	UnwrapLocal() error
}

type baseError struct {
	BaseErr error
}

func (e *baseError) Error() string {
	return e.BaseErr.Error()
}

func (e *baseError) UnwrapLocal() error {
	return e.BaseErr
}

/**
 * DeadlockError is produced by the engine itself when a pending node
 * can never become ready. Unsatisfied maps each blocking dependency
 * to the state that blocks it: missing, pending, failed or skipped.
 */
type DeadlockError struct {
	*baseError
	NodeID      string
	Unsatisfied map[string]string
}

func NewDeadlockError(nodeID string, unsatisfied map[string]string) error {
	deps := make([]string, 0, len(unsatisfied))
	for dep, reason := range unsatisfied {
		deps = append(deps, fmt.Sprintf("%s (%s)", dep, reason))
	}
	sort.Strings(deps)
	err := errors.Errorf("%s: node %q can never become ready, waiting on [%s]",
		DeadlockMessage, nodeID, strings.Join(deps, ", "))
	return &DeadlockError{baseError: newBaseErr(err), NodeID: nodeID, Unsatisfied: unsatisfied}
}

type SkippedError struct {
	*baseError
	NodeID string
}

func NewSkippedError(nodeID string) error {
	return &SkippedError{baseError: newBaseErr(errors.New(SkippedMessage)), NodeID: nodeID}
}

type PanicError struct {
	*baseError
	NodeID string
	Value  any
}

func NewPanicError(nodeID string, value any) error {
	return &PanicError{baseError: newBaseErr(errors.Errorf("panic on %s: %v", nodeID, value)), NodeID: nodeID, Value: value}
}

func IsDeadlock(err error) bool {
	var de *DeadlockError
	return errors.As(err, &de)
}

func IsSkipped(err error) bool {
	var se *SkippedError
	return errors.As(err, &se)
}

func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

// IsValidationError reports whether Execute rejected its input before any wave started.
func IsValidationError(err error) bool {
	return errors.Is(err, errors.NotValid) || errors.Is(err, errors.AlreadyExists)
}
