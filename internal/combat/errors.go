package combat

import (
	"errors"
	"fmt"
)

// IllegalAssignmentError reports a block assignment that violates a
// legality rule. It is a recoverable outcome: the search simply discards
// the assignment.
type IllegalAssignmentError struct {
	Reason string
}

func (e *IllegalAssignmentError) Error() string {
	return "illegal block assignment: " + e.Reason
}

func illegalf(format string, args ...any) error {
	return &IllegalAssignmentError{Reason: fmt.Sprintf(format, args...)}
}

// IsIllegalAssignment reports whether err is (or wraps) an
// IllegalAssignmentError.
func IsIllegalAssignment(err error) bool {
	var target *IllegalAssignmentError
	return errors.As(err, &target)
}

// ContractError reports malformed input that cannot arise from a legal
// game state: a duplicate creature reference, negative stats, a creature
// attacking and blocking at once. It indicates a caller defect, not a
// game-rules case.
type ContractError struct {
	Reason string
}

func (e *ContractError) Error() string {
	return "combat contract violation: " + e.Reason
}

func contractf(format string, args ...any) error {
	return &ContractError{Reason: fmt.Sprintf(format, args...)}
}

// IsContractViolation reports whether err is (or wraps) a ContractError.
func IsContractViolation(err error) bool {
	var target *ContractError
	return errors.As(err, &target)
}
