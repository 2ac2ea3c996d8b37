package MultiRouteOptimizer

import "fmt"

// ValidationError reports malformed or out-of-range input. Message is safe to show callers.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Message
}

// RoutingServiceError reports that no complete distance matrix could be obtained.
type RoutingServiceError struct {
	Err error
}

func (e *RoutingServiceError) Error() string {
	return fmt.Sprintf("routing service: %v", e.Err)
}

func (e *RoutingServiceError) Unwrap() error {
	return e.Err
}

// SolverExecutionError reports a solver that could not be run, failed, or answered
// outside the protocol. Stderr is for operators only.
type SolverExecutionError struct {
	Err    error
	Stderr string
}

func (e *SolverExecutionError) Error() string {
	return fmt.Sprintf("solver execution: %v", e.Err)
}

func (e *SolverExecutionError) Unwrap() error {
	return e.Err
}

// TimeoutError reports a solver run that exceeded its configured time budget.
type TimeoutError struct {
	Err    error
	Stderr string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("solver timeout: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}
