package filter

import "fmt"

// CompilationError indicates an expression that could not be compiled.
type CompilationError struct {
	Expression string
	Reason     string
	Err        error
}

func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("filter: %s: %q: %v", e.Reason, e.Expression, e.Err)
	}
	return fmt.Sprintf("filter: %s: %q", e.Reason, e.Expression)
}

func (e *CompilationError) Unwrap() error { return e.Err }

// EvaluationError indicates a compiled expression that failed at runtime
// against a particular row.
type EvaluationError struct {
	Expression string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("filter: evaluating %q: %v", e.Expression, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
