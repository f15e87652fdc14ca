package query

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks a request missing required fields. No connection
	// is attempted.
	ErrValidation = errors.New("validation failed")

	// ErrParameterParse marks parameter text that is not a JSON object of
	// scalar values.
	ErrParameterParse = errors.New("invalid parameters")

	// ErrConnection wraps failures opening the database connection.
	ErrConnection = errors.New("connection failed")

	// ErrExecution wraps engine errors raised while running the statement.
	ErrExecution = errors.New("execution failed")
)

// ValidationError lists the required fields a request left empty.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "Parâmetros obrigatórios faltando: " + strings.Join(e.Missing, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ErrorContext carries what a caller needs to reproduce a failed statement.
type ErrorContext struct {
	Message     string
	DebugSQL    string
	OriginalSQL string
	Params      map[string]any
}

// ExecutionError is a connection or execution failure decorated with the
// statement that caused it. Kind is ErrConnection or ErrExecution.
type ExecutionError struct {
	Kind    error
	Err     error
	Context ErrorContext
}

func (e *ExecutionError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Details is the error prefixed with its failure class.
func (e *ExecutionError) Details() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func newExecutionError(kind, err error, stmt Statement) *ExecutionError {
	return &ExecutionError{
		Kind: kind,
		Err:  err,
		Context: ErrorContext{
			Message:     err.Error(),
			DebugSQL:    DebugSQL(stmt.SQL, stmt.Params),
			OriginalSQL: stmt.SQL,
			Params:      stmt.Params,
		},
	}
}
