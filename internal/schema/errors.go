package schema

import "fmt"

// SchemaError reports malformed or empty column input to the mapper. It is
// unrecoverable for the call that produced it; callers surface it and do not
// retry.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "schema error: " + e.Reason
}

func schemaErrorf(format string, args ...interface{}) *SchemaError {
	return &SchemaError{Reason: fmt.Sprintf(format, args...)}
}
