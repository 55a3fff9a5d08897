package forms

import "errors"

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrReadOnlyField = errors.New("field is derived and cannot be edited")
	ErrSlotIndex     = errors.New("dependent slot index out of range")
	ErrInvalidValue  = errors.New("value cannot be parsed")
)

// ValidationError lists every problem found on a record, keyed by field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		for field, problem := range e.Fields {
			return field + ": " + problem
		}
	}
	return "client record is invalid"
}

func (e *ValidationError) add(field, problem string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = problem
}
