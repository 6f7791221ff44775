package contract

import "fmt"

// validatable is the interface for value self-validation.
// Compatible with github.com/go-ozzo/ozzo-validation/v4.
type validatable interface {
	Validate() error
}

// CheckFunc is the uniform validator shape the pipeline works with: it
// receives an untyped value and returns a typed (possibly normalized) value
// or an error — ideally a *ValidationError so failures stay structured.
//
// The dispatch path treats validators as pure checks: whatever a CheckFunc
// returns on success is discarded and the original input travels on. The
// returned value exists for external callers (forms, CLIs) that want the
// normalized result.
type CheckFunc func(value any) (any, error)

// Schema adapts one validator function for one slot. Whether a Schema
// carries the original validation-library object is decided here, at
// construction time, rather than probed at use time.
type Schema struct {
	check  CheckFunc
	raw    any
	hasRaw bool
}

// NewSchema wraps a bare validator function.
func NewSchema(fn CheckFunc) *Schema {
	return &Schema{check: fn}
}

// NewSchemaWithRaw wraps a validator function and keeps a reference to the
// library-native schema object it was built from, for reuse outside the
// dispatch pipeline.
func NewSchemaWithRaw(raw any, fn CheckFunc) *Schema {
	return &Schema{check: fn, raw: raw, hasRaw: true}
}

// Check runs the validator. The returned value is the validator's own
// (possibly transformed) result; dispatch-path callers ignore it.
func (s *Schema) Check(value any) (any, error) {
	return s.check(value)
}

// Raw returns the attached library-native schema object, if the Schema was
// built with one.
func (s *Schema) Raw() (any, bool) {
	return s.raw, s.hasRaw
}

// SchemaFor builds a Schema for values of type T. The value must assert to
// T (or be assignable as *T for pointer-receiver Validate methods); when T
// implements Validate() error, the method is run and its error is wrapped
// into a ValidationError.
func SchemaFor[T any]() *Schema {
	return NewSchema(func(value any) (any, error) {
		typed, ok := value.(T)
		if !ok {
			var want T
			return nil, &ValidationError{Issues: []Issue{{
				Message: fmt.Sprintf("expected %T, got %T", want, value),
			}}}
		}

		if v, ok := any(typed).(validatable); ok {
			if err := v.Validate(); err != nil {
				return nil, asValidationError(err)
			}
		} else if v, ok := any(&typed).(validatable); ok {
			if err := v.Validate(); err != nil {
				return nil, asValidationError(err)
			}
		}

		return typed, nil
	})
}

// asValidationError keeps structured failures as-is and folds plain errors
// into a single-issue ValidationError.
func asValidationError(err error) error {
	if verr, ok := err.(*ValidationError); ok {
		return verr
	}
	return &ValidationError{Issues: []Issue{{Message: err.Error()}}}
}

// Schemas is the per-endpoint validator table. Any field may be nil; a nil
// validator makes its slot a pass-through.
type Schemas struct {
	PathParams   *Schema
	SearchParams *Schema
	Payload      *Schema
	Extra        *Schema
	DTO          *Schema
	Error        *Schema
}

// slot returns the validator registered for s, or nil.
func (sc *Schemas) slot(s Slot) *Schema {
	if sc == nil {
		return nil
	}
	switch s {
	case SlotPathParams:
		return sc.PathParams
	case SlotSearchParams:
		return sc.SearchParams
	case SlotPayload:
		return sc.Payload
	case SlotExtra:
		return sc.Extra
	case SlotDTO:
		return sc.DTO
	case SlotError:
		return sc.Error
	}
	return nil
}
