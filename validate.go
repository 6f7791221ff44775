package contract

import "fmt"

// Validate runs the validator registered for (name, slot) against value.
// A slot with no validator is a pass-through. On success the ORIGINAL value
// is returned, never the validator's transformed result: the dispatch-path
// contract is "check, don't transform", and callers that want the normalized
// value should invoke Schema.Check themselves via Schemas.
//
// Using a name absent from the contract table is a programmer error and
// returns a wrapped ErrUnknownEndpoint.
func (d *Dispatcher) Validate(name string, slot Slot, value any) (any, error) {
	ep, ok := d.endpoints[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEndpoint, name)
	}
	if err := checkSlot(ep.Schemas, slot, value); err != nil {
		return nil, err
	}
	return value, nil
}

// CheckPathParams pre-validates a pathParams value for an endpoint without
// dispatching. Identity on success; validation failures come back as-is.
func (d *Dispatcher) CheckPathParams(name string, value any) (any, error) {
	return d.Validate(name, SlotPathParams, value)
}

// CheckSearchParams pre-validates a searchParams value for an endpoint.
func (d *Dispatcher) CheckSearchParams(name string, value any) (any, error) {
	return d.Validate(name, SlotSearchParams, value)
}

// CheckPayload pre-validates a payload value for an endpoint.
func (d *Dispatcher) CheckPayload(name string, value any) (any, error) {
	return d.Validate(name, SlotPayload, value)
}

// CheckExtra pre-validates an extra value for an endpoint.
func (d *Dispatcher) CheckExtra(name string, value any) (any, error) {
	return d.Validate(name, SlotExtra, value)
}

// CheckDTO validates a value against an endpoint's declared success shape.
func (d *Dispatcher) CheckDTO(name string, value any) (any, error) {
	return d.Validate(name, SlotDTO, value)
}

// CheckError validates a value against an endpoint's declared error shape.
func (d *Dispatcher) CheckError(name string, value any) (any, error) {
	return d.Validate(name, SlotError, value)
}

// Schemas returns the validator table declared for an endpoint. The second
// return is false when the endpoint is unknown or declared no validators.
func (d *Dispatcher) Schemas(name string) (*Schemas, bool) {
	ep, ok := d.endpoints[name]
	if !ok || ep.Schemas == nil {
		return nil, false
	}
	return ep.Schemas, true
}

// RawSchemas returns, per slot, the library-native schema objects for the
// subset of an endpoint's validators that carry one. Returns nil when none
// qualify.
func (d *Dispatcher) RawSchemas(name string) map[Slot]any {
	ep, ok := d.endpoints[name]
	if !ok || ep.Schemas == nil {
		return nil
	}

	var out map[Slot]any
	for _, slot := range []Slot{SlotPathParams, SlotSearchParams, SlotPayload, SlotExtra, SlotDTO, SlotError} {
		s := ep.Schemas.slot(slot)
		if s == nil {
			continue
		}
		raw, ok := s.Raw()
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[Slot]any)
		}
		out[slot] = raw
	}
	return out
}
