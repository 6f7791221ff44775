package contract

import (
	"context"
	"fmt"
	"maps"

	"github.com/rs/zerolog"
)

// Dispatcher is the single object a contract table compiles into. It owns
// the immutable endpoint registry, the optional shared configuration value,
// and the three lifecycle channels.
//
// Dispatcher is safe for concurrent use. Each call assembles its own
// envelope; the only shared mutable state is the subscriber lists, which
// OnCall/OnOk/OnFail and their unsubscribe closures may touch from any
// goroutine, including from inside a running emission.
type Dispatcher struct {
	endpoints map[string]Endpoint
	config    any
	log       zerolog.Logger

	preCall  *hookSet[*Envelope]
	postOK   *hookSet[OkEvent]
	postFail *hookSet[FailEvent]
}

// Option configures a Dispatcher at construction time.
type Option func(*Dispatcher)

// WithConfig attaches an endpoint-independent configuration value (base URL,
// timeout, headers) to every envelope. The dispatcher stores the reference
// as given and never copies it: a caller that mutates the value observes the
// mutation on the next call. That aliasing is deliberate.
func WithConfig(cfg any) Option {
	return func(d *Dispatcher) {
		d.config = cfg
	}
}

// WithLogger sets the logger used to report recovered subscriber panics.
// The default is a no-op logger, so the library stays silent unless asked.
func WithLogger(log zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// New compiles a contract table into a Dispatcher. The table is copied;
// mutating the caller's map afterwards has no effect on the dispatcher.
//
// Example:
//
//	d := contract.New(map[string]contract.Endpoint{
//	    "user/get": {
//	        Resolve: getUser,
//	        Schemas: &contract.Schemas{PathParams: userParamsSchema},
//	    },
//	}, contract.WithConfig(cfg))
func New(endpoints map[string]Endpoint, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		endpoints: maps.Clone(endpoints),
		log:       zerolog.Nop(),
	}
	if d.endpoints == nil {
		d.endpoints = make(map[string]Endpoint)
	}
	for _, opt := range opts {
		opt(d)
	}
	d.preCall = newHookSet[*Envelope]("call", &d.log)
	d.postOK = newHookSet[OkEvent]("ok", &d.log)
	d.postFail = newHookSet[FailEvent]("fail", &d.log)
	return d
}

// Config returns the shared configuration value, or nil.
func (d *Dispatcher) Config() any { return d.config }

// Call runs one endpoint end to end:
//
//  1. resolve the endpoint from the registry;
//  2. assemble the envelope from the slots the caller actually passed, plus
//     the configuration value when one exists;
//  3. validate present input slots in fixed order (pathParams, searchParams,
//     payload, extra), failing fast on the first rejection;
//  4. emit pre-call notifications;
//  5. invoke the resolver;
//  6. validate the result against the DTO schema;
//  7. emit post-success notifications and return the result.
//
// Any failure in steps 1–6 — a missing registry entry included — takes the
// same exit: post-failure notifications fire once with the original failure,
// then Call returns that failure unchanged. Subscriber panics in any channel
// are logged and discarded; they never mask the call's own outcome.
func (d *Dispatcher) Call(ctx context.Context, name string, in *Input) (any, error) {
	env := &Envelope{}

	ep, ok := d.endpoints[name]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownEndpoint, name)
		d.postFail.emit(name, FailEvent{Envelope: env, Err: err})
		return nil, err
	}
	if ep.Resolve == nil {
		err := fmt.Errorf("%w: %s", ErrNoResolver, name)
		d.postFail.emit(name, FailEvent{Envelope: env, Err: err})
		return nil, err
	}

	d.assemble(env, in)

	for _, slot := range inputSlots {
		v := env.slot(slot)
		if v == nil {
			continue
		}
		if err := checkSlot(ep.Schemas, slot, v); err != nil {
			d.postFail.emit(name, FailEvent{Envelope: env, Err: err})
			return nil, err
		}
	}

	d.preCall.emit(name, env)

	out, err := resolve(ctx, ep.Resolve, env)
	if err != nil {
		d.postFail.emit(name, FailEvent{Envelope: env, Err: err})
		return nil, err
	}

	// The resolver already ran; a DTO rejection still fails the call.
	if err := checkSlot(ep.Schemas, SlotDTO, out); err != nil {
		d.postFail.emit(name, FailEvent{Envelope: env, Err: err})
		return nil, err
	}

	d.postOK.emit(name, OkEvent{Envelope: env, Result: out})
	return out, nil
}

// Result is SafeCall's outcome: OK with a value, or a failure. Exactly one
// of Value and Err is meaningful.
type Result struct {
	OK    bool
	Value any
	Err   error
}

// SafeCall is the non-throwing variant of Call: every failure, including a
// panic anywhere in the call sequence, comes back as a Result instead of
// propagating.
func (d *Dispatcher) SafeCall(ctx context.Context, name string, in *Input) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: &PanicError{Value: r}}
		}
	}()

	out, err := d.Call(ctx, name, in)
	if err != nil {
		return Result{Err: err}
	}
	return Result{OK: true, Value: out}
}

// assemble copies the caller-supplied slots into the envelope and attaches
// the shared config reference. Absent slots stay nil; nothing is ever
// written for a slot the caller did not pass.
func (d *Dispatcher) assemble(env *Envelope, in *Input) {
	if in != nil {
		env.PathParams = in.PathParams
		env.SearchParams = in.SearchParams
		env.Payload = in.Payload
		env.Extra = in.Extra
	}
	if d.config != nil {
		env.Config = d.config
	}
}

// checkSlot runs the validator registered for slot, if any. The validator's
// return value is discarded: the dispatch path checks, it does not
// transform.
func checkSlot(sc *Schemas, slot Slot, v any) error {
	s := sc.slot(slot)
	if s == nil {
		return nil
	}
	_, err := s.Check(v)
	return err
}

// resolve invokes the resolver with panic containment, so a panicking
// resolver is indistinguishable from one returning an error and the
// post-failure channel still fires exactly once.
func resolve(ctx context.Context, r Resolver, env *Envelope) (out any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, &PanicError{Value: rec}
		}
	}()
	return r(ctx, env)
}
