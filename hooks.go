package contract

import (
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// OkEvent is delivered to post-success subscribers: the envelope the
// resolver saw plus its validated result.
type OkEvent struct {
	Envelope *Envelope
	Result   any
}

// FailEvent is delivered to post-failure subscribers: however much of the
// envelope was assembled before the failure, plus the original failure.
type FailEvent struct {
	Envelope *Envelope
	Err      error
}

// subscriber pairs a callback with the unforgeable handle its unsubscribe
// closure removes it by.
type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// hookSet is one lifecycle channel: an ordered subscriber list per endpoint.
// The same implementation backs pre-call, post-success, and post-failure;
// the channel name exists only for log diagnostics.
//
// Invariants:
//   - emission visits subscribers in registration order, over a snapshot, so
//     subscribe/unsubscribe during an emit cannot corrupt the loop;
//   - a subscriber panic is recovered, logged, and never stops siblings;
//   - removing the last subscriber for an endpoint deletes the endpoint's
//     entry entirely, so churn cannot accumulate empty slices.
type hookSet[T any] struct {
	channel string
	log     *zerolog.Logger

	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscriber[T]
}

func newHookSet[T any](channel string, log *zerolog.Logger) *hookSet[T] {
	return &hookSet[T]{
		channel: channel,
		log:     log,
		subs:    make(map[string][]subscriber[T]),
	}
}

// subscribe registers fn for endpoint and returns its unsubscribe closure.
// Every call gets a fresh handle, so registering the same function twice
// yields two independent subscriptions.
func (h *hookSet[T]) subscribe(endpoint string, fn func(T)) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs[endpoint] = append(h.subs[endpoint], subscriber[T]{id: id, fn: fn})
	h.mu.Unlock()

	return func() { h.remove(endpoint, id) }
}

// remove drops the subscriber with the given handle. Unknown handles are a
// no-op, which makes unsubscribe closures idempotent.
func (h *hookSet[T]) remove(endpoint string, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, ok := h.subs[endpoint]
	if !ok {
		return
	}
	for i, s := range list {
		if s.id == id {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(h.subs, endpoint)
		return
	}
	h.subs[endpoint] = list
}

// emit delivers v to every current subscriber for endpoint, in registration
// order. Each callback is isolated: a panic is logged with the endpoint and
// channel and the loop continues.
func (h *hookSet[T]) emit(endpoint string, v T) {
	h.mu.RLock()
	list := slices.Clone(h.subs[endpoint])
	h.mu.RUnlock()

	for _, s := range list {
		h.invoke(endpoint, s.fn, v)
	}
}

func (h *hookSet[T]) invoke(endpoint string, fn func(T), v T) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().
				Str("endpoint", endpoint).
				Str("channel", h.channel).
				Any("panic", r).
				Msg("subscriber failed")
		}
	}()
	fn(v)
}

// count reports the live subscriber count for endpoint.
func (h *hookSet[T]) count(endpoint string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[endpoint])
}

// tracked reports whether the endpoint still has a backing entry at all.
// Distinct from count == 0: an endpoint whose last subscriber left must not
// leave an empty slice behind.
func (h *hookSet[T]) tracked(endpoint string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.subs[endpoint]
	return ok
}

// OnCall subscribes to the pre-call channel for one endpoint. The callback
// receives the envelope before the resolver runs. The returned closure
// removes exactly this subscription and is safe to call more than once.
func (d *Dispatcher) OnCall(endpoint string, fn func(*Envelope)) func() {
	return d.preCall.subscribe(endpoint, fn)
}

// OnOk subscribes to the post-success channel for one endpoint. The callback
// receives the envelope and the validated result, after the resolver
// returned.
func (d *Dispatcher) OnOk(endpoint string, fn func(OkEvent)) func() {
	return d.postOK.subscribe(endpoint, fn)
}

// OnFail subscribes to the post-failure channel for one endpoint. The
// callback receives the envelope (as far as assembly got) and the original
// failure, for any failure in the call sequence.
func (d *Dispatcher) OnFail(endpoint string, fn func(FailEvent)) func() {
	return d.postFail.subscribe(endpoint, fn)
}
