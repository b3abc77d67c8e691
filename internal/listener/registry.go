package listener

import (
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/trialkey/internal/clock"
	"github.com/dshills/trialkey/internal/config"
	"github.com/dshills/trialkey/internal/key"
	"github.com/dshills/trialkey/internal/response"
)

// arm holds the validation and timing state shared by both listener modes.
type arm struct {
	spec      response.Spec
	allowHeld bool
	minRT     float64
	start     float64
	now       func() float64
	round     bool
}

// normalEntry is a listener in the normal fan-out set.
type normalEntry struct {
	arm
	id       uuid.UUID
	callback func(Response)
	persist  bool
}

// priorityEntry is a ticket in the high-priority queue.
type priorityEntry struct {
	arm
	token    uuid.UUID
	callback func(Response)
}

// Registry owns all keyboard response listeners for one experiment session.
//
// All dispatch is synchronous: KeyDown and KeyUp are expected from a single
// event-delivery goroutine, and callbacks run to completion before the next
// event. Registration and cancellation may happen from any goroutine,
// including from inside a callback.
type Registry struct {
	mu sync.Mutex

	cfg    config.Session
	perf   clock.Source
	audio  clock.Source // nil when no audio reader was configured
	logger *zap.Logger

	normal  map[uuid.UUID]*normalEntry
	queue   []*priorityEntry
	byToken map[uuid.UUID]*priorityEntry
	held    map[key.ID]struct{}

	rootProvider RootProvider
	bound        bool

	delivered uint64
	keyDowns  uint64
	keyUps    uint64
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the diagnostic logger. Default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithAudioReader enables the audio timing method using the given
// audio-context reading function.
func WithAudioReader(read clock.AudioReader) Option {
	return func(r *Registry) {
		if read != nil {
			r.audio = clock.NewAudio(read)
		}
	}
}

// WithRoot sets the provider of the display root. The provider may return
// nil while the root does not exist yet; binding is retried on each
// registration.
func WithRoot(provider RootProvider) Option {
	return func(r *Registry) {
		r.rootProvider = provider
	}
}

// WithPerformanceClock replaces the performance timing source.
func WithPerformanceClock(src clock.Source) Option {
	return func(r *Registry) {
		if src != nil {
			r.perf = src
		}
	}
}

// New creates a registry for one experiment session and attempts to bind to
// the display root immediately.
func New(cfg config.Session, opts ...Option) *Registry {
	r := &Registry{
		cfg:     cfg,
		perf:    clock.NewPerformance(),
		logger:  zap.NewNop(),
		normal:  make(map[uuid.UUID]*normalEntry),
		byToken: make(map[uuid.UUID]*priorityEntry),
		held:    make(map[key.ID]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.bind()
	return r
}

// RequestResponse registers interest in future key presses and returns the
// handle used to cancel it. See Request for defaults.
func (r *Registry) RequestResponse(req Request) (Handle, error) {
	if req.Callback == nil {
		return Handle{}, ErrNilCallback
	}

	// The root may have appeared since the last attempt.
	r.bind()

	method, known := clock.ParseMethod(req.TimingMethod)
	if !known {
		r.logger.Warn("unknown timing method, using performance clock",
			zap.String("timing_method", req.TimingMethod))
	}

	a := arm{
		spec:      req.Valid.Normalized(r.cfg.CaseSensitive),
		allowHeld: req.AllowHeldKey,
		minRT:     r.cfg.MinimumRT,
	}
	if req.MinimumRT != nil {
		a.minRT = *req.MinimumRT
	}

	switch method {
	case clock.MethodAudio:
		if r.audio == nil {
			return Handle{}, ErrNoAudioClock
		}
		a.now = r.audio.Now
		a.start = req.AudioStart * 1000
		a.round = false
	default:
		a.now = r.perf.Now
		a.start = r.perf.Now()
		a.round = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if req.Priority == PriorityHigh {
		h := newPriorityHandle()
		entry := &priorityEntry{arm: a, token: h.id, callback: req.Callback}
		r.queue = append(r.queue, entry)
		r.byToken[h.id] = entry
		return h, nil
	}

	h := newNormalHandle()
	r.normal[h.id] = &normalEntry{arm: a, id: h.id, callback: req.Callback, persist: req.Persist}
	return h, nil
}

// Cancel removes the listener behind the handle. Unknown or zero handles
// are ignored; cancellation is idempotent.
func (r *Registry) Cancel(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch h.kind {
	case HandleNormal:
		delete(r.normal, h.id)
	case HandlePriority:
		r.purgeTokenLocked(h.id)
	}
}

// CancelAll removes every normal listener and every queued ticket. The
// held-key set is untouched: keys physically down stay down.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.normal = make(map[uuid.UUID]*normalEntry)
	r.queue = nil
	r.byToken = make(map[uuid.UUID]*priorityEntry)
}

// CompareKeys reports whether two key values denote the same key under the
// session case mode. Non-string, non-nil arguments are a caller bug: the
// result is indeterminate and the error is key.ErrInvalidArgument.
func (r *Registry) CompareKeys(a, b any) (bool, error) {
	eq, err := key.NewComparer(r.cfg.CaseSensitive).Compare(a, b)
	if err != nil {
		r.logger.Warn("invalid key comparison arguments",
			zap.Any("a", a), zap.Any("b", b), zap.Error(err))
	}
	return eq, err
}

// KeyDown dispatches a key press. When the priority queue is non-empty only
// its head ticket runs; otherwise every normal listener in a snapshot taken
// now. The key is marked held only after dispatch completes, so the first
// press is always eligible for held-key validation.
func (r *Registry) KeyDown(ev *key.Event) {
	r.mu.Lock()
	r.keyDowns++

	if len(r.queue) > 0 {
		head := r.queue[0]
		r.mu.Unlock()
		r.dispatchPriority(head, ev)
	} else {
		snapshot := make([]*normalEntry, 0, len(r.normal))
		for _, e := range r.normal {
			snapshot = append(snapshot, e)
		}
		r.mu.Unlock()
		for _, e := range snapshot {
			r.dispatchNormal(e, ev)
		}
	}

	r.mu.Lock()
	r.held[key.Normalize(ev.Key, r.cfg.CaseSensitive)] = struct{}{}
	r.mu.Unlock()
}

// KeyUp clears the key's held mark. This runs regardless of listener state
// so the tracker never drifts from the physical keyboard.
func (r *Registry) KeyUp(ev *key.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.keyUps++
	delete(r.held, key.Normalize(ev.Key, r.cfg.CaseSensitive))
}

// dispatchPriority runs the head ticket. A consumed ticket is removed from
// the queue and both indexes before its callback fires.
func (r *Registry) dispatchPriority(head *priorityEntry, ev *key.Event) {
	resp, ok := r.evaluate(&head.arm, ev)
	if !ok {
		return
	}

	r.mu.Lock()
	r.purgeTokenLocked(head.token)
	r.delivered++
	r.mu.Unlock()

	head.callback(resp)
}

// dispatchNormal runs one normal listener from the dispatch snapshot. The
// entry may have been cancelled by an earlier callback in this same
// dispatch; it is skipped in that case. One-shot entries are deregistered
// before the callback fires.
func (r *Registry) dispatchNormal(e *normalEntry, ev *key.Event) {
	r.mu.Lock()
	if _, live := r.normal[e.id]; !live {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	resp, ok := r.evaluate(&e.arm, ev)
	if !ok {
		return
	}

	r.mu.Lock()
	if !e.persist {
		delete(r.normal, e.id)
	}
	r.delivered++
	r.mu.Unlock()

	e.callback(resp)
}

// evaluate applies the timing gate and response validation. On a valid
// match the event is consumed so the host suppresses its default action.
func (r *Registry) evaluate(a *arm, ev *key.Event) (Response, bool) {
	rt := a.now() - a.start
	if a.round {
		rt = math.Round(rt)
	}
	if rt < a.minRT {
		return Response{}, false
	}

	id := key.Normalize(ev.Key, r.cfg.CaseSensitive)
	if !response.IsValid(a.spec, a.allowHeld, id, r.isHeld) {
		return Response{}, false
	}

	ev.Consume()
	return Response{Key: string(id), RT: rt}, true
}

// purgeTokenLocked removes a ticket from the queue and the token index in
// one step. Callers hold r.mu.
func (r *Registry) purgeTokenLocked(token uuid.UUID) {
	if _, ok := r.byToken[token]; !ok {
		return
	}
	delete(r.byToken, token)
	for i, e := range r.queue {
		if e.token == token {
			r.queue = append(r.queue[:i], r.queue[i+1:]...)
			break
		}
	}
}

func (r *Registry) isHeld(id key.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.held[id]
	return ok
}

// IsHeld reports whether the named key is currently in the down state.
func (r *Registry) IsHeld(name string) bool {
	return r.isHeld(key.Normalize(name, r.cfg.CaseSensitive))
}

// HeldKeys returns the currently held key identifiers in sorted order.
func (r *Registry) HeldKeys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.held) == 0 {
		return nil
	}
	keys := make([]string, 0, len(r.held))
	for id := range r.held {
		keys = append(keys, string(id))
	}
	sort.Strings(keys)
	return keys
}

// NormalCount returns the number of registered normal listeners.
func (r *Registry) NormalCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.normal)
}

// QueueLen returns the number of queued high-priority tickets.
func (r *Registry) QueueLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.queue)
}

// Has reports whether the handle still refers to a registered listener.
func (r *Registry) Has(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch h.kind {
	case HandleNormal:
		_, ok := r.normal[h.id]
		return ok
	case HandlePriority:
		_, ok := r.byToken[h.id]
		return ok
	default:
		return false
	}
}

// Stats is a snapshot of registry counters for diagnostics.
type Stats struct {
	// KeyDowns is the number of key-down events dispatched.
	KeyDowns uint64
	// KeyUps is the number of key-up events processed.
	KeyUps uint64
	// Delivered is the number of callbacks fired.
	Delivered uint64
	// ActiveListeners is the current normal-set size.
	ActiveListeners int
	// QueueDepth is the current priority-queue length.
	QueueDepth int
	// HeldKeys is the current held-set size.
	HeldKeys int
}

// Stats returns current registry counters.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Stats{
		KeyDowns:        r.keyDowns,
		KeyUps:          r.keyUps,
		Delivered:       r.delivered,
		ActiveListeners: len(r.normal),
		QueueDepth:      len(r.queue),
		HeldKeys:        len(r.held),
	}
}
