// Package store implementa el estado compartido de la app como slices:
// cada slice tiene un estado propio que solo cambia dentro de Dispatch,
// aplicando un reducer puro a acciones con ciclo de vida
// pending -> fulfilled | rejected.
package store

import (
	"context"
	"sync"

	"pet-adoption-web/internal/platform/logger"
	"pet-adoption-web/internal/platform/metrics"
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePending   Phase = "pending"
	PhaseFulfilled Phase = "fulfilled"
	PhaseRejected  Phase = "rejected"
)

// Action es lo único que puede modificar el estado de un slice.
type Action struct {
	Type      string // operación, p.ej. "fetchShelterApplications"
	Phase     Phase
	RequestID uint64
	Arg       any // argumento de la llamada (en pending y al resolver)
	Payload   any // resultado (fulfilled)
	Err       error

	// Los estampa el dispatcher, no quien crea la acción.
	InFlight int  // requests en vuelo después de aplicar esta acción
	Stale    bool // hay un request más nuevo para el mismo Type
}

// Reducer debe ser puro: mismo estado + acción => mismo resultado.
type Reducer[S any] func(state S, a Action) S

type Slice[S any] struct {
	name   string
	reduce Reducer[S]
	log    logger.Logger

	mu       sync.Mutex
	state    S
	seq      uint64
	inflight int
	latest   map[string]uint64
	phases   map[string]Phase
	subs     map[int]func(S)
	nextSub  int
}

func New[S any](name string, initial S, reduce Reducer[S], log logger.Logger) *Slice[S] {
	if log == nil {
		log = logger.NewNop()
	}
	return &Slice[S]{
		name:   name,
		reduce: reduce,
		log:    log.With(map[string]any{"slice": name}),
		state:  initial,
		latest: map[string]uint64{},
		phases: map[string]Phase{},
		subs:   map[int]func(S){},
	}
}

func (s *Slice[S]) Name() string { return s.name }

// State devuelve una copia del estado actual.
func (s *Slice[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Loading es true mientras haya cualquier request en vuelo.
func (s *Slice[S]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Status devuelve la fase del último request emitido para op.
func (s *Slice[S]) Status(op string) Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.phases[op]; ok {
		return p
	}
	return PhaseIdle
}

// Subscribe registra fn para recibir el estado después de cada Dispatch.
func (s *Slice[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Dispatch aplica una acción síncrona (sin request asociado).
func (s *Slice[S]) Dispatch(a Action) {
	s.mu.Lock()
	a.InFlight = s.inflight
	s.state = s.reduce(s.state, a)
	st, subs := s.state, s.snapshotSubs()
	s.mu.Unlock()

	notify(subs, st)
}

// Begin emite la acción pending de un request nuevo y devuelve su id.
// El id es el generation token: Settle marca como Stale cualquier respuesta
// cuyo id no sea el último emitido para op.
func (s *Slice[S]) Begin(op string, arg any) uint64 {
	s.mu.Lock()
	s.seq++
	id := s.seq
	s.inflight++
	s.latest[op] = id
	s.phases[op] = PhasePending

	a := Action{Type: op, Phase: PhasePending, RequestID: id, Arg: arg, InFlight: s.inflight}
	s.state = s.reduce(s.state, a)
	st, subs := s.state, s.snapshotSubs()
	s.mu.Unlock()

	s.log.Debug("request pending", map[string]any{"op": op, "request_id": id})
	notify(subs, st)
	return id
}

// Settle resuelve el request id como fulfilled (err == nil) o rejected.
func (s *Slice[S]) Settle(op string, id uint64, arg any, payload any, err error) {
	phase := PhaseFulfilled
	if err != nil {
		phase = PhaseRejected
	}

	s.mu.Lock()
	if s.inflight > 0 {
		s.inflight--
	}
	stale := s.latest[op] != id
	if !stale {
		s.phases[op] = phase
	}

	a := Action{
		Type:      op,
		Phase:     phase,
		RequestID: id,
		Arg:       arg,
		Payload:   payload,
		Err:       err,
		InFlight:  s.inflight,
		Stale:     stale,
	}
	s.state = s.reduce(s.state, a)
	st, subs := s.state, s.snapshotSubs()
	s.mu.Unlock()

	metrics.SliceOperations.WithLabelValues(s.name, op, string(phase)).Inc()
	fields := map[string]any{"op": op, "request_id": id, "phase": string(phase), "stale": stale}
	if err != nil {
		fields["error"] = err.Error()
		s.log.Warn("request rejected", fields)
	} else {
		s.log.Debug("request fulfilled", fields)
	}
	notify(subs, st)
}

func (s *Slice[S]) snapshotSubs() []func(S) {
	if len(s.subs) == 0 {
		return nil
	}
	out := make([]func(S), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify[S any](subs []func(S), st S) {
	for _, fn := range subs {
		fn(st)
	}
}

// Run envuelve una llamada async con su ciclo pending/fulfilled/rejected.
// No deduplica: dos llamadas concurrentes son dos requests independientes.
func Run[S, T any](ctx context.Context, s *Slice[S], op string, arg any, call func(ctx context.Context) (T, error)) (T, error) {
	id := s.Begin(op, arg)
	v, err := call(ctx)
	s.Settle(op, id, arg, v, err)
	return v, err
}
