package applications

import (
	"context"
	"fmt"
	"strings"

	"pet-adoption-web/internal/platform/httpclient"
	"pet-adoption-web/internal/platform/logger"
	"pet-adoption-web/internal/store"
)

const (
	OpSubmit       = "submitApplication"
	OpFetchShelter = "fetchShelterApplications"
	OpFetchUser    = "fetchUserApplications"
	OpUpdate       = "updateApplication"

	actClearStatus   = "clearStatus"
	actLocalRejected = "localValidationFailed"
)

// State del slice de adopciones.
type State struct {
	Applications     []Application     `json:"applications"`     // del refugio autenticado
	UserApplications []Application     `json:"userApplications"` // del adoptante autenticado
	IsLoading        bool              `json:"isLoading"`
	Error            string            `json:"error,omitempty"`
	Success          bool              `json:"success"`
	FieldErrors      map[string]string `json:"fieldErrors,omitempty"`
}

// Slice media entre wizard/revisión y la API. El servidor es la fuente de verdad:
// submit no inserta nada en las listas locales.
type Slice struct {
	repo  Repository
	state *store.Slice[State]
}

func NewSlice(repo Repository, log logger.Logger) *Slice {
	return &Slice{
		repo:  repo,
		state: store.New("adoption", State{}, Reduce, log),
	}
}

func (s *Slice) State() State { return s.state.State() }

func (s *Slice) Subscribe(fn func(State)) func() { return s.state.Subscribe(fn) }

// Status fase del último request de op (idle/pending/fulfilled/rejected).
func (s *Slice) Status(op string) store.Phase { return s.state.Status(op) }

func (s *Slice) SubmitApplication(ctx context.Context, sub Submission) (Application, error) {
	return store.Run(ctx, s.state, OpSubmit, sub, func(ctx context.Context) (Application, error) {
		return s.repo.Submit(ctx, sub)
	})
}

func (s *Slice) FetchShelterApplications(ctx context.Context) ([]Application, error) {
	return store.Run(ctx, s.state, OpFetchShelter, nil, s.repo.ListForShelter)
}

func (s *Slice) FetchUserApplications(ctx context.Context) ([]Application, error) {
	return store.Run(ctx, s.state, OpFetchUser, nil, s.repo.ListForUser)
}

// UpdateApplication aprueba o rechaza. Las reglas locales (status válido,
// motivo de rechazo, registro ya revisado) se chequean antes de tocar la red.
func (s *Slice) UpdateApplication(ctx context.Context, id string, u StatusUpdate) (Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Application{}, fmt.Errorf("%w: application id required", ErrInvalidInput)
	}
	if err := u.Validate(); err != nil {
		s.state.Dispatch(store.Action{Type: actLocalRejected, Arg: "rejectionReason", Err: err})
		return Application{}, err
	}
	for _, a := range s.state.State().Applications {
		if a.ID == id && a.Status.Terminal() {
			s.state.Dispatch(store.Action{Type: actLocalRejected, Err: ErrTerminalStatus})
			return Application{}, ErrTerminalStatus
		}
	}

	u = u.Normalized()
	return store.Run(ctx, s.state, OpUpdate, id, func(ctx context.Context) (Application, error) {
		return s.repo.UpdateStatus(ctx, id, u)
	})
}

// ClearStatus resetea success/error (p.ej. al salir de la pantalla).
func (s *Slice) ClearStatus() {
	s.state.Dispatch(store.Action{Type: actClearStatus})
}

// Reduce es la función de transición pura del slice.
func Reduce(st State, a store.Action) State {
	st.IsLoading = a.InFlight > 0

	switch a.Type {
	case actClearStatus:
		st.Error = ""
		st.Success = false
		st.FieldErrors = nil
		return st
	case actLocalRejected:
		st.Error = a.Err.Error()
		if field, ok := a.Arg.(string); ok && field != "" {
			st.FieldErrors = map[string]string{field: a.Err.Error()}
		}
		return st
	}

	switch a.Phase {
	case store.PhasePending:
		st.Error = ""
		st.FieldErrors = nil
		if a.Type == OpSubmit {
			st.Success = false
		}
	case store.PhaseRejected:
		if a.Stale && isFetch(a.Type) {
			return st
		}
		st.Error = httpclient.MessageOf(a.Err)
		if fe := httpclient.FieldErrorsOf(a.Err); fe != nil {
			st.FieldErrors = copyMap(fe)
		}
	case store.PhaseFulfilled:
		if a.Stale && isFetch(a.Type) {
			return st
		}
		switch a.Type {
		case OpSubmit:
			st.Success = true
		case OpFetchShelter:
			st.Applications = cloneList(a.Payload.([]Application))
		case OpFetchUser:
			st.UserApplications = cloneList(a.Payload.([]Application))
		case OpUpdate:
			updated := a.Payload.(Application)
			st.Applications = replaceByID(st.Applications, updated)
		}
	}
	return st
}

func isFetch(op string) bool { return op == OpFetchShelter || op == OpFetchUser }

// replaceByID reemplaza en el lugar, preservando el orden. Si no está, no agrega.
func replaceByID(list []Application, updated Application) []Application {
	out := cloneList(list)
	for i := range out {
		if out[i].ID == updated.ID {
			out[i] = updated
			break
		}
	}
	return out
}

func cloneList(in []Application) []Application {
	if in == nil {
		return []Application{}
	}
	out := make([]Application, len(in))
	copy(out, in)
	return out
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
