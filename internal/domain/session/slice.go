package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"pet-adoption-web/internal/platform/httpclient"
	"pet-adoption-web/internal/platform/logger"
	"pet-adoption-web/internal/store"
)

const (
	OpCheckSession    = "checkSession"
	OpLogin           = "login"
	OpLogout          = "logout"
	OpRegisterUser    = "registerUser"
	OpRegisterShelter = "registerShelter"
	OpUpdateProfile   = "updateProfile"

	actLocalRejected = "localValidationFailed"
	actClearStatus   = "clearStatus"
)

// State del slice de auth. User es nil hasta resolver la sesión o si no hay sesión.
type State struct {
	User        *User             `json:"user"`
	Checked     bool              `json:"checked"`
	IsLoading   bool              `json:"isLoading"`
	Error       string            `json:"error,omitempty"`
	Success     bool              `json:"success"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`

	// request id del último login/registro/logout resuelto con éxito; una
	// verificación de /auth/me emitida antes no puede pisar su resultado.
	identityAt uint64
}

type Slice struct {
	repo  Repository
	state *store.Slice[State]
	once  sync.Once
}

func NewSlice(repo Repository, log logger.Logger) *Slice {
	return &Slice{
		repo:  repo,
		state: store.New("auth", State{}, Reduce, log),
	}
}

func (s *Slice) State() State { return s.state.State() }

func (s *Slice) Subscribe(fn func(State)) func() { return s.state.Subscribe(fn) }

// User devuelve una copia del usuario actual, si hay.
func (s *Slice) User() (User, bool) {
	st := s.state.State()
	if st.User == nil {
		return User{}, false
	}
	return *st.User, true
}

// CheckSession consulta GET /auth/me. Con o sin éxito, la verificación queda completa.
func (s *Slice) CheckSession(ctx context.Context) (User, error) {
	return store.Run(ctx, s.state, OpCheckSession, nil, s.repo.Me)
}

// EnsureChecked corre CheckSession una sola vez por slice.
func (s *Slice) EnsureChecked(ctx context.Context) {
	s.once.Do(func() {
		_, _ = s.CheckSession(ctx)
	})
}

func (s *Slice) Login(ctx context.Context, c Credentials) (User, error) {
	if err := c.Validate(); err != nil {
		s.rejectLocally(err)
		return User{}, err
	}
	return store.Run(ctx, s.state, OpLogin, nil, func(ctx context.Context) (User, error) {
		return s.repo.Login(ctx, c)
	})
}

func (s *Slice) Logout(ctx context.Context) error {
	_, err := store.Run(ctx, s.state, OpLogout, nil, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.repo.Logout(ctx)
	})
	return err
}

func (s *Slice) RegisterUser(ctx context.Context, u UserRegistration) (User, error) {
	if err := u.Validate(); err != nil {
		s.rejectLocally(err)
		return User{}, err
	}
	return store.Run(ctx, s.state, OpRegisterUser, nil, func(ctx context.Context) (User, error) {
		return s.repo.RegisterUser(ctx, u)
	})
}

func (s *Slice) RegisterShelter(ctx context.Context, r ShelterRegistration) (User, error) {
	if err := r.Validate(); err != nil {
		s.rejectLocally(err)
		return User{}, err
	}
	return store.Run(ctx, s.state, OpRegisterShelter, nil, func(ctx context.Context) (User, error) {
		return s.repo.RegisterShelter(ctx, r)
	})
}

func (s *Slice) UpdateProfile(ctx context.Context, p ProfileUpdate) (User, error) {
	if _, ok := s.User(); !ok {
		return User{}, ErrUnauthorized
	}
	if err := p.Validate(); err != nil {
		s.rejectLocally(err)
		return User{}, err
	}
	p = p.Normalized()
	return store.Run(ctx, s.state, OpUpdateProfile, nil, func(ctx context.Context) (User, error) {
		return s.repo.UpdateProfile(ctx, p)
	})
}

func (s *Slice) ClearStatus() {
	s.state.Dispatch(store.Action{Type: actClearStatus})
}

func (s *Slice) rejectLocally(err error) {
	s.state.Dispatch(store.Action{Type: actLocalRejected, Err: err})
}

// GuardResult es lo que ve el guard de rutas privadas.
type GuardResult int

const (
	GuardPending   GuardResult = iota // todavía no terminó la verificación de sesión
	GuardAnonymous                    // verificación completa, sin usuario
	GuardForbidden                    // usuario con otro rol
	GuardAllowed
)

func (g GuardResult) String() string {
	switch g {
	case GuardPending:
		return "pending"
	case GuardAnonymous:
		return "anonymous"
	case GuardForbidden:
		return "forbidden"
	default:
		return "allowed"
	}
}

// Guard evalúa el acceso a una ruta privada. Sin roles, alcanza con estar autenticado.
func (s *Slice) Guard(roles ...Role) GuardResult {
	return Evaluate(s.state.State(), roles...)
}

func Evaluate(st State, roles ...Role) GuardResult {
	if !st.Checked {
		return GuardPending
	}
	if st.User == nil {
		return GuardAnonymous
	}
	if len(roles) == 0 {
		return GuardAllowed
	}
	for _, r := range roles {
		if st.User.Role == r {
			return GuardAllowed
		}
	}
	return GuardForbidden
}

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
		st.Success = false
		var verr *ValidationError
		if errors.As(a.Err, &verr) {
			st.FieldErrors = copyMap(verr.Fields)
		}
		return st
	}

	switch a.Phase {
	case store.PhasePending:
		st.Error = ""
		st.Success = false
		st.FieldErrors = nil
	case store.PhaseRejected:
		if a.Type == OpCheckSession {
			if a.Stale || a.RequestID < st.identityAt {
				return st
			}
			st.Checked = true
			st.User = nil
			if !isUnauthorized(a.Err) {
				st.Error = httpclient.MessageOf(a.Err)
			}
			return st
		}
		st.Error = httpclient.MessageOf(a.Err)
		if fe := httpclient.FieldErrorsOf(a.Err); fe != nil {
			st.FieldErrors = copyMap(fe)
		}
	case store.PhaseFulfilled:
		switch a.Type {
		case OpCheckSession:
			if a.Stale || a.RequestID < st.identityAt {
				return st
			}
			st.Checked = true
			st.User = userPtr(a.Payload.(User))
		case OpLogin, OpRegisterUser, OpRegisterShelter:
			u := a.Payload.(User)
			if u.ID != "" {
				st.User = userPtr(u)
				st.Checked = true
				st.identityAt = a.RequestID
			}
			st.Success = true
		case OpUpdateProfile:
			if u := a.Payload.(User); u.ID != "" {
				st.User = userPtr(u)
			}
			st.Success = true
		case OpLogout:
			st.User = nil
			st.Checked = true
			st.Success = true
			st.identityAt = a.RequestID
		}
	}
	return st
}

func isUnauthorized(err error) bool {
	var he *httpclient.HTTPError
	return errors.As(err, &he) && (he.StatusCode == http.StatusUnauthorized || he.StatusCode == http.StatusForbidden)
}

func userPtr(u User) *User {
	if u.ID == "" {
		return nil
	}
	return &u
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
