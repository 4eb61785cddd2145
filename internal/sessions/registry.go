// Package sessions guarda el estado de cada navegador conectado al BFF:
// su cliente REST (con cookie jar propio) y los slices de dominio.
package sessions

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pet-adoption-web/internal/adapters/restapi"
	"pet-adoption-web/internal/domain/applications"
	"pet-adoption-web/internal/domain/pets"
	"pet-adoption-web/internal/domain/session"
	"pet-adoption-web/internal/domain/shelters"
	"pet-adoption-web/internal/platform/logger"
	"pet-adoption-web/internal/platform/metrics"
)

var ErrNoSession = errors.New("sessions: no session in context")

// Session es el estado de un navegador.
type Session struct {
	ID  string
	API *restapi.API

	Auth         *session.Slice
	Pets         *pets.Slice
	Shelters     *shelters.Slice
	Applications *applications.Slice

	lastSeen time.Time
}

type Options struct {
	CookieName string
	TTL        time.Duration
	API        restapi.Config
	Log        logger.Logger

	// NewAPI reemplaza restapi.New (tests).
	NewAPI func() (*restapi.API, error)
}

type Registry struct {
	mu   sync.Mutex
	byID map[string]*Session

	cookie string
	ttl    time.Duration
	log    logger.Logger
	newAPI func() (*restapi.API, error)
	now    func() time.Time
}

func NewRegistry(opts Options) *Registry {
	cookie := strings.TrimSpace(opts.CookieName)
	if cookie == "" {
		cookie = "adopt_sid"
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	newAPI := opts.NewAPI
	if newAPI == nil {
		cfg := opts.API
		newAPI = func() (*restapi.API, error) { return restapi.New(cfg) }
	}

	return &Registry{
		byID:   make(map[string]*Session),
		cookie: cookie,
		ttl:    ttl,
		log:    log,
		newAPI: newAPI,
		now:    time.Now,
	}
}

func (r *Registry) CookieName() string { return r.cookie }

// Create arma una sesión nueva con su propio cliente REST.
func (r *Registry) Create() (*Session, error) {
	api, err := r.newAPI()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := r.log.With(map[string]any{"session": id[:8]})
	s := &Session{
		ID:           id,
		API:          api,
		Auth:         session.NewSlice(api.Auth, log),
		Pets:         pets.NewSlice(api.Pets, log),
		Shelters:     shelters.NewSlice(api.Shelters, log),
		Applications: applications.NewSlice(api.Applications, log),
	}

	r.mu.Lock()
	s.lastSeen = r.now()
	r.byID[id] = s
	n := len(r.byID)
	r.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	return s, nil
}

// Get devuelve la sesión si existe y no venció; renueva su vencimiento.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if now.Sub(s.lastSeen) > r.ttl {
		delete(r.byID, id)
		metrics.ActiveSessions.Set(float64(len(r.byID)))
		return nil, false
	}
	s.lastSeen = now
	return s, true
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.byID, id)
	n := len(r.byID)
	r.mu.Unlock()
	metrics.ActiveSessions.Set(float64(n))
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// Sweep elimina las sesiones vencidas y devuelve cuántas borró.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	now := r.now()
	removed := 0
	for id, s := range r.byID {
		if now.Sub(s.lastSeen) > r.ttl {
			delete(r.byID, id)
			removed++
		}
	}
	n := len(r.byID)
	r.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	if removed > 0 {
		r.log.Debug("sessions swept", map[string]any{"removed": removed, "active": n})
	}
	return removed
}

// RunSweeper barre cada `every` hasta que se cancele ctx.
func (r *Registry) RunSweeper(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

// -------------------------
// HTTP
// -------------------------

type ctxKey struct{}

// Middleware resuelve (o crea) la sesión del request por cookie.
// Una sesión nueva dispara la verificación con GET /auth/me en segundo plano.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var s *Session
		if c, err := req.Cookie(r.cookie); err == nil {
			s, _ = r.Get(c.Value)
		}

		if s == nil {
			created, err := r.Create()
			if err != nil {
				r.log.Error("session create failed", map[string]any{"error": err})
				http.Error(w, "session unavailable", http.StatusServiceUnavailable)
				return
			}
			s = created
			http.SetCookie(w, &http.Cookie{
				Name:     r.cookie,
				Value:    s.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(r.ttl.Seconds()),
			})
			go s.Auth.EnsureChecked(context.Background())
		}

		next.ServeHTTP(w, req.WithContext(WithSession(req.Context(), s)))
	})
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}

func mustFrom(req *http.Request) *Session {
	s, err := FromContext(req.Context())
	if err != nil {
		panic(err)
	}
	return s
}

// Resolvers con la firma SliceFor de cada handler de dominio.

func AuthSlice(req *http.Request) *session.Slice { return mustFrom(req).Auth }

func PetsSlice(req *http.Request) *pets.Slice { return mustFrom(req).Pets }

func SheltersSlice(req *http.Request) *shelters.Slice { return mustFrom(req).Shelters }

func ApplicationsSlice(req *http.Request) *applications.Slice { return mustFrom(req).Applications }
