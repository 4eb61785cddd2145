package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"

	"pet-adoption-web/internal/adapters/capabilities/rolemap"
	mem "pet-adoption-web/internal/adapters/storage/memory"
	_ "pet-adoption-web/internal/docs"
	"pet-adoption-web/internal/domain/applications"
	"pet-adoption-web/internal/domain/pets"
	"pet-adoption-web/internal/domain/session"
	"pet-adoption-web/internal/domain/shelters"
	"pet-adoption-web/internal/middleware"
	"pet-adoption-web/internal/platform/httpclient"
	"pet-adoption-web/internal/platform/logger"
	"pet-adoption-web/internal/ports/capabilities"
	"pet-adoption-web/internal/sessions"
)

const (
	featuredPets  = 6
	homeShelters  = 3
	homeTimeout   = 10 * time.Second
	defaultDrafts = 72 * time.Hour
)

type Options struct {
	Log      logger.Logger
	Sessions *sessions.Registry

	// Opcional: si no viene, borradores in-memory.
	Drafts applications.DraftRepository
	// Opcional: si no viene, rolemap.Default.
	Capabilities capabilities.CapabilitiesResolver
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	reg := opts.Sessions
	if reg == nil {
		reg = sessions.NewRegistry(sessions.Options{Log: log})
	}
	drafts := opts.Drafts
	if drafts == nil {
		drafts = mem.NewDraftRepo(defaultDrafts)
	}
	caps := opts.Capabilities
	if caps == nil {
		caps = rolemap.NewResolver(nil)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.EchoRequestID)
	r.Use(middleware.RequestLogger(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Todo lo demás vive dentro de una sesión de navegador.
	r.Group(func(r chi.Router) {
		r.Use(reg.Middleware)

		r.Get("/", homeHandler(log))

		session.RegisterRoutes(r, sessions.AuthSlice)
		pets.RegisterRoutes(r, sessions.PetsSlice)
		shelters.RegisterRoutes(r, sessions.SheltersSlice)

		guard := func(need ...capabilities.Capability) func(http.Handler) http.Handler {
			return middleware.RequireSession(sessions.AuthSlice, caps, need...)
		}
		applications.RegisterRoutes(r,
			applications.NewHandlers(sessions.ApplicationsSlice, drafts),
			applications.Guards{
				Apply:         guard(capabilities.SubmitApplications),
				Review:        guard(capabilities.ReviewApplications),
				Authenticated: guard(),
			},
		)
	})

	return r
}

type homeResponse struct {
	FeaturedPets  []pets.Pet         `json:"featuredPets"`
	Shelters      []shelters.Shelter `json:"shelters"`
	PetsError     string             `json:"petsError,omitempty"`
	SheltersError string             `json:"sheltersError,omitempty"`
}

// homeHandler godoc
// @Summary Home
// @Description Mascotas destacadas y refugios, pedidos en paralelo. Si falla una sección la otra igual se muestra.
// @Tags home
// @Produce json
// @Success 200 {object} homeResponse
// @Failure 502 {object} homeResponse
// @Router / [get]
func homeHandler(log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessions.FromContext(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), homeTimeout)
		defer cancel()

		// errgroup sin WithContext: un fallo no cancela la otra sección.
		var (
			g    errgroup.Group
			resp homeResponse
		)
		g.Go(func() error {
			featured, err := s.Pets.FetchFeatured(ctx, featuredPets)
			if err != nil {
				resp.PetsError = httpclient.MessageOf(err)
				return err
			}
			resp.FeaturedPets = featured
			return nil
		})
		g.Go(func() error {
			list, err := s.Shelters.FetchFeatured(ctx, homeShelters)
			if err != nil {
				resp.SheltersError = httpclient.MessageOf(err)
				return err
			}
			resp.Shelters = list
			return nil
		})

		status := http.StatusOK
		if err := g.Wait(); err != nil {
			log.Warn("home partial failure", map[string]any{"error": err})
			if resp.PetsError != "" && resp.SheltersError != "" {
				status = http.StatusBadGateway
			}
		}
		if resp.FeaturedPets == nil {
			resp.FeaturedPets = []pets.Pet{}
		}
		if resp.Shelters == nil {
			resp.Shelters = []shelters.Shelter{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
