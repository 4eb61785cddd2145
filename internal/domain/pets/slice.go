package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-adoption-web/internal/platform/httpclient"
	"pet-adoption-web/internal/platform/logger"
	"pet-adoption-web/internal/store"
)

const (
	OpFetch         = "fetchPets"
	OpFetchFeatured = "fetchFeaturedPets"
	OpFetchByID     = "fetchPetById"
)

type State struct {
	Items      []Pet      `json:"pets"`
	Featured   []Pet      `json:"featured,omitempty"`
	Current    *Pet       `json:"pet,omitempty"`
	NotFound   bool       `json:"notFound"`
	Filter     Filter     `json:"filter"`
	Pagination Pagination `json:"pagination"`
	IsLoading  bool       `json:"isLoading"`
	Error      string     `json:"error,omitempty"`
}

// Slice de búsqueda de mascotas. Cada fetch reemplaza la colección;
// las respuestas de fetches ya superados se descartan.
type Slice struct {
	repo  Repository
	state *store.Slice[State]
}

func NewSlice(repo Repository, log logger.Logger) *Slice {
	return &Slice{
		repo:  repo,
		state: store.New("pets", State{Filter: Filter{}.Normalized()}, Reduce, log),
	}
}

func (s *Slice) State() State { return s.state.State() }

func (s *Slice) Subscribe(fn func(State)) func() { return s.state.Subscribe(fn) }

func (s *Slice) Status(op string) store.Phase { return s.state.Status(op) }

func (s *Slice) Fetch(ctx context.Context, f Filter) (Page, error) {
	if err := f.Validate(); err != nil {
		return Page{}, err
	}
	f = f.Normalized()
	return store.Run(ctx, s.state, OpFetch, f, func(ctx context.Context) (Page, error) {
		return s.repo.List(ctx, f)
	})
}

// SetPage vuelve a pedir la colección en otra página con el filtro actual.
func (s *Slice) SetPage(ctx context.Context, page int) (Page, error) {
	if page < 1 {
		return Page{}, fmt.Errorf("%w: page must be >= 1", ErrInvalidInput)
	}
	f := s.state.State().Filter
	f.Page = page
	return s.Fetch(ctx, f)
}

// ClearFilters vuelve a la colección sin filtrar.
func (s *Slice) ClearFilters(ctx context.Context) (Page, error) {
	return s.Fetch(ctx, s.state.State().Filter.Cleared())
}

// FetchFeatured trae las primeras n disponibles para la home; no toca el filtro.
func (s *Slice) FetchFeatured(ctx context.Context, n int) ([]Pet, error) {
	f := Filter{Page: 1, Limit: n}.Normalized()
	return store.Run(ctx, s.state, OpFetchFeatured, f, func(ctx context.Context) ([]Pet, error) {
		p, err := s.repo.List(ctx, f)
		return p.Pets, err
	})
}

func (s *Slice) FetchByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, fmt.Errorf("%w: pet id required", ErrInvalidInput)
	}
	return store.Run(ctx, s.state, OpFetchByID, id, func(ctx context.Context) (Pet, error) {
		p, err := s.repo.GetByID(ctx, id)
		if httpclient.IsNotFound(err) {
			return Pet{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return p, err
	})
}

func Reduce(st State, a store.Action) State {
	st.IsLoading = a.InFlight > 0

	switch a.Phase {
	case store.PhasePending:
		st.Error = ""
		switch a.Type {
		case OpFetch:
			st.Filter = a.Arg.(Filter)
		case OpFetchByID:
			st.Current = nil
			st.NotFound = false
		}
	case store.PhaseRejected:
		if a.Stale {
			return st
		}
		if a.Type == OpFetchByID && errors.Is(a.Err, ErrNotFound) {
			st.NotFound = true
			return st
		}
		st.Error = httpclient.MessageOf(a.Err)
	case store.PhaseFulfilled:
		if a.Stale {
			return st
		}
		switch a.Type {
		case OpFetch:
			page := a.Payload.(Page)
			st.Items = clonePets(page.Pets)
			st.Pagination = page.Pagination
		case OpFetchFeatured:
			st.Featured = clonePets(a.Payload.([]Pet))
		case OpFetchByID:
			p := a.Payload.(Pet)
			st.Current = &p
		}
	}
	return st
}

func clonePets(in []Pet) []Pet {
	out := make([]Pet, len(in))
	copy(out, in)
	return out
}
