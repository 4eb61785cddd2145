package shelters

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
	OpFetch         = "fetchShelters"
	OpFetchFeatured = "fetchFeaturedShelters"
	OpFetchByID     = "fetchShelterById"
)

type State struct {
	Items      []Shelter  `json:"shelters"`
	Featured   []Shelter  `json:"featured,omitempty"`
	Current    *Shelter   `json:"shelter,omitempty"`
	NotFound   bool       `json:"notFound"`
	Filter     Filter     `json:"filter"`
	Pagination Pagination `json:"pagination"`
	IsLoading  bool       `json:"isLoading"`
	Error      string     `json:"error,omitempty"`
}

type Slice struct {
	repo  Repository
	state *store.Slice[State]
}

func NewSlice(repo Repository, log logger.Logger) *Slice {
	return &Slice{
		repo:  repo,
		state: store.New("shelters", State{Filter: Filter{}.Normalized()}, Reduce, log),
	}
}

func (s *Slice) State() State { return s.state.State() }

func (s *Slice) Subscribe(fn func(State)) func() { return s.state.Subscribe(fn) }

func (s *Slice) Fetch(ctx context.Context, f Filter) (Page, error) {
	f = f.Normalized()
	return store.Run(ctx, s.state, OpFetch, f, func(ctx context.Context) (Page, error) {
		return s.repo.List(ctx, f)
	})
}

func (s *Slice) SetPage(ctx context.Context, page int) (Page, error) {
	if page < 1 {
		return Page{}, fmt.Errorf("%w: page must be >= 1", ErrInvalidInput)
	}
	f := s.state.State().Filter
	f.Page = page
	return s.Fetch(ctx, f)
}

func (s *Slice) ClearFilters(ctx context.Context) (Page, error) {
	return s.Fetch(ctx, s.state.State().Filter.Cleared())
}

// FetchFeatured trae los primeros n refugios para la home; no toca el filtro ni el listado.
func (s *Slice) FetchFeatured(ctx context.Context, n int) ([]Shelter, error) {
	f := Filter{Page: 1, Limit: n}.Normalized()
	return store.Run(ctx, s.state, OpFetchFeatured, f, func(ctx context.Context) ([]Shelter, error) {
		p, err := s.repo.List(ctx, f)
		return p.Shelters, err
	})
}

func (s *Slice) FetchByID(ctx context.Context, id string) (Shelter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Shelter{}, fmt.Errorf("%w: shelter id required", ErrInvalidInput)
	}
	return store.Run(ctx, s.state, OpFetchByID, id, func(ctx context.Context) (Shelter, error) {
		sh, err := s.repo.GetByID(ctx, id)
		if httpclient.IsNotFound(err) {
			return Shelter{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return sh, err
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
			st.Items = make([]Shelter, len(page.Shelters))
			copy(st.Items, page.Shelters)
			st.Pagination = page.Pagination
		case OpFetchFeatured:
			featured := a.Payload.([]Shelter)
			st.Featured = make([]Shelter, len(featured))
			copy(st.Featured, featured)
		case OpFetchByID:
			sh := a.Payload.(Shelter)
			st.Current = &sh
		}
	}
	return st
}
