package shelters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption-web/internal/platform/httpclient"
	"pet-adoption-web/internal/platform/logger"
)

// gatedRepo retiene los List de una ciudad hasta que se cierre release.
type gatedRepo struct {
	shelters []Shelter
	holdCity string
	holdErr  error
	started  chan struct{}
	release  chan struct{}
}

func (g *gatedRepo) List(ctx context.Context, flt Filter) (Page, error) {
	if flt.City == g.holdCity {
		close(g.started)
		<-g.release
		if g.holdErr != nil {
			return Page{}, g.holdErr
		}
	}
	var out []Shelter
	for _, s := range g.shelters {
		if flt.City == "" || s.City == flt.City {
			out = append(out, s)
		}
	}
	return Page{Shelters: out, Pagination: Pagination{CurrentPage: flt.Page, TotalPages: 1, TotalCount: len(out)}}, nil
}

func (g *gatedRepo) GetByID(ctx context.Context, id string) (Shelter, error) {
	return Shelter{}, &httpclient.HTTPError{StatusCode: http.StatusNotFound, Message: "Shelter not found"}
}

func serveHeld(t *testing.T, s *Slice, target string) (*httptest.ResponseRecorder, chan struct{}) {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, func(*http.Request) *Slice { return s })

	rr := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	}()
	return rr, done
}

func TestHandler_ListAnswersWithOwnFetchWhenSuperseded(t *testing.T) {
	repo := &gatedRepo{shelters: sampleShelters(), holdCity: "Denver", started: make(chan struct{}), release: make(chan struct{})}
	s := NewSlice(repo, logger.NewNop())

	rr, done := serveHeld(t, s, "/shelters?city=Denver")
	<-repo.started

	// otro fetch de la misma sesión termina primero y gana el estado compartido
	_, err := s.Fetch(context.Background(), Filter{Page: 1, Limit: 3})
	require.NoError(t, err)
	close(repo.release)
	<-done

	require.Equal(t, http.StatusOK, rr.Code)
	var body listSheltersResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Shelters, 1)
	assert.Equal(t, "Whiskers", body.Shelters[0].ShelterName)
	assert.Equal(t, "Denver", body.Filter.City)
	assert.Equal(t, DefaultLimit, body.Filter.Limit)
	assert.Equal(t, 1, body.Pagination.TotalCount)

	assert.Len(t, s.State().Items, 3, "the newer fetch still owns the slice")
}

func TestHandler_ListReportsOwnFailureWhenSuperseded(t *testing.T) {
	repo := &gatedRepo{
		shelters: sampleShelters(),
		holdCity: "Denver",
		holdErr:  &httpclient.HTTPError{StatusCode: http.StatusInternalServerError, Message: "upstream down"},
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	s := NewSlice(repo, logger.NewNop())

	rr, done := serveHeld(t, s, "/shelters?city=Denver")
	<-repo.started
	_, err := s.Fetch(context.Background(), Filter{})
	require.NoError(t, err)
	close(repo.release)
	<-done

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "upstream down")
	assert.Empty(t, s.State().Error, "stale failure is not recorded in the slice")
}

func TestSlice_FetchFeaturedKeepsListFilter(t *testing.T) {
	repo := &fakeRepo{shelters: sampleShelters()}
	s := NewSlice(repo, logger.NewNop())
	ctx := context.Background()

	_, err := s.Fetch(ctx, Filter{State: "TX"})
	require.NoError(t, err)

	featured, err := s.FetchFeatured(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, featured, 3)

	st := s.State()
	assert.Equal(t, "TX", st.Filter.State)
	assert.Len(t, st.Items, 2)
	assert.Len(t, st.Featured, 3)
}
