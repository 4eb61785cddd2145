package shelters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption-web/internal/platform/httpclient"
	"pet-adoption-web/internal/platform/logger"
)

type fakeRepo struct {
	shelters []Shelter
	filters  []Filter
}

func (f *fakeRepo) List(ctx context.Context, flt Filter) (Page, error) {
	f.filters = append(f.filters, flt)
	var out []Shelter
	for _, s := range f.shelters {
		if (flt.City == "" || s.City == flt.City) && (flt.State == "" || s.State == flt.State) {
			out = append(out, s)
		}
	}
	return Page{Shelters: out, Pagination: Pagination{CurrentPage: flt.Page, TotalPages: 1, TotalCount: len(out)}}, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Shelter, error) {
	for _, s := range f.shelters {
		if s.ID == id {
			return s, nil
		}
	}
	return Shelter{}, &httpclient.HTTPError{StatusCode: http.StatusNotFound, Message: "Shelter not found"}
}

func sampleShelters() []Shelter {
	return []Shelter{
		{ID: "s1", ShelterName: "Happy Tails", City: "Austin", State: "TX"},
		{ID: "s2", ShelterName: "Paws", City: "Dallas", State: "TX"},
		{ID: "s3", ShelterName: "Whiskers", City: "Denver", State: "CO"},
	}
}

func TestSlice_LocationFilterAndClear(t *testing.T) {
	repo := &fakeRepo{shelters: sampleShelters()}
	s := NewSlice(repo, logger.NewNop())
	ctx := context.Background()

	_, err := s.Fetch(ctx, Filter{State: "TX"})
	require.NoError(t, err)
	assert.Len(t, s.State().Items, 2)

	_, err = s.SetPage(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, Filter{State: "TX", Page: 2, Limit: DefaultLimit}, repo.filters[1])

	_, err = s.ClearFilters(ctx)
	require.NoError(t, err)
	st := s.State()
	assert.Len(t, st.Items, 3)
	assert.Equal(t, Filter{Page: 1, Limit: DefaultLimit}, st.Filter)
}

func TestSlice_FetchByIDNotFound(t *testing.T) {
	s := NewSlice(&fakeRepo{shelters: sampleShelters()}, logger.NewNop())

	_, err := s.FetchByID(context.Background(), "zzz")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, s.State().NotFound)
	assert.Empty(t, s.State().Error)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(url.Values{"city": {" Austin "}, "page": {"3"}})
	require.NoError(t, err)
	assert.Equal(t, Filter{City: "Austin", Page: 3, Limit: DefaultLimit}, f)

	_, err = ParseFilter(url.Values{"limit": {"lots"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "Austin, TX", Shelter{City: "Austin", State: "TX"}.Location())
	assert.Equal(t, "CO", Shelter{State: "CO"}.Location())
}

func TestHandler_Shelters(t *testing.T) {
	s := NewSlice(&fakeRepo{shelters: sampleShelters()}, logger.NewNop())
	r := chi.NewRouter()
	RegisterRoutes(r, func(*http.Request) *Slice { return s })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/shelters?city=Denver", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var list listSheltersResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Shelters, 1)
	assert.Equal(t, "Whiskers", list.Shelters[0].ShelterName)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/shelters/s1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"location":"Austin, TX"`)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/shelters/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
