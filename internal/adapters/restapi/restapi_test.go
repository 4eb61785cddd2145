package restapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption-web/internal/domain/applications"
	"pet-adoption-web/internal/domain/pets"
	"pet-adoption-web/internal/domain/session"
	"pet-adoption-web/internal/domain/shelters"
	"pet-adoption-web/internal/platform/httpclient"
)

func newAPI(t *testing.T, h http.Handler) *API {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	api, err := New(Config{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return api
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAuth_LoginThenMeCarriesCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var c session.Credentials
		_ = json.NewDecoder(r.Body).Decode(&c)
		if c.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "t1", Path: "/"})
		_, _ = io.WriteString(w, `{"user":{"_id":"u1","email":"a@b.com","role":"shelter","shelterName":"Paws"}}`)
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("token"); err != nil || ck.Value != "t1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Not authenticated"}`)
			return
		}
		// sin envelope
		_, _ = io.WriteString(w, `{"_id":"u1","email":"a@b.com","role":"shelter"}`)
	})
	api := newAPI(t, mux)
	ctx := context.Background()

	_, err := api.Auth.Me(ctx)
	var he *httpclient.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.StatusCode)

	_, err = api.Auth.Login(ctx, session.Credentials{Email: "a@b.com", Password: "bad"})
	assert.EqualError(t, err, "Invalid credentials")

	u, err := api.Auth.Login(ctx, session.Credentials{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, session.RoleShelter, u.Role)
	assert.Equal(t, "Paws", u.ShelterName)

	me, err := api.Auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", me.ID)
}

func TestAuth_RegisterShelterMultipart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register/shelter", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Paws", r.FormValue("shelterName"))
		f, hdr, err := r.FormFile("license")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "lic.pdf", hdr.Filename)
		assert.Equal(t, "%PDF", string(b))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"Registered, pending verification"}`)
	})
	api := newAPI(t, mux)

	u, err := api.Auth.RegisterShelter(context.Background(), session.ShelterRegistration{
		ShelterName: "Paws", Email: "p@paws.org", Password: "secret1", City: "Austin", State: "TX",
		License: &session.File{Filename: "lic.pdf", Content: []byte("%PDF")},
	})
	require.NoError(t, err)
	assert.Empty(t, u.ID, "no user in body means not logged in")
}

func TestPets_ListAndGet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/pets", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "dog", q.Get("species"))
		assert.Equal(t, "TX", q.Get("state"))
		assert.Equal(t, "2", q.Get("page"))
		_, _ = io.WriteString(w, `{"pets":[{"_id":"p1","name":"Rex","species":"dog","age":{"years":2,"months":1},"status":"Available","shelter":{"_id":"s1","shelterName":"Paws"}}],"pagination":{"currentPage":2,"totalPages":3,"totalCount":25}}`)
	})
	mux.HandleFunc("GET /api/pets/p1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"pet":{"_id":"p1","name":"Rex","shelter":"s1"}}`)
	})
	mux.HandleFunc("GET /api/pets/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Pet not found"}`)
	})
	api := newAPI(t, mux)
	ctx := context.Background()

	page, err := api.Pets.List(ctx, pets.Filter{Species: pets.SpeciesDog, State: "TX", Page: 2})
	require.NoError(t, err)
	require.Len(t, page.Pets, 1)
	assert.Equal(t, "Paws", page.Pets[0].Shelter.Label())
	assert.Equal(t, 25, page.Pagination.TotalCount)

	p, err := api.Pets.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "s1", p.Shelter.ID)

	_, err = api.Pets.GetByID(ctx, "missing")
	assert.True(t, httpclient.IsNotFound(err))
}

func TestShelters_ListWithoutPagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/shelters", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Austin", r.URL.Query().Get("city"))
		_, _ = io.WriteString(w, `{"shelters":[{"_id":"s1","shelterName":"Paws","city":"Austin","state":"TX"}]}`)
	})
	mux.HandleFunc("GET /api/shelters/s1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"shelter":{"_id":"s1","shelterName":"Paws"}}`)
	})
	api := newAPI(t, mux)

	page, err := api.Shelters.List(context.Background(), shelters.Filter{City: "Austin"})
	require.NoError(t, err)
	assert.Equal(t, shelters.Pagination{CurrentPage: 1, TotalPages: 1, TotalCount: 1}, page.Pagination)

	s, err := api.Shelters.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Paws", s.ShelterName)
}

func TestApplications_Endpoints(t *testing.T) {
	var patched map[string]any
	var submitted map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/adoptions/submit", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&submitted)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"Application submitted","application":{"_id":"a9","pet":"p1","status":"pending"}}`)
	})
	mux.HandleFunc("GET /api/adoptions/shelter/applications", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"applications":[{"_id":"a1","status":"pending","pet":{"_id":"p1","name":"Rex"},"adopter":{"_id":"u1","name":"Ana"}}]}`)
	})
	mux.HandleFunc("GET /api/adoptions/user", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"_id":"a2","status":"approved"}]`)
	})
	mux.HandleFunc("PATCH /api/adoptions/a1/status", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&patched)
		_, _ = io.WriteString(w, `{"application":{"_id":"a1","status":"rejected","rejectionReason":"No yard"}}`)
	})
	api := newAPI(t, mux)
	ctx := context.Background()

	sub, err := applications.BuildSubmission("p1", applications.FormValues{
		HomeType: "house", HasYard: "true", Ownership: "own", NumberOfAdults: "2",
		HasChildren: "false", HasOtherPets: "false", Reason: "r", Schedule: "s", AgreementAccepted: true,
	})
	require.NoError(t, err)
	a, err := api.Applications.Submit(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, "a9", a.ID)
	assert.Equal(t, "p1", submitted["pet"])
	assert.Equal(t, true, submitted["livingArrangement"].(map[string]any)["hasYard"])

	list, err := api.Applications.ListForShelter(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Rex", list[0].Pet.Name)
	assert.Equal(t, "Ana", list[0].Adopter.Label())

	mine, err := api.Applications.ListForUser(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, applications.StatusApproved, mine[0].Status)

	upd, err := api.Applications.UpdateStatus(ctx, "a1", applications.StatusUpdate{Status: applications.StatusRejected, RejectionReason: "No yard"})
	require.NoError(t, err)
	assert.Equal(t, applications.StatusRejected, upd.Status)
	assert.Equal(t, map[string]any{"status": "rejected", "rejectionReason": "No yard"}, patched)
}
