package session

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption-web/internal/platform/logger"
)

func newTestRouter(s *Slice) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, func(*http.Request) *Slice { return s })
	return r
}

func TestHandler_LoginAndMe(t *testing.T) {
	s := NewSlice(&fakeRepo{}, logger.NewNop())
	h := newTestRouter(s)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"guard":"pending"`)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.com","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid credentials")

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.com","password":"secret1"}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Contains(t, rr.Body.String(), `"guard":"allowed"`)
}

func TestHandler_LoginValidation(t *testing.T) {
	h := newTestRouter(NewSlice(&fakeRepo{}, logger.NewNop()))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":""}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"email"`)
}

func TestHandler_RegisterShelterMultipart(t *testing.T) {
	repo := &fakeRepo{}
	h := newTestRouter(NewSlice(repo, logger.NewNop()))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"shelterName": "Paws", "email": "p@paws.org", "password": "secret1", "city": "Austin", "state": "TX",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("license", "license.pdf")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("%PDF-1.4"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/register/shelter", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Len(t, repo.shelters, 1)
	assert.Equal(t, "license.pdf", repo.shelters[0].License.Filename)
	assert.Equal(t, []byte("%PDF-1.4"), repo.shelters[0].License.Content)
}

func TestHandler_UpdateProfileAnonymous(t *testing.T) {
	h := newTestRouter(NewSlice(&fakeRepo{}, logger.NewNop()))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/me/profile", strings.NewReader(`{"name":"Ana"}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
