package shelters

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-adoption-web/internal/platform/httpclient"
)

type SliceFor func(r *http.Request) *Slice

func RegisterRoutes(r chi.Router, sliceFor SliceFor) {
	r.Get("/shelters", listSheltersHandler(sliceFor))
	r.Get("/shelters/{shelterID}", getShelterHandler(sliceFor))
}

type listSheltersResponse struct {
	Shelters   []Shelter  `json:"shelters"`
	Pagination Pagination `json:"pagination"`
	Filter     Filter     `json:"filter"`
}

type shelterResponse struct {
	Shelter  Shelter `json:"shelter"`
	Location string  `json:"location"`
}

type errorResponse struct {
	Message  string `json:"message"`
	NotFound bool   `json:"notFound,omitempty"`
}

// listSheltersHandler godoc
// @Summary Listar refugios
// @Tags shelters
// @Produce json
// @Param city query string false "Ciudad"
// @Param state query string false "Estado / provincia"
// @Param page query int false "Página (desde 1)"
// @Param limit query int false "Tamaño de página"
// @Success 200 {object} listSheltersResponse
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /shelters [get]
func listSheltersHandler(sliceFor SliceFor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := ParseFilter(r.URL.Query())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
			return
		}
		// la respuesta sale de este fetch, no del estado compartido de la sesión
		f = f.Normalized()
		page, err := sliceFor(r).Fetch(r.Context(), f)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, errorResponse{Message: httpclient.MessageOf(err)})
			return
		}
		writeJSON(w, http.StatusOK, listSheltersResponse{Shelters: nonNil(page.Shelters), Pagination: page.Pagination, Filter: f})
	}
}

// getShelterHandler godoc
// @Summary Perfil de refugio
// @Tags shelters
// @Produce json
// @Param shelterID path string true "ID del refugio"
// @Success 200 {object} shelterResponse
// @Failure 404 {object} errorResponse
// @Router /shelters/{shelterID} [get]
func getShelterHandler(sliceFor SliceFor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sliceFor(r)
		sh, err := s.FetchByID(r.Context(), chi.URLParam(r, "shelterID"))
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{Message: "Shelter not found", NotFound: true})
			default:
				writeJSON(w, http.StatusBadGateway, errorResponse{Message: httpclient.MessageOf(err)})
			}
			return
		}
		writeJSON(w, http.StatusOK, shelterResponse{Shelter: sh, Location: sh.Location()})
	}
}

func nonNil(in []Shelter) []Shelter {
	if in == nil {
		return []Shelter{}
	}
	return in
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
