package pets

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-adoption-web/internal/platform/httpclient"
)

// SliceFor devuelve el slice de mascotas de la sesión del request.
type SliceFor func(r *http.Request) *Slice

func RegisterRoutes(r chi.Router, sliceFor SliceFor) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(sliceFor))
		pr.Get("/{petID}", getPetHandler(sliceFor))
	})
}

type listPetsResponse struct {
	Pets       []Pet      `json:"pets"`
	Pagination Pagination `json:"pagination"`
	Filter     Filter     `json:"filter"`
}

type petResponse struct {
	Pet       Pet    `json:"pet"`
	AgeLabel  string `json:"ageLabel"`
	Adoptable bool   `json:"adoptable"`
}

type errorResponse struct {
	Message  string `json:"message"`
	NotFound bool   `json:"notFound,omitempty"`
}

// listPetsHandler godoc
// @Summary Buscar mascotas
// @Description Busca mascotas con filtros y paginación. Cada búsqueda reemplaza la colección de la sesión.
// @Tags pets
// @Produce json
// @Param species query string false "dog, cat, bird, rabbit, other"
// @Param city query string false "Ciudad"
// @Param state query string false "Estado / provincia"
// @Param shelterId query string false "ID del refugio"
// @Param ageRange query string false "baby, young, adult, senior"
// @Param gender query string false "male, female"
// @Param page query int false "Página (desde 1)"
// @Param limit query int false "Tamaño de página"
// @Success 200 {object} listPetsResponse
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /pets [get]
func listPetsHandler(sliceFor SliceFor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := ParseFilter(r.URL.Query())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
			return
		}

		page, err := sliceFor(r).Fetch(r.Context(), f)
		switch {
		case err == nil:
		case errors.Is(err, ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
			return
		default:
			writeJSON(w, http.StatusBadGateway, errorResponse{Message: httpclient.MessageOf(err)})
			return
		}

		// otro fetch de la misma sesión puede haber ganado el estado compartido
		pets := page.Pets
		if pets == nil {
			pets = []Pet{}
		}
		writeJSON(w, http.StatusOK, listPetsResponse{
			Pets:       pets,
			Pagination: page.Pagination,
			Filter:     f.Normalized(),
		})
	}
}

// getPetHandler godoc
// @Summary Perfil de mascota
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 404 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /pets/{petID} [get]
func getPetHandler(sliceFor SliceFor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := sliceFor(r).FetchByID(r.Context(), chi.URLParam(r, "petID"))
		switch {
		case err == nil:
		case errors.Is(err, ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
			return
		case errors.Is(err, ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Message: "Pet not found", NotFound: true})
			return
		default:
			writeJSON(w, http.StatusBadGateway, errorResponse{Message: httpclient.MessageOf(err)})
			return
		}

		writeJSON(w, http.StatusOK, petResponse{Pet: p, AgeLabel: p.Age.String(), Adoptable: p.Adoptable()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
