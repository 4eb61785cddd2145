package applications

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-adoption-web/internal/middleware"
	"pet-adoption-web/internal/platform/httpclient"
)

type SliceFor func(r *http.Request) *Slice

// Guards son los middlewares de acceso por grupo de rutas (los arma el router).
type Guards struct {
	Apply         func(http.Handler) http.Handler // adoptantes
	Review        func(http.Handler) http.Handler // refugios / admin
	Authenticated func(http.Handler) http.Handler // cualquier usuario
}

type Handlers struct {
	slices SliceFor
	drafts DraftRepository
	now    func() time.Time
}

func NewHandlers(slices SliceFor, drafts DraftRepository) *Handlers {
	return &Handlers{slices: slices, drafts: drafts, now: time.Now}
}

func RegisterRoutes(r chi.Router, h *Handlers, g Guards) {
	r.With(g.Apply).Route("/apply/{petID}", func(ar chi.Router) {
		ar.Get("/", h.getWizard)
		ar.Put("/", h.putWizard)
		ar.Post("/continue", h.continueWizard)
		ar.Post("/back", h.backWizard)
		ar.Post("/submit", h.submitWizard)
	})

	r.With(g.Authenticated).Get("/me/applications", h.listMine)

	r.With(g.Review).Route("/shelter/applications", func(sr chi.Router) {
		sr.Get("/", h.listShelter)
		sr.Post("/{applicationID}/approve", h.approve)
		sr.Post("/{applicationID}/reject", h.reject)
	})
}

// -------------------------
// Views
// -------------------------

type fieldView struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
	Min      int       `json:"min,omitempty"`
	MaxLen   int       `json:"maxLength,omitempty"`
	Disabled bool      `json:"disabled"`
	Value    string    `json:"value"`
	Error    string    `json:"error,omitempty"`
}

type wizardView struct {
	PetID        string      `json:"petId"`
	Section      Section     `json:"section"`
	SectionTitle string      `json:"sectionTitle"`
	SectionCount int         `json:"sectionCount"`
	Progress     int         `json:"progress"`
	IsFirst      bool        `json:"isFirst"`
	IsLast       bool        `json:"isLast"`
	CanSubmit    bool        `json:"canSubmit"`
	Fields       []fieldView `json:"fields"`
	Errors       FieldErrors `json:"errors,omitempty"`
}

type wizardResponse struct {
	Message string     `json:"message,omitempty"`
	Wizard  wizardView `json:"wizard"`
}

type submitResponse struct {
	Success     bool        `json:"success"`
	Application Application `json:"application"`
}

type updateWizardRequest struct {
	Values map[string]any `json:"values"`
}

type rejectRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

type listResponse struct {
	Applications []Application `json:"applications"`
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func viewOf(w *Wizard) wizardView {
	errs := w.Errors()
	fs := Fields(w.Current())
	out := make([]fieldView, 0, len(fs))
	for _, f := range fs {
		v, _ := w.Values().Get(f.Name)
		out = append(out, fieldView{
			Name:     f.Name,
			Label:    f.Label,
			Kind:     f.Kind,
			Required: f.Required,
			Options:  f.Options,
			Min:      f.Min,
			MaxLen:   f.MaxLen,
			Disabled: w.FieldDisabled(f.Name),
			Value:    v,
			Error:    errs[f.Name],
		})
	}
	return wizardView{
		PetID:        w.PetID(),
		Section:      w.Current(),
		SectionTitle: w.Current().Title(),
		SectionCount: SectionCount,
		Progress:     w.Progress(),
		IsFirst:      w.IsFirst(),
		IsLast:       w.IsLast(),
		CanSubmit:    w.CanSubmit(),
		Fields:       out,
		Errors:       errs,
	}
}

// -------------------------
// Wizard
// -------------------------

// getWizard godoc
// @Summary Formulario de adopción
// @Description Devuelve la sección actual del formulario (retoma el borrador si existe).
// @Tags applications
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} wizardResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Router /apply/{petID} [get]
func (h *Handlers) getWizard(w http.ResponseWriter, r *http.Request) {
	wz, _, ok := h.loadWizard(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, wizardResponse{Wizard: viewOf(wz)})
}

// putWizard godoc
// @Summary Guardar campos del formulario
// @Tags applications
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body updateWizardRequest true "Valores por nombre de campo"
// @Success 200 {object} wizardResponse
// @Failure 400 {object} errorResponse
// @Router /apply/{petID} [put]
func (h *Handlers) putWizard(w http.ResponseWriter, r *http.Request) {
	var req updateWizardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid json"})
		return
	}
	wz, userID, ok := h.loadWizard(w, r)
	if !ok {
		return
	}
	if err := wz.Merge(stringValues(req.Values)); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}
	if !h.saveWizard(w, r, userID, wz) {
		return
	}
	writeJSON(w, http.StatusOK, wizardResponse{Wizard: viewOf(wz)})
}

// continueWizard godoc
// @Summary Avanzar de sección
// @Description Valida la sección actual; si es válida pasa a la siguiente.
// @Tags applications
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} wizardResponse
// @Failure 422 {object} wizardResponse "errores inline en wizard.errors"
// @Router /apply/{petID}/continue [post]
func (h *Handlers) continueWizard(w http.ResponseWriter, r *http.Request) {
	wz, userID, ok := h.loadWizard(w, r)
	if !ok {
		return
	}
	if !wz.Advance() {
		writeJSON(w, http.StatusUnprocessableEntity, wizardResponse{Message: ErrValidation.Error(), Wizard: viewOf(wz)})
		return
	}
	if !h.saveWizard(w, r, userID, wz) {
		return
	}
	writeJSON(w, http.StatusOK, wizardResponse{Wizard: viewOf(wz)})
}

// backWizard godoc
// @Summary Volver una sección
// @Tags applications
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} wizardResponse
// @Router /apply/{petID}/back [post]
func (h *Handlers) backWizard(w http.ResponseWriter, r *http.Request) {
	wz, userID, ok := h.loadWizard(w, r)
	if !ok {
		return
	}
	if wz.Retreat() && !h.saveWizard(w, r, userID, wz) {
		return
	}
	writeJSON(w, http.StatusOK, wizardResponse{Wizard: viewOf(wz)})
}

// submitWizard godoc
// @Summary Enviar solicitud de adopción
// @Description Solo desde la última sección. Revalida todo el formulario antes de enviar.
// @Tags applications
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 201 {object} submitResponse
// @Failure 409 {object} wizardResponse "no está en la última sección"
// @Failure 422 {object} wizardResponse
// @Failure 502 {object} wizardResponse
// @Router /apply/{petID}/submit [post]
func (h *Handlers) submitWizard(w http.ResponseWriter, r *http.Request) {
	wz, userID, ok := h.loadWizard(w, r)
	if !ok {
		return
	}

	app, err := wz.Submit(r.Context(), h.slices(r))
	if err != nil {
		status := http.StatusBadGateway
		var he *httpclient.HTTPError
		switch {
		case errors.Is(err, ErrNotOnFinalSection):
			status = http.StatusConflict
		case errors.Is(err, ErrValidation):
			status = http.StatusUnprocessableEntity
		case errors.As(err, &he) && he.StatusCode >= 400 && he.StatusCode < 500:
			status = he.StatusCode
		}
		writeJSON(w, status, wizardResponse{Message: httpclient.MessageOf(err), Wizard: viewOf(wz)})
		return
	}

	// la solicitud ya se creó; si falla el borrado, el borrador vence solo
	_ = h.drafts.Delete(r.Context(), userID, wz.PetID())
	writeJSON(w, http.StatusCreated, submitResponse{Success: true, Application: app})
}

func (h *Handlers) loadWizard(w http.ResponseWriter, r *http.Request) (*Wizard, string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "unauthorized"})
		return nil, "", false
	}
	petID := strings.TrimSpace(chi.URLParam(r, "petID"))
	if petID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "pet id required"})
		return nil, "", false
	}

	d, err := h.drafts.Get(r.Context(), claims.UserID, petID)
	switch {
	case err == nil:
		d.State.PetID = petID
		return RestoreWizard(d.State), claims.UserID, true
	case errors.Is(err, ErrNotFound):
		return NewWizard(petID), claims.UserID, true
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "could not load draft"})
		return nil, "", false
	}
}

func (h *Handlers) saveWizard(w http.ResponseWriter, r *http.Request, userID string, wz *Wizard) bool {
	err := h.drafts.Save(r.Context(), Draft{
		UserID:    userID,
		PetID:     wz.PetID(),
		State:     wz.Snapshot(),
		UpdatedAt: h.now(),
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "could not save draft"})
		return false
	}
	return true
}

// stringValues pasa los valores JSON (string, bool, número) a su forma de formulario.
func stringValues(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch t := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = t
		case bool:
			out[k] = strconv.FormatBool(t)
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}

// -------------------------
// Listados y revisión
// -------------------------

// listMine godoc
// @Summary Mis solicitudes
// @Tags applications
// @Produce json
// @Success 200 {object} listResponse
// @Router /me/applications [get]
func (h *Handlers) listMine(w http.ResponseWriter, r *http.Request) {
	list, err := h.slices(r).FetchUserApplications(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Applications: nonNilList(list)})
}

// listShelter godoc
// @Summary Solicitudes recibidas por el refugio
// @Tags applications
// @Produce json
// @Success 200 {object} listResponse
// @Failure 403 {object} errorResponse
// @Router /shelter/applications [get]
func (h *Handlers) listShelter(w http.ResponseWriter, r *http.Request) {
	list, err := h.slices(r).FetchShelterApplications(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Applications: nonNilList(list)})
}

// approve godoc
// @Summary Aprobar solicitud
// @Tags applications
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Success 200 {object} Application
// @Failure 409 {object} errorResponse "ya revisada"
// @Router /shelter/applications/{applicationID}/approve [post]
func (h *Handlers) approve(w http.ResponseWriter, r *http.Request) {
	h.updateStatus(w, r, StatusUpdate{Status: StatusApproved})
}

// reject godoc
// @Summary Rechazar solicitud
// @Description El motivo es obligatorio; sin motivo no se llama a la API.
// @Tags applications
// @Accept json
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Param payload body rejectRequest true "Motivo del rechazo"
// @Success 200 {object} Application
// @Failure 422 {object} errorResponse
// @Failure 409 {object} errorResponse "ya revisada"
// @Router /shelter/applications/{applicationID}/reject [post]
func (h *Handlers) reject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid json"})
			return
		}
	}
	h.updateStatus(w, r, StatusUpdate{Status: StatusRejected, RejectionReason: req.RejectionReason})
}

func (h *Handlers) updateStatus(w http.ResponseWriter, r *http.Request, u StatusUpdate) {
	s := h.slices(r)
	app, err := s.UpdateApplication(r.Context(), chi.URLParam(r, "applicationID"), u)
	if err != nil {
		switch {
		case errors.Is(err, ErrRejectionReasonRequired):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Message: err.Error(),
				Errors:  map[string]string{"rejectionReason": err.Error()},
			})
		case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		case errors.Is(err, ErrTerminalStatus):
			writeJSON(w, http.StatusConflict, errorResponse{Message: err.Error()})
		default:
			writeUpstreamError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func writeUpstreamError(w http.ResponseWriter, err error) {
	var he *httpclient.HTTPError
	if errors.As(err, &he) && he.StatusCode >= 400 && he.StatusCode < 500 {
		writeJSON(w, he.StatusCode, errorResponse{Message: he.Error(), Errors: he.FieldErrors})
		return
	}
	writeJSON(w, http.StatusBadGateway, errorResponse{Message: httpclient.MessageOf(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nonNilList(in []Application) []Application {
	if in == nil {
		return []Application{}
	}
	return in
}
