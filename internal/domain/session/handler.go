package session

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-adoption-web/internal/platform/httpclient"
)

type SliceFor func(r *http.Request) *Slice

const maxLicenseBytes = 10 << 20

func RegisterRoutes(r chi.Router, sliceFor SliceFor) {
	r.Post("/login", loginHandler(sliceFor))
	r.Post("/logout", logoutHandler(sliceFor))
	r.Post("/register/user", registerUserHandler(sliceFor))
	r.Post("/register/shelter", registerShelterHandler(sliceFor))
	r.Get("/me", meHandler(sliceFor))
	r.Put("/me/profile", updateProfileHandler(sliceFor))
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type userResponse struct {
	User *User `json:"user"`
}

type meResponse struct {
	User    *User  `json:"user"`
	Checked bool   `json:"checked"`
	Guard   string `json:"guard"`
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body Credentials true "Email y contraseña"
// @Success 200 {object} userResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /login [post]
func loginHandler(sliceFor SliceFor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid json"})
			return
		}
		u, err := sliceFor(r).Login(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, userResponse{User: &u})
	}
}

// logoutHandler godoc
// @Summary Cerrar sesión
// @Tags auth
// @Success 204
// @Router /logout [post]
func logoutHandler(sliceFor SliceFor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sliceFor(r).Logout(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// registerUserHandler godoc
// @Summary Registrar adoptante
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body UserRegistration true "Datos del adoptante"
// @Success 201 {object} userResponse
// @Failure 400 {object} errorResponse
// @Router /register/user [post]
func registerUserHandler(sliceFor SliceFor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UserRegistration
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid json"})
			return
		}
		s := sliceFor(r)
		if _, err := s.RegisterUser(r.Context(), req); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, userResponse{User: s.State().User})
	}
}

// registerShelterHandler godoc
// @Summary Registrar refugio
// @Description Multipart con los datos del refugio y el archivo de licencia en el campo `license`.
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param shelterName formData string true "Nombre del refugio"
// @Param email formData string true "Email"
// @Param password formData string true "Contraseña"
// @Param city formData string true "Ciudad"
// @Param state formData string true "Estado"
// @Param license formData file true "Licencia"
// @Success 201 {object} userResponse
// @Failure 400 {object} errorResponse
// @Router /register/shelter [post]
func registerShelterHandler(sliceFor SliceFor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxLicenseBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid multipart form"})
			return
		}
		reg := ShelterRegistration{
			ShelterName: r.FormValue("shelterName"),
			Email:       r.FormValue("email"),
			Password:    r.FormValue("password"),
			Phone:       r.FormValue("phone"),
			Address:     r.FormValue("address"),
			City:        r.FormValue("city"),
			State:       r.FormValue("state"),
			Description: r.FormValue("description"),
		}
		if f, hdr, err := r.FormFile("license"); err == nil {
			content, err := io.ReadAll(io.LimitReader(f, maxLicenseBytes))
			_ = f.Close()
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Message: "could not read license"})
				return
			}
			reg.License = &File{Filename: hdr.Filename, Content: content}
		}

		s := sliceFor(r)
		if _, err := s.RegisterShelter(r.Context(), reg); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, userResponse{User: s.State().User})
	}
}

// meHandler godoc
// @Summary Estado de la sesión
// @Description Devuelve el usuario (o null) y si la verificación de sesión ya terminó.
// @Tags auth
// @Produce json
// @Success 200 {object} meResponse
// @Router /me [get]
func meHandler(sliceFor SliceFor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := sliceFor(r).State()
		writeJSON(w, http.StatusOK, meResponse{User: st.User, Checked: st.Checked, Guard: Evaluate(st).String()})
	}
}

// updateProfileHandler godoc
// @Summary Actualizar perfil
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body ProfileUpdate true "Campos a actualizar"
// @Success 200 {object} userResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /me/profile [put]
func updateProfileHandler(sliceFor SliceFor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProfileUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid json"})
			return
		}
		u, err := sliceFor(r).UpdateProfile(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, userResponse{User: &u})
	}
}

func writeError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	var he *httpclient.HTTPError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error(), Errors: verr.Fields})
	case errors.Is(err, ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: err.Error()})
	case errors.As(err, &he) && he.StatusCode >= 400 && he.StatusCode < 500:
		writeJSON(w, he.StatusCode, errorResponse{Message: he.Error(), Errors: he.FieldErrors})
	default:
		writeJSON(w, http.StatusBadGateway, errorResponse{Message: httpclient.MessageOf(err)})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
