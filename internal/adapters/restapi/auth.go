package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"pet-adoption-web/internal/domain/session"
	"pet-adoption-web/internal/platform/httpclient"
)

// AuthRepo implementa session.Repository sobre /auth.
type AuthRepo struct {
	c *httpclient.Client
}

func (r *AuthRepo) Me(ctx context.Context) (session.User, error) {
	return r.userCall(ctx, http.MethodGet, "/auth/me", nil)
}

func (r *AuthRepo) Login(ctx context.Context, c session.Credentials) (session.User, error) {
	return r.userCall(ctx, http.MethodPost, "/auth/login", c)
}

func (r *AuthRepo) Logout(ctx context.Context) error {
	return r.c.DoJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (r *AuthRepo) RegisterUser(ctx context.Context, u session.UserRegistration) (session.User, error) {
	return r.userCall(ctx, http.MethodPost, "/auth/register/user", u)
}

func (r *AuthRepo) RegisterShelter(ctx context.Context, s session.ShelterRegistration) (session.User, error) {
	var files []httpclient.FilePart
	if s.License != nil {
		files = append(files, httpclient.FilePart{
			Field:    "license",
			Filename: s.License.Filename,
			Content:  bytes.NewReader(s.License.Content),
		})
	}
	var raw json.RawMessage
	if err := r.c.DoMultipart(ctx, http.MethodPost, "/auth/register/shelter", s.Fields(), files, &raw); err != nil {
		return session.User{}, err
	}
	return decodeUser(raw)
}

func (r *AuthRepo) UpdateProfile(ctx context.Context, p session.ProfileUpdate) (session.User, error) {
	return r.userCall(ctx, http.MethodPut, "/auth/update-profile", p)
}

func (r *AuthRepo) userCall(ctx context.Context, method, path string, in any) (session.User, error) {
	var raw json.RawMessage
	if err := r.c.DoJSON(ctx, method, path, nil, in, &raw); err != nil {
		return session.User{}, err
	}
	return decodeUser(raw)
}

// decodeUser acepta {"user": {...}} o el usuario suelto. Registrar sin
// iniciar sesión puede devolver solo {"message": "..."}: usuario vacío.
func decodeUser(raw json.RawMessage) (session.User, error) {
	if len(raw) == 0 {
		return session.User{}, nil
	}
	var u session.User
	if err := unwrap(raw, "user", &u); err != nil {
		return session.User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}
