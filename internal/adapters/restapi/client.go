// Package restapi implementa los repositorios de dominio sobre la API REST
// del marketplace (/api). Todas las llamadas comparten el cookie jar del
// httpclient.Client, así la cookie de sesión viaja en cada request.
package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"pet-adoption-web/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("restapi: client not configured")
	ErrBadResponse   = errors.New("restapi: unexpected response")
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// API agrupa los repositorios de una sesión de navegador.
type API struct {
	HTTP *httpclient.Client

	Auth         *AuthRepo
	Pets         *PetsRepo
	Shelters     *SheltersRepo
	Applications *ApplicationsRepo
}

// New crea un API con cookie jar propio. Cada sesión debe tener el suyo.
func New(cfg Config) (*API, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	c, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return NewWithClient(c), nil
}

func NewWithClient(c *httpclient.Client) *API {
	return &API{
		HTTP:         c,
		Auth:         &AuthRepo{c: c},
		Pets:         &PetsRepo{c: c},
		Shelters:     &SheltersRepo{c: c},
		Applications: &ApplicationsRepo{c: c},
	}
}

// unwrap decodifica {"<key>": {...}}; si la clave no está, intenta el body completo.
func unwrap(raw json.RawMessage, key string, out any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty body", ErrBadResponse)
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err == nil {
		if inner, ok := env[key]; ok && string(inner) != "null" {
			raw = inner
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

func idPath(format, id string) string {
	return fmt.Sprintf(format, url.PathEscape(strings.TrimSpace(id)))
}
