package rolemap

import (
	"context"
	"errors"
	"os"
	"strings"

	"pet-adoption-web/internal/ports/capabilities"
)

var ErrUnknownRole = errors.New("unknown role")

// Default es el mapa rol -> capabilities del marketplace.
var Default = map[string][]capabilities.Capability{
	"adopter": {capabilities.SubmitApplications},
	"shelter": {capabilities.ReviewApplications},
	"admin":   {capabilities.ReviewApplications, capabilities.ManageShelters},
}

// Resolver decide capabilities a partir del rol, sin llamadas remotas.
type Resolver struct {
	roles    map[string]map[capabilities.Capability]bool
	allowAll bool
}

// NewResolver crea un resolver con el mapa dado (nil => Default).
// Si ALLOW_ALL_CAPABILITIES=true (env), todo devuelve true (modo dev).
func NewResolver(m map[string][]capabilities.Capability) *Resolver {
	if m == nil {
		m = Default
	}
	roles := make(map[string]map[capabilities.Capability]bool, len(m))
	for role, caps := range m {
		set := make(map[capabilities.Capability]bool, len(caps))
		for _, c := range caps {
			set[c] = true
		}
		roles[strings.ToLower(role)] = set
	}
	return &Resolver{
		roles:    roles,
		allowAll: strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_ALL_CAPABILITIES")), "true"),
	}
}

func (r *Resolver) Has(ctx context.Context, role string, c capabilities.Capability) (bool, error) {
	if strings.TrimSpace(string(c)) == "" {
		return false, errors.New("capability required")
	}
	if r.allowAll {
		return true, nil
	}
	set, ok := r.roles[strings.ToLower(strings.TrimSpace(role))]
	if !ok {
		return false, ErrUnknownRole
	}
	return set[c], nil
}

func (r *Resolver) Resolve(ctx context.Context, role string) (map[capabilities.Capability]bool, error) {
	if r.allowAll {
		return map[capabilities.Capability]bool{"*": true}, nil
	}
	set, ok := r.roles[strings.ToLower(strings.TrimSpace(role))]
	if !ok {
		return nil, ErrUnknownRole
	}
	out := make(map[capabilities.Capability]bool, len(set))
	for k, v := range set {
		out[k] = v
	}
	return out, nil
}
