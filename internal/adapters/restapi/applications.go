package restapi

import (
	"context"
	"encoding/json"
	"net/http"

	"pet-adoption-web/internal/domain/applications"
	"pet-adoption-web/internal/platform/httpclient"
)

// ApplicationsRepo implementa applications.Repository sobre /adoptions.
type ApplicationsRepo struct {
	c *httpclient.Client
}

func (r *ApplicationsRepo) Submit(ctx context.Context, s applications.Submission) (applications.Application, error) {
	return r.one(ctx, http.MethodPost, "/adoptions/submit", s)
}

func (r *ApplicationsRepo) ListForShelter(ctx context.Context) ([]applications.Application, error) {
	return r.list(ctx, "/adoptions/shelter/applications")
}

func (r *ApplicationsRepo) ListForUser(ctx context.Context) ([]applications.Application, error) {
	return r.list(ctx, "/adoptions/user")
}

func (r *ApplicationsRepo) UpdateStatus(ctx context.Context, id string, u applications.StatusUpdate) (applications.Application, error) {
	return r.one(ctx, http.MethodPatch, idPath("/adoptions/%s/status", id), u)
}

func (r *ApplicationsRepo) one(ctx context.Context, method, path string, in any) (applications.Application, error) {
	var raw json.RawMessage
	if err := r.c.DoJSON(ctx, method, path, nil, in, &raw); err != nil {
		return applications.Application{}, err
	}
	var a applications.Application
	if err := unwrap(raw, "application", &a); err != nil {
		return applications.Application{}, err
	}
	return a, nil
}

func (r *ApplicationsRepo) list(ctx context.Context, path string) ([]applications.Application, error) {
	var raw json.RawMessage
	if err := r.c.DoJSON(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}
	out := []applications.Application{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := unwrap(raw, "applications", &out); err != nil {
		return nil, err
	}
	return out, nil
}
