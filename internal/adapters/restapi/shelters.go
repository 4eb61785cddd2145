package restapi

import (
	"context"
	"encoding/json"
	"net/http"

	"pet-adoption-web/internal/domain/shelters"
	"pet-adoption-web/internal/platform/httpclient"
)

// SheltersRepo implementa shelters.Repository.
type SheltersRepo struct {
	c *httpclient.Client
}

func (r *SheltersRepo) List(ctx context.Context, f shelters.Filter) (shelters.Page, error) {
	var out shelters.Page
	if err := r.c.DoJSON(ctx, http.MethodGet, "/shelters", f.Query(), nil, &out); err != nil {
		return shelters.Page{}, err
	}
	if out.Shelters == nil {
		out.Shelters = []shelters.Shelter{}
	}
	if out.Pagination.CurrentPage == 0 {
		out.Pagination = shelters.Pagination{CurrentPage: f.Normalized().Page, TotalPages: 1, TotalCount: len(out.Shelters)}
	}
	return out, nil
}

func (r *SheltersRepo) GetByID(ctx context.Context, id string) (shelters.Shelter, error) {
	var raw json.RawMessage
	if err := r.c.DoJSON(ctx, http.MethodGet, idPath("/shelters/%s", id), nil, nil, &raw); err != nil {
		return shelters.Shelter{}, err
	}
	var s shelters.Shelter
	if err := unwrap(raw, "shelter", &s); err != nil {
		return shelters.Shelter{}, err
	}
	return s, nil
}
