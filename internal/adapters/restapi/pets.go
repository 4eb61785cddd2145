package restapi

import (
	"context"
	"encoding/json"
	"net/http"

	"pet-adoption-web/internal/domain/pets"
	"pet-adoption-web/internal/platform/httpclient"
)

// PetsRepo implementa pets.Repository.
type PetsRepo struct {
	c *httpclient.Client
}

func (r *PetsRepo) List(ctx context.Context, f pets.Filter) (pets.Page, error) {
	var out pets.Page
	if err := r.c.DoJSON(ctx, http.MethodGet, "/pets", f.Query(), nil, &out); err != nil {
		return pets.Page{}, err
	}
	if out.Pets == nil {
		out.Pets = []pets.Pet{}
	}
	if out.Pagination.CurrentPage == 0 {
		out.Pagination = pets.Pagination{CurrentPage: f.Normalized().Page, TotalPages: 1, TotalCount: len(out.Pets)}
	}
	return out, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	var raw json.RawMessage
	if err := r.c.DoJSON(ctx, http.MethodGet, idPath("/pets/%s", id), nil, nil, &raw); err != nil {
		return pets.Pet{}, err
	}
	var p pets.Pet
	if err := unwrap(raw, "pet", &p); err != nil {
		return pets.Pet{}, err
	}
	return p, nil
}
