package shelters

import "context"

type Repository interface {
	List(ctx context.Context, f Filter) (Page, error)
	GetByID(ctx context.Context, id string) (Shelter, error)
}
