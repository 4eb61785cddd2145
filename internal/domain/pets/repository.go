package pets

import "context"

type Repository interface {
	List(ctx context.Context, f Filter) (Page, error)
	GetByID(ctx context.Context, id string) (Pet, error)
}
