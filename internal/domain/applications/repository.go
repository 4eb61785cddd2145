package applications

import (
	"context"
	"time"
)

// Repository es el borde con la API REST de adopciones.
type Repository interface {
	Submit(ctx context.Context, s Submission) (Application, error)
	ListForShelter(ctx context.Context) ([]Application, error)
	ListForUser(ctx context.Context) ([]Application, error)
	UpdateStatus(ctx context.Context, id string, u StatusUpdate) (Application, error)
}

// Draft es el estado del wizard guardado entre requests del BFF.
type Draft struct {
	UserID    string
	PetID     string
	State     WizardState
	UpdatedAt time.Time
}

// DraftRepository persiste borradores por (usuario, mascota).
type DraftRepository interface {
	Save(ctx context.Context, d Draft) error
	Get(ctx context.Context, userID, petID string) (Draft, error)
	Delete(ctx context.Context, userID, petID string) error
}
