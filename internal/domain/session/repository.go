package session

import "context"

// Repository es el borde con /auth de la API. La cookie de sesión la maneja el cliente HTTP.
type Repository interface {
	Me(ctx context.Context) (User, error)
	Login(ctx context.Context, c Credentials) (User, error)
	Logout(ctx context.Context) error
	RegisterUser(ctx context.Context, u UserRegistration) (User, error)
	RegisterShelter(ctx context.Context, s ShelterRegistration) (User, error)
	UpdateProfile(ctx context.Context, p ProfileUpdate) (User, error)
}
