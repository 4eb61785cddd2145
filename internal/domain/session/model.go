package session

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("not authenticated")
	ErrValidation    = errors.New("please fix the highlighted fields")
	ErrLicenseNeeded = errors.New("shelter license file is required")
)

// Role del usuario autenticado.
// @Enum adopter, shelter, admin
type Role string

const (
	RoleAdopter Role = "adopter"
	RoleShelter Role = "shelter"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleAdopter || r == RoleShelter || r == RoleAdmin
}

// User existe solo mientras hay sesión.
type User struct {
	ID          string `json:"_id"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	Phone       string `json:"phone,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	ShelterName string `json:"shelterName,omitempty"`
}

// DisplayName nombre a mostrar: refugio, nombre o email.
func (u User) DisplayName() string {
	switch {
	case strings.TrimSpace(u.ShelterName) != "":
		return u.ShelterName
	case strings.TrimSpace(u.Name) != "":
		return u.Name
	default:
		return u.Email
	}
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserRegistration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
}

// File es un adjunto de formulario (licencia del refugio).
type File struct {
	Filename string
	Content  []byte
}

type ShelterRegistration struct {
	ShelterName string
	Email       string
	Password    string
	Phone       string
	Address     string
	City        string
	State       string
	Description string
	License     *File
}

// Fields campos de texto tal como viajan en el multipart.
func (s ShelterRegistration) Fields() map[string]string {
	out := map[string]string{
		"shelterName": strings.TrimSpace(s.ShelterName),
		"email":       strings.TrimSpace(s.Email),
		"password":    s.Password,
		"phone":       strings.TrimSpace(s.Phone),
		"address":     strings.TrimSpace(s.Address),
		"city":        strings.TrimSpace(s.City),
		"state":       strings.TrimSpace(s.State),
		"description": strings.TrimSpace(s.Description),
	}
	for k, v := range out {
		if v == "" {
			delete(out, k)
		}
	}
	return out
}

// ProfileUpdate body de PUT /auth/update-profile. Vacío = no tocar.
type ProfileUpdate struct {
	Name        string `json:"name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	ShelterName string `json:"shelterName,omitempty"`
	Description string `json:"description,omitempty"`
}

const minPasswordLen = 6

// ValidationError errores por campo detectados antes de llamar a la API.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (%d fields)", ErrValidation.Error(), len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func (c Credentials) Validate() error {
	errs := map[string]string{}
	checkEmail(errs, c.Email)
	if c.Password == "" {
		errs["password"] = "Password is required"
	}
	return asError(errs)
}

func (u UserRegistration) Validate() error {
	errs := map[string]string{}
	if strings.TrimSpace(u.Name) == "" {
		errs["name"] = "Name is required"
	}
	checkEmail(errs, u.Email)
	checkPassword(errs, u.Password)
	return asError(errs)
}

func (s ShelterRegistration) Validate() error {
	errs := map[string]string{}
	if strings.TrimSpace(s.ShelterName) == "" {
		errs["shelterName"] = "Shelter name is required"
	}
	checkEmail(errs, s.Email)
	checkPassword(errs, s.Password)
	if strings.TrimSpace(s.City) == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(s.State) == "" {
		errs["state"] = "State is required"
	}
	if s.License == nil || len(s.License.Content) == 0 {
		errs["license"] = ErrLicenseNeeded.Error()
	}
	return asError(errs)
}

func (p ProfileUpdate) Normalized() ProfileUpdate {
	return ProfileUpdate{
		Name:        strings.TrimSpace(p.Name),
		Phone:       strings.TrimSpace(p.Phone),
		City:        strings.TrimSpace(p.City),
		State:       strings.TrimSpace(p.State),
		ShelterName: strings.TrimSpace(p.ShelterName),
		Description: strings.TrimSpace(p.Description),
	}
}

func (p ProfileUpdate) Validate() error {
	if p.Normalized() == (ProfileUpdate{}) {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	return nil
}

func checkEmail(errs map[string]string, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs["email"] = "Email is required"
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "Email is not valid"
	}
}

func checkPassword(errs map[string]string, pw string) {
	if len(pw) < minPasswordLen {
		errs["password"] = fmt.Sprintf("Password must be at least %d characters", minPasswordLen)
	}
}

func asError(errs map[string]string) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}
