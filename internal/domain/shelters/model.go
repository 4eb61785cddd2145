package shelters

import (
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("shelter not found")
)

// Shelter es el perfil público de un refugio.
type Shelter struct {
	ID          string `json:"_id"`
	ShelterName string `json:"shelterName"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city"`
	State       string `json:"state"`
	Description string `json:"description,omitempty"`
}

// Location "Austin, TX"; omite lo que falte.
func (s Shelter) Location() string {
	var parts []string
	for _, p := range []string{s.City, s.State} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}

type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
}

type Page struct {
	Shelters   []Shelter  `json:"shelters"`
	Pagination Pagination `json:"pagination"`
}
