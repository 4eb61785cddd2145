package pets

import (
	"errors"
	"fmt"
	"strings"

	"pet-adoption-web/internal/domain/refs"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
)

// Species define las especies que se pueden filtrar.
// @Enum dog, cat, bird, rabbit, other
type Species string

const (
	SpeciesDog    Species = "dog"
	SpeciesCat    Species = "cat"
	SpeciesBird   Species = "bird"
	SpeciesRabbit Species = "rabbit"
	SpeciesOther  Species = "other"
)

func (s Species) Valid() bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRabbit, SpeciesOther:
		return true
	}
	return false
}

// Gender define el sexo de la mascota.
// @Enum male, female
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Status disponibilidad para adopción.
type Status string

const (
	StatusAvailable Status = "Available"
	StatusPending   Status = "Pending"
	StatusAdopted   Status = "Adopted"
)

type Age struct {
	Years  int `json:"years"`
	Months int `json:"months"`
}

func (a Age) String() string {
	var parts []string
	if a.Years > 0 {
		parts = append(parts, plural(a.Years, "year"))
	}
	if a.Months > 0 {
		parts = append(parts, plural(a.Months, "month"))
	}
	if len(parts) == 0 {
		return "less than a month"
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Pet es el perfil publicado por un refugio.
type Pet struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Species     Species  `json:"species"`
	Breed       string   `json:"breed"`
	Gender      Gender   `json:"gender"`
	Age         Age      `json:"age"`
	Photos      []string `json:"photos"`
	Status      Status   `json:"status"`
	Shelter     refs.Ref `json:"shelter"`
	Description string   `json:"description,omitempty"`
}

// Adoptable: solo las disponibles aceptan solicitudes.
func (p Pet) Adoptable() bool { return p.Status == StatusAvailable }

// Pagination tal como la informa el backend.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
}

// Page es una página de resultados.
type Page struct {
	Pets       []Pet      `json:"pets"`
	Pagination Pagination `json:"pagination"`
}
