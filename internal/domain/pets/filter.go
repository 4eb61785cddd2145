package pets

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 12
	MaxLimit     = 100
)

// AgeRange agrupa edades para la búsqueda.
type AgeRange string

const (
	AgeBaby   AgeRange = "baby"
	AgeYoung  AgeRange = "young"
	AgeAdult  AgeRange = "adult"
	AgeSenior AgeRange = "senior"
)

func (a AgeRange) Valid() bool {
	switch a {
	case AgeBaby, AgeYoung, AgeAdult, AgeSenior:
		return true
	}
	return false
}

// Filter son los criterios de búsqueda de mascotas. Vacío = sin filtro.
type Filter struct {
	Species   Species  `json:"species,omitempty"`
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
	ShelterID string   `json:"shelterId,omitempty"`
	AgeRange  AgeRange `json:"ageRange,omitempty"`
	Gender    Gender   `json:"gender,omitempty"`
	Page      int      `json:"page"`
	Limit     int      `json:"limit"`
}

// ParseFilter lee los criterios de una query string (?species=dog&page=2).
func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{
		Species:   Species(strings.ToLower(strings.TrimSpace(q.Get("species")))),
		City:      strings.TrimSpace(q.Get("city")),
		State:     strings.TrimSpace(q.Get("state")),
		ShelterID: strings.TrimSpace(q.Get("shelterId")),
		AgeRange:  AgeRange(strings.ToLower(strings.TrimSpace(q.Get("ageRange")))),
		Gender:    Gender(strings.ToLower(strings.TrimSpace(q.Get("gender")))),
	}

	var err error
	if f.Page, err = atoiOptional(q.Get("page")); err != nil {
		return Filter{}, fmt.Errorf("%w: page: %v", ErrInvalidInput, err)
	}
	if f.Limit, err = atoiOptional(q.Get("limit")); err != nil {
		return Filter{}, fmt.Errorf("%w: limit: %v", ErrInvalidInput, err)
	}
	if err := f.Validate(); err != nil {
		return Filter{}, err
	}
	return f.Normalized(), nil
}

func (f Filter) Validate() error {
	if f.Species != "" && !f.Species.Valid() {
		return fmt.Errorf("%w: unknown species %q", ErrInvalidInput, f.Species)
	}
	if f.AgeRange != "" && !f.AgeRange.Valid() {
		return fmt.Errorf("%w: unknown age range %q", ErrInvalidInput, f.AgeRange)
	}
	if f.Gender != "" && f.Gender != GenderMale && f.Gender != GenderFemale {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidInput, f.Gender)
	}
	if f.Page < 0 || f.Limit < 0 {
		return fmt.Errorf("%w: page and limit must be positive", ErrInvalidInput)
	}
	return nil
}

// Normalized completa page/limit por defecto y acota limit.
func (f Filter) Normalized() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// Cleared quita todos los criterios y vuelve a la primera página (mantiene limit).
func (f Filter) Cleared() Filter {
	return Filter{Page: 1, Limit: f.Limit}.Normalized()
}

// Query arma la query string para GET /pets. Omite los criterios vacíos.
func (f Filter) Query() url.Values {
	f = f.Normalized()
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("species", string(f.Species))
	set("city", f.City)
	set("state", f.State)
	set("shelterId", f.ShelterID)
	set("ageRange", string(f.AgeRange))
	set("gender", string(f.Gender))
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("limit", strconv.Itoa(f.Limit))
	return q
}

func atoiOptional(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
