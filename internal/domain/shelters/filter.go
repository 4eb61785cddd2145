package shelters

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 9
	MaxLimit     = 100
)

// Filter criterios de GET /shelters?city=&state=&page=&limit=
type Filter struct {
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{
		City:  strings.TrimSpace(q.Get("city")),
		State: strings.TrimSpace(q.Get("state")),
	}
	for key, dst := range map[string]*int{"page": &f.Page, "limit": &f.Limit} {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Filter{}, fmt.Errorf("%w: %s must be a positive number", ErrInvalidInput, key)
		}
		*dst = n
	}
	return f.Normalized(), nil
}

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

func (f Filter) Cleared() Filter {
	return Filter{Page: 1, Limit: f.Limit}.Normalized()
}

func (f Filter) Query() url.Values {
	f = f.Normalized()
	q := url.Values{}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.State != "" {
		q.Set("state", f.State)
	}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("limit", strconv.Itoa(f.Limit))
	return q
}
