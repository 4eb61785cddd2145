// Package refs modela referencias entre documentos del backend.
package refs

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Ref es una referencia que el backend manda como id ("abc")
// o como documento poblado ({"_id": "abc", "name": "..."}).
type Ref struct {
	ID          string `json:"_id"`
	Name        string `json:"name,omitempty"`
	ShelterName string `json:"shelterName,omitempty"`
	Email       string `json:"email,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*r = Ref{}
		return nil
	}
	if b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	type plain Ref
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

// Label devuelve el nombre legible si vino poblado, o el id.
func (r Ref) Label() string {
	for _, s := range []string{r.ShelterName, r.Name, r.Email} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return r.ID
}
