package refs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_UnmarshalIDOrDocument(t *testing.T) {
	var out struct {
		A Ref `json:"a"`
		B Ref `json:"b"`
		C Ref `json:"c"`
	}
	raw := `{"a":"p1","b":{"_id":"s1","shelterName":"Happy Tails","city":"Austin"},"c":null}`
	require.NoError(t, json.Unmarshal([]byte(raw), &out))

	assert.Equal(t, Ref{ID: "p1"}, out.A)
	assert.Equal(t, "s1", out.B.ID)
	assert.Equal(t, "Happy Tails", out.B.Label())
	assert.Equal(t, "Austin", out.B.City)
	assert.Equal(t, Ref{}, out.C)
	assert.Equal(t, "p1", out.A.Label())
}
