package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainsUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Domains
	}{
		{"array", `["IA", "Data"]`, Domains{"IA", "Data"}},
		{"legacy encoded string", `"[\"Médias\",\"Journalisme\"]"`, Domains{"Médias", "Journalisme"}},
		{"null", `null`, Domains{}},
		{"plain string", `"IA"`, Domains{}},
		{"number", `42`, Domains{}},
		{"object", `{"a":1}`, Domains{}},
		{"mixed array keeps strings", `["IA", 3, null, "Data"]`, Domains{"IA", "Data"}},
		{"doubly encoded string", `"\"[\\\"IA\\\"]\""`, Domains{}},
	}

	for _, tc := range cases {
		t.Run("should decode "+tc.name, func(t *testing.T) {
			var d Domains
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &d))
			assert.Equal(t, tc.want, d)
		})
	}

	t.Run("should decode inside a record", func(t *testing.T) {
		var s Student
		require.NoError(t, json.Unmarshal([]byte(`{"firstName":"Awa","domains":"[\"IA\"]"}`), &s))
		assert.Equal(t, Domains{"IA"}, s.Domains)
	})
}

func TestDomainsMarshal(t *testing.T) {
	t.Run("should emit an empty array for nil", func(t *testing.T) {
		raw, err := json.Marshal(struct {
			D Domains `json:"d"`
		}{})
		require.NoError(t, err)
		assert.JSONEq(t, `{"d":[]}`, string(raw))
	})

	t.Run("should round trip a legacy record to the array form", func(t *testing.T) {
		var d Domains
		require.NoError(t, json.Unmarshal([]byte(`"[\"A\",\"B\"]"`), &d))
		raw, err := json.Marshal(d)
		require.NoError(t, err)
		assert.JSONEq(t, `["A","B"]`, string(raw))
	})
}

func TestNewDomains(t *testing.T) {
	assert.Equal(t, Domains{"IA", "Data"}, NewDomains(" IA ", "", "ia", "Data", "  "))
	assert.Equal(t, Domains{}, NewDomains())
	assert.True(t, NewDomains("Médias").Contains(" médias"))
	assert.False(t, NewDomains("Médias").Contains("media"))
}

func TestSupervisorDerived(t *testing.T) {
	s := Supervisor{MaxQuota: 3, CurrentLoad: 1, Available: true, Domains: Domains{"IA"}}
	assert.Equal(t, 33, s.FillRate())
	assert.Equal(t, 2, s.RemainingSlots())
	assert.True(t, s.HasCapacity())

	full := Supervisor{MaxQuota: 2, CurrentLoad: 2}
	assert.Equal(t, 100, full.FillRate())
	assert.Equal(t, 0, full.RemainingSlots())
	assert.False(t, full.HasCapacity())

	c := s.Candidate()
	assert.Equal(t, []string{"IA"}, c.Domains)
	assert.Equal(t, 3, c.MaxQuota)
}
