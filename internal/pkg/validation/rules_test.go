package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules(t *testing.T) {
	t.Run("should accept stage codes", func(t *testing.T) {
		assert.True(t, StageCode("DEPOT_SUJET"))
		assert.True(t, StageCode("soutenance orale"))
		assert.False(t, StageCode(""))
		assert.False(t, StageCode("1_STAGE"))
		assert.False(t, StageCode("STAGE-1"))
	})

	t.Run("should require letters and digits in passwords", func(t *testing.T) {
		assert.True(t, Password("secret123"))
		assert.False(t, Password("short1"))
		assert.False(t, Password("onlyletters"))
		assert.False(t, Password("12345678"))
	})

	t.Run("should bound domain tags", func(t *testing.T) {
		assert.True(t, DomainTag("Médias"))
		assert.False(t, DomainTag("   "))
		assert.False(t, DomainTag("bad\ttag"))
		assert.False(t, DomainTag(string(make([]rune, 101))))
	})
}

func TestRegister(t *testing.T) {
	type payload struct {
		Code     string   `validate:"required,stagecode"`
		Password string   `validate:"required,password"`
		Domains  []string `validate:"omitempty,dive,domaintag"`
	}

	v := validator.New()
	require.NoError(t, Register(v))

	assert.NoError(t, v.Struct(payload{Code: "DEPOT_PLAN", Password: "secret123", Domains: []string{"Médias"}}))

	err := v.Struct(payload{Code: "DEPOT-PLAN", Password: "secret", Domains: []string{""}})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	tags := map[string]bool{}
	for _, fe := range verrs {
		tags[fe.Tag()] = true
	}
	assert.True(t, tags[TagStageCode])
	assert.True(t, tags[TagPassword])
	assert.True(t, tags[TagDomainTag])

	assert.Contains(t, Message(TagPassword, "password"), "at least 8")
	assert.Empty(t, Message("required", "password"))
}
