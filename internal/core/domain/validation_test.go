package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
)

func TestValidateCreateHabit(t *testing.T) {
	ok := domain.ValidateCreateHabit(domain.CreateHabitForm{Name: "Read"})
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.Errors)

	bad := domain.ValidateCreateHabit(domain.CreateHabitForm{Name: "  ", Color: "#fff"})
	assert.False(t, bad.Valid)
	assert.Equal(t, map[string]string{"name": "Name is required"}, bad.Errors)
}
