package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixtures(t *testing.T) {
	assert.Equal(t, "valid_user", ValidUser.Username)
	assert.Equal(t, "valid_pass", ValidUser.Password)
	assert.Equal(t, "Remi Chen", ValidUser.ExpectedName)

	assert.Equal(t, "invalid_user", InvalidUser.Username)
	assert.Equal(t, "wrong_pass", InvalidUser.Password)
	assert.Empty(t, InvalidUser.ExpectedName)
}

func TestUser_IsValue(t *testing.T) {
	u := ValidUser
	u.Password = "changed"
	assert.Equal(t, "valid_pass", ValidUser.Password)
}

func TestUser_StringHidesPassword(t *testing.T) {
	s := fmt.Sprintf("%v", ValidUser)
	assert.Equal(t, "valid_user", s)
	assert.NotContains(t, s, "valid_pass")
}
