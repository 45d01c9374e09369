package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleCustomer))
	assert.True(t, IsValidRole(RoleRestaurant))
	assert.False(t, IsValidRole("admin"))
	assert.False(t, IsValidRole(""))
}
