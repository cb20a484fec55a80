package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBag(t *testing.T) {
	bag := NewBag()

	assert.False(t, bag.Failed())
	assert.NoError(t, bag.Err())

	bag.Add("email", "Please provide a valid email address.")
	bag.Add("password", "Password is required.")
	bag.Add("password", "The password must be at least 8 characters.")

	assert.True(t, bag.Failed())

	err := bag.Err()
	require.Error(t, err)

	var vErr *Error
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "validation failed", vErr.Error())
	assert.Equal(t, []string{"Please provide a valid email address."}, vErr.Fields["email"])
	assert.Equal(t, []string{
		"Password is required.",
		"The password must be at least 8 characters.",
	}, vErr.Fields["password"])
}

func TestValidEmail(t *testing.T) {
	valid := []string{
		"florin@mesca.dev",
		"user.name+tag@example.co.uk",
		"a@b.co",
	}
	for _, email := range valid {
		assert.True(t, ValidEmail(email), email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@missing-local.com",
		"missing-at.com",
		"Display Name <boxed@example.com>",
		"spaces in@example.com",
	}
	for _, email := range invalid {
		assert.False(t, ValidEmail(email), email)
	}
}
