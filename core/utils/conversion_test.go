package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInt(t *testing.T) {
	assert.Equal(t, 42, ToInt("42", 0))
	assert.Equal(t, 7, ToInt(" 7 ", 0))
	assert.Equal(t, 5, ToInt("", 5))
	assert.Equal(t, 5, ToInt("abc", 5))
}

func TestToBool(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", "on"} {
		assert.True(t, ToBool(v), v)
	}
	for _, v := range []string{"", "0", "false", "nope"} {
		assert.False(t, ToBool(v), v)
	}
}

func TestToOptionalBool(t *testing.T) {
	b, err := ToOptionalBool("")
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = ToOptionalBool("true")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, *b)

	b, err = ToOptionalBool("0")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.False(t, *b)

	_, err = ToOptionalBool("maybe")
	assert.Error(t, err)
}
