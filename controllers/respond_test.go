package controllers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabasaranec/blogapi/services"
)

func TestParseTagIDsAcceptsBothEncodings(t *testing.T) {
	ids, err := parseTagIDs([]string{"1", "2,3", " 4 , 5 ", ""})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3, 4, 5}, ids)
}

func TestParseTagIDsRejectsMalformed(t *testing.T) {
	_, err := parseTagIDs([]string{"1,notanumber"})
	assert.ErrorIs(t, err, services.ErrBadRequest)

	_, err = parseTagIDs([]string{"-1"})
	assert.ErrorIs(t, err, services.ErrBadRequest)
}

func TestParseTagIDsEmptyInput(t *testing.T) {
	ids, err := parseTagIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPostDetailCacheKeysDoNotOverlap(t *testing.T) {
	one := postDetailCacheKey(1)
	ten := postDetailCacheKey(10)
	assert.NotEqual(t, one, ten)
	assert.False(t, strings.HasPrefix(ten, one))
}
