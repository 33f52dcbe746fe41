package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	h, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", h)
	assert.True(t, CheckPassword("s3cret", h))
	assert.False(t, CheckPassword("wrong", h))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID(NewID()))
	assert.False(t, IsUUID("abc"))
	assert.False(t, IsUUID(""))
	// uuid.Parse 也接受 urn 形式，这里要求标准 36 位
	assert.False(t, IsUUID("urn:uuid:"+NewID()))
}
