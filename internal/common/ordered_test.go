package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMax(t *testing.T) {
	assert.Equal(t, 2, Min(2, 5))
	assert.Equal(t, 5, Max(2, 5))
	assert.Equal(t, "a", Min("b", "a"))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 3, Clamp(3, 0, 10))
	assert.Equal(t, 0, Clamp(-4, 0, 10))
	assert.Equal(t, 10, Clamp(14, 0, 10))
}
