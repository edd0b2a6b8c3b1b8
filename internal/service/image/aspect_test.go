package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAspect(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"1:1", 640, 640},
		{"16:9", 1664, 928},
		{"9:16", 928, 1664},
		{"4:3", 1472, 1140},
		{"3:4", 1140, 1472},
		{"3:2", 1584, 1056},
		{"2:3", 1056, 1584},
	}
	for _, tt := range tests {
		w, h, ok := ResolveAspect(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.width, w, tt.name)
		assert.Equal(t, tt.height, h, tt.name)
	}

	_, _, ok := ResolveAspect("21:9")
	assert.False(t, ok)
}

func TestDefaultAspectKnown(t *testing.T) {
	_, _, ok := ResolveAspect(DefaultAspect)
	assert.True(t, ok)
}
