package image

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestBaseName(t *testing.T) {
	r := Request{SenderID: "u1", MessageID: "m1", Width: 640, Height: 480}
	assert.Equal(t, "u1-m1-640x480", r.BaseName())
	// детерминизм: то же значение при повторном вызове
	assert.Equal(t, r.BaseName(), r.BaseName())
}

func TestRequestBaseNameInjective(t *testing.T) {
	// различные кортежи не должны давать одинаковые базовые имена
	reqs := []Request{
		{SenderID: "u1", MessageID: "m1", Width: 640, Height: 480},
		{SenderID: "u1", MessageID: "m2", Width: 640, Height: 480},
		{SenderID: "u2", MessageID: "m1", Width: 640, Height: 480},
		{SenderID: "u1", MessageID: "m1", Width: 480, Height: 640},
		{SenderID: "u1", MessageID: "m1", Width: 1664, Height: 928},
	}
	seen := map[string]Request{}
	for _, r := range reqs {
		base := r.BaseName()
		prev, dup := seen[base]
		require.False(t, dup, "collision between %+v and %+v", prev, r)
		seen[base] = r
	}
}

func TestRequestPaths(t *testing.T) {
	r := Request{SenderID: "u1", MessageID: "m1", Width: 640, Height: 480}
	dir := filepath.Join("some", "dir")
	assert.Equal(t, filepath.Join(dir, "u1-m1-640x480.txt"), r.PromptPath(dir))
	assert.Equal(t, filepath.Join(dir, "u1-m1-640x480.png"), r.ImagePath(dir))
	assert.Equal(t, filepath.Join(dir, "u1-m1-640x480-error.txt"), r.ErrorPath(dir))
}

func TestRequestValidate(t *testing.T) {
	valid := Request{SenderID: "u1", MessageID: "m1", Width: 640, Height: 480}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		req  Request
	}{
		{"empty sender", Request{SenderID: "", MessageID: "m1", Width: 640, Height: 480}},
		{"empty message", Request{SenderID: "u1", MessageID: "", Width: 640, Height: 480}},
		{"dash in sender", Request{SenderID: "u-1", MessageID: "m1", Width: 640, Height: 480}},
		{"slash in sender", Request{SenderID: "../etc", MessageID: "m1", Width: 640, Height: 480}},
		{"backslash in message", Request{SenderID: "u1", MessageID: `m\1`, Width: 640, Height: 480}},
		{"dot prefix", Request{SenderID: ".hidden", MessageID: "m1", Width: 640, Height: 480}},
		{"zero width", Request{SenderID: "u1", MessageID: "m1", Width: 0, Height: 480}},
		{"negative height", Request{SenderID: "u1", MessageID: "m1", Width: 640, Height: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.req.Validate())
		})
	}
}
