package capture

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsNormalize(t *testing.T) {
	o := Options{URL: "http://127.0.0.1:8080/events/x", OutputPath: "/tmp/p.png"}
	require.NoError(t, o.normalize())
	assert.Equal(t, DefaultWidth, o.Width)
	assert.Equal(t, DefaultHeight, o.Height)
	assert.Equal(t, 30*time.Second, o.Timeout)
}

func TestDetailPNG_RequiresURLAndOutput(t *testing.T) {
	err := DetailPNG(context.Background(), Options{OutputPath: "x.png"})
	assert.ErrorContains(t, err, "URL is required")

	err = DetailPNG(context.Background(), Options{URL: "http://x"})
	assert.ErrorContains(t, err, "OutputPath is required")
}

func TestWriteAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preview.png")
	require.NoError(t, writeAtomic(path, []byte("png")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png", string(got))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestOptionsHeaders(t *testing.T) {
	assert.Nil(t, Options{}.headers())
	assert.Nil(t, Options{Username: "admin"}.headers())

	h := Options{Username: "admin", Password: "secret"}.headers()
	// base64("admin:secret")
	assert.Equal(t, "Basic YWRtaW46c2VjcmV0", h["Authorization"])
}
