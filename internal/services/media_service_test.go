package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"artisan/internal/config"
	"artisan/pkg/logger"
	"artisan/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 120, G: 140, B: 40, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newLocalMediaService(t *testing.T, cfg *config.StorageConfig) (MediaService, string) {
	t.Helper()
	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir, "https://cdn.shop.test/media")
	require.NoError(t, err)
	return NewMediaService(local, cfg, logger.NewNop()), dir
}

func TestUploadResizesWideImages(t *testing.T) {
	svc, dir := newLocalMediaService(t, &config.StorageConfig{MaxUploadBytes: 1 << 20, MaxImageWidth: 64})

	resp, err := svc.Upload(context.Background(), &MediaUpload{
		Filename: "olivar.png",
		Reader:   bytes.NewReader(pngBytes(t, 200, 100)),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Key, "blog/"), resp.Key)
	assert.Equal(t, "https://cdn.shop.test/media/"+resp.Key, resp.URL)

	f, err := os.Open(filepath.Join(dir, filepath.FromSlash(resp.Key)))
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestUploadRejectsOversizeAndUnknownTypes(t *testing.T) {
	svc, _ := newLocalMediaService(t, &config.StorageConfig{MaxUploadBytes: 16})

	_, err := svc.Upload(context.Background(), &MediaUpload{Filename: "big.png", Reader: bytes.NewReader(make([]byte, 17))})
	assert.ErrorIs(t, err, ErrMediaTooLarge)

	_, err = svc.Upload(context.Background(), &MediaUpload{Filename: "notes.txt", Reader: strings.NewReader("hola")})
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestMediaDisabledWithoutProvider(t *testing.T) {
	svc := NewMediaService(nil, &config.StorageConfig{MirrorInbound: true}, logger.NewNop())
	assert.False(t, svc.Enabled())

	_, err := svc.Upload(context.Background(), &MediaUpload{Filename: "a.png", Reader: bytes.NewReader(pngBytes(t, 2, 2))})
	assert.ErrorIs(t, err, ErrStorageDisabled)

	url, err := svc.MirrorRemote(context.Background(), "https://relay.test/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://relay.test/a.png", url)
}

func TestMirrorRemoteStoresCopy(t *testing.T) {
	body := pngBytes(t, 10, 10)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/attachments/foto.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer server.Close()

	svc, _ := newLocalMediaService(t, &config.StorageConfig{MaxUploadBytes: 1 << 20, MirrorInbound: true})

	url, err := svc.MirrorRemote(context.Background(), server.URL+"/attachments/foto.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.shop.test/media/blog/"), url)

	missing := server.URL + "/attachments/missing.png"
	url, err = svc.MirrorRemote(context.Background(), missing)
	assert.Error(t, err)
	assert.Equal(t, missing, url)
}
