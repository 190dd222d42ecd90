package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	key         string
	contentType string
	body        []byte
}

func (m *memStore) Put(_ context.Context, key, contentType string, body []byte) (string, error) {
	m.key, m.contentType, m.body = key, contentType, body
	return "https://cdn.test/" + key, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessAvatarProducesSquareWebp(t *testing.T) {
	out, err := ProcessAvatar(bytes.NewReader(pngBytes(t, 400, 300)), AvatarSize)
	require.NoError(t, err)

	img, err := webp.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, AvatarSize, AvatarSize), img.Bounds())
}

func TestProcessAvatarRejectsGarbage(t *testing.T) {
	_, err := ProcessAvatar(strings.NewReader("definitely not an image"), AvatarSize)

	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestSquareCrop(t *testing.T) {
	assert.Equal(t, image.Rect(50, 0, 350, 300), squareCrop(image.Rect(0, 0, 400, 300)))
	assert.Equal(t, image.Rect(0, 50, 300, 350), squareCrop(image.Rect(0, 0, 300, 400)))
}

func TestUploadStoresUnderBarberPrefix(t *testing.T) {
	store := &memStore{}
	svc := NewAvatarService(store)

	url, err := svc.Upload(context.Background(), 7, bytes.NewReader(pngBytes(t, 64, 64)))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(store.key, "barbers/7/"))
	assert.True(t, strings.HasSuffix(store.key, ".webp"))
	assert.Equal(t, "image/webp", store.contentType)
	assert.Equal(t, "https://cdn.test/"+store.key, url)
	assert.NotEmpty(t, store.body)
}

func TestUploadRejectsOversizedInput(t *testing.T) {
	svc := NewAvatarService(&memStore{})

	_, err := svc.Upload(context.Background(), 1, bytes.NewReader(make([]byte, MaxAvatarBytes+1)))

	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "https://cdn.test", publicBase(S3Config{PublicURL: "https://cdn.test/"}))
	assert.Equal(t, "http://minio:9000/avatars", publicBase(S3Config{Endpoint: "http://minio:9000", Bucket: "avatars"}))
	assert.Equal(t, "https://avatars.s3.eu-west-3.amazonaws.com", publicBase(S3Config{Bucket: "avatars", Region: "eu-west-3"}))
}
