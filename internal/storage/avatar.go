package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

const (
	AvatarSize     = 256
	MaxAvatarBytes = 5 << 20
)

var (
	ErrInvalidImage  = httperr.ErrBusiness("invalid_image")
	ErrImageTooLarge = httperr.ErrBusiness("image_too_large")
)

// AvatarService normalises barber photos to a square webp and stores them.
type AvatarService struct {
	store ObjectStore
	size  int
}

func NewAvatarService(store ObjectStore) *AvatarService {
	return &AvatarService{store: store, size: AvatarSize}
}

// Upload processes the image read from r and returns the stored URL.
func (s *AvatarService) Upload(ctx context.Context, barberID uint, r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxAvatarBytes+1))
	if err != nil {
		return "", fmt.Errorf("read avatar: %w", err)
	}
	if len(raw) > MaxAvatarBytes {
		return "", ErrImageTooLarge
	}

	out, err := ProcessAvatar(bytes.NewReader(raw), s.size)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("barbers/%d/%s.webp", barberID, uuid.NewString())
	return s.store.Put(ctx, key, "image/webp", out)
}

// ProcessAvatar decodes png, jpeg or webp, centre-crops to a square, scales
// to size x size and re-encodes as webp.
func ProcessAvatar(r io.Reader, size int) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, ErrInvalidImage
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrInvalidImage
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, squareCrop(b), draw.Over, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func squareCrop(b image.Rectangle) image.Rectangle {
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}
