package utils

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ResizeImage decodes r and scales it down to fit maxWidth, keeping the
// aspect ratio. Images already narrower are returned unchanged.
func ResizeImage(r io.Reader, maxWidth uint) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}

	if maxWidth == 0 || uint(img.Bounds().Dx()) <= maxWidth {
		return img, format, nil
	}

	// A zero height lets resize preserve the aspect ratio.
	return resize.Resize(maxWidth, 0, img, resize.Lanczos3), format, nil
}

func EncodeImage(img image.Image, format string, writer io.Writer, quality int) error {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return jpeg.Encode(writer, img, &jpeg.Options{Quality: quality})
	case "png":
		return png.Encode(writer, img)
	default:
		return ErrUnsupportedImage
	}
}

// NormalizeImage resizes data to maxWidth and re-encodes it. GIFs are
// re-encoded as PNG; anything undecodable is returned as is.
func NormalizeImage(data []byte, maxWidth uint) ([]byte, string, error) {
	img, format, err := ResizeImage(bytes.NewReader(data), maxWidth)
	if err != nil {
		return nil, "", err
	}

	if format != "jpeg" {
		format = "png"
	}

	var buf bytes.Buffer
	if err := EncodeImage(img, format, &buf, 85); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), "image/" + format, nil
}

func GetImageDimensions(r io.Reader) (*ImageDimensions, error) {
	config, _, err := image.DecodeConfig(r)
	if err != nil {
		return nil, err
	}

	return &ImageDimensions{Width: config.Width, Height: config.Height}, nil
}

func IsValidImageFormat(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, allowed := range AllowedImageTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}
