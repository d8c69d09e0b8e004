package storage

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"foodgram/domain"

	"github.com/disintegration/imaging"
)

// MaxImageWidth caps stored recipe images; wider uploads are downscaled.
const MaxImageWidth = 1280

type DecodedImage struct {
	Data        []byte
	ContentType string
	Extension   string
}

var AllowImage = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/jpg":  imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
}

// DecodeBase64Image accepts either a data URI ("data:image/png;base64,...")
// or bare base64, verifies it decodes as an image and re-encodes it.
func DecodeBase64Image(payload string) (DecodedImage, error) {
	mime := "image/jpeg"
	body := strings.TrimSpace(payload)
	if strings.HasPrefix(body, "data:") {
		header, rest, ok := strings.Cut(body, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return DecodedImage{}, domain.ErrInvalidImageFormat
		}
		mime = strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"))
		body = rest
	}

	format, ok := AllowImage[mime]
	if !ok {
		return DecodedImage{}, fmt.Errorf("%w: %s is not allowed", domain.ErrInvalidImageFormat, mime)
	}

	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return DecodedImage{}, fmt.Errorf("%w: %v", domain.ErrInvalidImageFormat, err)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return DecodedImage{}, fmt.Errorf("%w: %v", domain.ErrInvalidImageFormat, err)
	}
	if img.Bounds().Dx() > MaxImageWidth {
		img = imaging.Resize(img, MaxImageWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return DecodedImage{}, err
	}

	return DecodedImage{
		Data:        buf.Bytes(),
		ContentType: formatContentType(format),
		Extension:   "." + strings.ToLower(format.String()),
	}, nil
}

func formatContentType(format imaging.Format) string {
	switch format {
	case imaging.PNG:
		return "image/png"
	case imaging.GIF:
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
