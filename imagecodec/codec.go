// Package imagecodec decodes caller-supplied images and wraps images returned by
// the model.
//
// Supported raster formats are PNG, JPEG, GIF, WebP, BMP and TIFF. Every
// failure is an [imagemcp.Error] tagged with the matching kind.
package imagecodec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	_ "image/gif"
	"image/png"
	"io/fs"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spetersoncode/imagemcp"
)

const (
	dataURLPrefix   = "data:image/"
	base64Separator = ";base64,"
)

// recognizedSubtypes lists the data URL subtypes accepted as raster images.
var recognizedSubtypes = map[string]bool{
	"png":      true,
	"jpeg":     true,
	"jpg":      true,
	"pjpeg":    true,
	"gif":      true,
	"webp":     true,
	"bmp":      true,
	"x-ms-bmp": true,
	"tiff":     true,
}

// passthroughFormats are decoder names Gemini accepts as inline input unchanged.
var passthroughFormats = map[string]bool{
	"png":  true,
	"jpeg": true,
	"webp": true,
}

// Bitmap is a decoded image together with the bytes it was decoded from.
type Bitmap struct {
	Image image.Image
	// Format is the decoder name reported by image.Decode, e.g. "png".
	Format string
	// Data holds the original encoded bytes.
	Data []byte
}

// Width returns the image width in pixels.
func (b *Bitmap) Width() int { return b.Image.Bounds().Dx() }

// Height returns the image height in pixels.
func (b *Bitmap) Height() int { return b.Image.Bounds().Dy() }

// Encoded returns bytes and MIME type suitable for sending the bitmap to Gemini.
// PNG, JPEG and WebP are sent as-is; other formats are re-encoded as PNG.
func (b *Bitmap) Encoded() ([]byte, string, error) {
	if passthroughFormats[b.Format] && len(b.Data) > 0 {
		return b.Data, "image/" + b.Format, nil
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, b.Image); err != nil {
		return nil, "", imagemcp.NewError(imagemcp.KindIOFailure, "re-encode image as png", err)
	}
	return buf.Bytes(), "image/png", nil
}

// DecodeDataURL decodes a data:image/<subtype>;base64,<payload> string.
// It returns the bitmap and the declared subtype, e.g. "png".
func DecodeDataURL(encoded string) (*Bitmap, string, error) {
	if !strings.HasPrefix(encoded, dataURLPrefix) {
		return nil, "", imagemcp.Errorf(imagemcp.KindInvalidFormat,
			"invalid image format: expected data:image/[format];base64,[data]")
	}
	if strings.Count(encoded, base64Separator) != 1 {
		return nil, "", imagemcp.Errorf(imagemcp.KindInvalidFormat,
			"invalid image data format: image must be in format 'data:image/[format];base64,[data]'")
	}

	header, payload, _ := strings.Cut(encoded, base64Separator)
	subtype := strings.ToLower(strings.TrimPrefix(header, dataURLPrefix))
	if !recognizedSubtypes[subtype] {
		return nil, "", imagemcp.Errorf(imagemcp.KindInvalidFormat, "unsupported image subtype %q", subtype)
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return nil, "", imagemcp.NewError(imagemcp.KindInvalidEncoding,
			"invalid base64 encoding: provide a valid base64 encoded image", err)
	}

	bm, err := decode(data)
	if err != nil {
		return nil, "", err
	}
	return bm, subtype, nil
}

// CheckFile reports whether path exists.
func CheckFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return imagemcp.Errorf(imagemcp.KindNotFound, "image file not found: %s", path)
		}
		return imagemcp.NewError(imagemcp.KindIOFailure, "could not access image file "+path, err)
	}
	return nil
}

// DecodeFile reads and decodes the image file at path.
func DecodeFile(path string) (*Bitmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, imagemcp.Errorf(imagemcp.KindNotFound, "image file not found: %s", path)
		}
		return nil, imagemcp.NewError(imagemcp.KindIOFailure, "could not load image "+path, err)
	}
	return decode(data)
}

func decode(data []byte) (*Bitmap, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, imagemcp.NewError(imagemcp.KindUnrecognizedImage,
			"could not identify image format; supported formats include PNG, JPEG, GIF, WebP", err)
	}
	return &Bitmap{Image: img, Format: format, Data: data}, nil
}

// decodeBase64 accepts standard base64 with or without padding.
// ASCII whitespace, as found in wrapped data URLs, is ignored.
func decodeBase64(payload string) ([]byte, error) {
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, payload)

	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(payload); rawErr == nil {
		return raw, nil
	}
	return nil, err
}
