package imagecodec

import (
	"encoding/base64"
	"mime"
	"strings"

	"github.com/spetersoncode/imagemcp"
)

// Payload is image data as delivered by the model: either raw bytes or text
// that should hold base64.
type Payload struct {
	raw    []byte
	text   string
	isText bool
}

// RawPayload wraps binary image data.
func RawPayload(data []byte) Payload {
	return Payload{raw: data}
}

// TextPayload wraps image data delivered as a string.
func TextPayload(s string) Payload {
	return Payload{text: s, isText: true}
}

// Bytes resolves the payload. Text is base64-decoded when possible and
// otherwise used as raw UTF-8 bytes.
func (p Payload) Bytes() []byte {
	if !p.isText {
		return p.raw
	}
	if data, err := base64.StdEncoding.DecodeString(p.text); err == nil {
		return data
	}
	return []byte(p.text)
}

// Wrap turns a model payload into an Image tagged with the subtype of mimeType.
func Wrap(p Payload, mimeType string) imagemcp.Image {
	return imagemcp.Image{
		Data:   p.Bytes(),
		Format: FormatFromMIME(mimeType),
	}
}

// FormatFromMIME returns the subtype of an image MIME type, lower-cased and
// without parameters. Absent or malformed types yield "png".
//
// TODO: an unknown type from the model currently passes as png; consider
// surfacing it as an error once Gemini's returned types are pinned down.
func FormatFromMIME(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}

	i := strings.LastIndex(mimeType, "/")
	if i < 0 {
		return imagemcp.DefaultFormat
	}
	subtype := strings.ToLower(strings.TrimSpace(mimeType[i+1:]))
	if subtype == "" {
		return imagemcp.DefaultFormat
	}
	return subtype
}
