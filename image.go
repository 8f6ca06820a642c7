package imagemcp

import "encoding/base64"

// DefaultFormat is used when the model does not declare a usable MIME type.
const DefaultFormat = "png"

// Image is an image returned to a tool caller.
type Image struct {
	// Data holds the encoded image bytes exactly as the model returned them.
	Data []byte
	// Format is the MIME subtype, e.g. "png" or "jpeg".
	Format string
}

// MIMEType returns the image MIME type, e.g. "image/png".
func (i Image) MIMEType() string {
	format := i.Format
	if format == "" {
		format = DefaultFormat
	}
	return "image/" + format
}

// Base64 returns the image bytes in standard base64 encoding.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}
