package google

import (
	"github.com/spetersoncode/imagemcp/imagecodec"
	"google.golang.org/genai"
)

// Part is one element of a model request: text or a bitmap.
type Part struct {
	Text   string
	Bitmap *imagecodec.Bitmap
}

// Text returns a text part.
func Text(s string) Part {
	return Part{Text: s}
}

// Bitmap returns an image part.
func Bitmap(b *imagecodec.Bitmap) Part {
	return Part{Bitmap: b}
}

// convertParts builds a single user turn from parts, keeping their order.
func convertParts(parts []Part) ([]*genai.Content, error) {
	converted := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Bitmap == nil {
			converted = append(converted, &genai.Part{Text: p.Text})
			continue
		}

		data, mimeType, err := p.Bitmap.Encoded()
		if err != nil {
			return nil, err
		}
		converted = append(converted, &genai.Part{
			InlineData: &genai.Blob{
				Data:     data,
				MIMEType: mimeType,
			},
		})
	}

	return []*genai.Content{{
		Role:  "user",
		Parts: converted,
	}}, nil
}
