package google

// ImageModel is a Gemini model that can answer with inline images.
type ImageModel string

const (
	Gemini25FlashImage        ImageModel = "gemini-2.5-flash-image"
	Gemini25FlashImagePreview ImageModel = "gemini-2.5-flash-image-preview"

	// DefaultImageModel is used for generation and transformation.
	DefaultImageModel ImageModel = Gemini25FlashImagePreview
)

// String returns the model identifier string.
func (m ImageModel) String() string { return string(m) }

// TextModel is a Gemini model used for text-only tasks such as translation.
type TextModel string

const (
	Gemini20Flash     TextModel = "gemini-2.0-flash"
	Gemini25Flash     TextModel = "gemini-2.5-flash"
	Gemini25FlashLite TextModel = "gemini-2.5-flash-lite"

	// DefaultTextModel is used for prompt translation and filename suggestions.
	DefaultTextModel TextModel = Gemini20Flash
)

// String returns the model identifier string.
func (m TextModel) String() string { return string(m) }

// Response modalities understood by GenerateContentConfig.
const (
	modalityText  = "TEXT"
	modalityImage = "IMAGE"
)
