// Package workflow composes the prompt templates, the image codec and the model
// gateway into the three image operations exposed as tools.
//
// Every operation runs its steps sequentially: the generation call depends on
// the translated prompt, so the two model calls are never concurrent.
// Translation and filename suggestion are enrichments and never fail; any
// other error is returned to the caller unchanged.
package workflow

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/spetersoncode/imagemcp"
	"github.com/spetersoncode/imagemcp/imagecodec"
	"github.com/spetersoncode/imagemcp/internal/provider/google"
	"github.com/spetersoncode/imagemcp/prompt"
)

// Gateway is the model access used by the workflows. *google.Client satisfies it.
type Gateway interface {
	GenerateText(ctx context.Context, parts ...google.Part) (string, error)
	GenerateImage(ctx context.Context, parts ...google.Part) (imagemcp.Image, error)
}

// Recorder counts fallbacks. internal/metrics provides one.
type Recorder interface {
	ObserveFallback(operation string)
}

// Fallback operation names passed to Recorder.
const (
	OperationTranslate = "translate"
	OperationFilename  = "filename"
)

// IDSource returns a random identifier used in fallback filenames.
type IDSource func() string

const (
	filenamePrefixRunes = 12
	filenameIDLength    = 8
)

// Service runs the image workflows against a Gateway.
type Service struct {
	gateway   Gateway
	logger    *slog.Logger
	recorder  Recorder
	transform prompt.Template
	newID     IDSource
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder sets the fallback observer.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithTransformTemplate sets the template wrapping transformation requests.
// The default is prompt.Transformation.
func WithTransformTemplate(t prompt.Template) Option {
	return func(s *Service) {
		if t != nil {
			s.transform = t
		}
	}
}

// WithIDSource sets the identifier source for fallback filenames.
func WithIDSource(src IDSource) Option {
	return func(s *Service) {
		if src != nil {
			s.newID = src
		}
	}
}

// New creates a Service.
func New(gateway Gateway, opts ...Option) *Service {
	s := &Service{
		gateway:   gateway,
		logger:    slog.Default(),
		transform: prompt.Transformation,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Translate returns text translated to English. On any failure text is
// returned unchanged.
func (s *Service) Translate(ctx context.Context, text string) string {
	translated, err := s.gateway.GenerateText(ctx, google.Text(prompt.Translation(text)))
	if err != nil {
		s.fallback(OperationTranslate, err)
		return text
	}
	return translated
}

// SuggestFilename asks the text model for a short filename describing the
// image. On any failure it derives one from the prompt and a random id.
func (s *Service) SuggestFilename(ctx context.Context, description string) string {
	name, err := s.gateway.GenerateText(ctx, google.Text(prompt.Filename(description)))
	if err != nil {
		s.fallback(OperationFilename, err)
		return s.fallbackFilename(description)
	}
	return name
}

func (s *Service) fallbackFilename(description string) string {
	runes := []rune(description)
	if len(runes) > filenamePrefixRunes {
		runes = runes[:filenamePrefixRunes]
	}
	id := strings.ReplaceAll(s.newID(), "-", "")
	if len(id) > filenameIDLength {
		id = id[:filenameIDLength]
	}
	return "image_" + strings.TrimSpace(string(runes)) + "_" + id
}

func (s *Service) fallback(operation string, err error) {
	s.logger.Warn("falling back after model failure",
		"operation", operation,
		"kind", imagemcp.KindOf(err),
		"error", err,
	)
	if s.recorder != nil {
		s.recorder.ObserveFallback(operation)
	}
}

// GenerateFromText creates an image from a text prompt in any language.
func (s *Service) GenerateFromText(ctx context.Context, description string) (imagemcp.Image, error) {
	j := &job{prompt: description}
	err := newChain("generate_from_text", s.logger,
		s.translateStep(),
		step{name: "template", fn: func(_ context.Context, j *job) error {
			j.instructions = prompt.Generation(j.prompt)
			return nil
		}},
		s.generateStep(),
	).run(ctx, j)
	if err != nil {
		return imagemcp.Image{}, err
	}
	return j.image, nil
}

// TransformFromEncoded edits an image given as a base64 data URL.
func (s *Service) TransformFromEncoded(ctx context.Context, encoded, instruction string) (imagemcp.Image, error) {
	j := &job{prompt: instruction}
	err := newChain("transform_from_encoded", s.logger,
		step{name: "decode", fn: func(_ context.Context, j *job) error {
			bm, _, err := imagecodec.DecodeDataURL(encoded)
			if err != nil {
				return err
			}
			j.bitmap = bm
			return nil
		}},
		s.translateStep(),
		s.transformTemplateStep(),
		s.generateStep(),
	).run(ctx, j)
	if err != nil {
		return imagemcp.Image{}, err
	}
	return j.image, nil
}

// TransformFromFile edits the image stored at path.
func (s *Service) TransformFromFile(ctx context.Context, path, instruction string) (imagemcp.Image, error) {
	j := &job{prompt: instruction}
	err := newChain("transform_from_file", s.logger,
		step{name: "check_file", fn: func(context.Context, *job) error {
			return imagecodec.CheckFile(path)
		}},
		s.translateStep(),
		step{name: "decode", fn: func(_ context.Context, j *job) error {
			bm, err := imagecodec.DecodeFile(path)
			if err != nil {
				return err
			}
			j.bitmap = bm
			return nil
		}},
		s.transformTemplateStep(),
		s.generateStep(),
	).run(ctx, j)
	if err != nil {
		return imagemcp.Image{}, err
	}
	return j.image, nil
}

func (s *Service) translateStep() step {
	return step{name: "translate", fn: func(ctx context.Context, j *job) error {
		j.prompt = s.Translate(ctx, j.prompt)
		return nil
	}}
}

func (s *Service) transformTemplateStep() step {
	return step{name: "template", fn: func(_ context.Context, j *job) error {
		j.instructions = s.transform(j.prompt)
		return nil
	}}
}

// generateStep sends the instructions, followed by the bitmap when present.
func (s *Service) generateStep() step {
	return step{name: "generate", fn: func(ctx context.Context, j *job) error {
		parts := []google.Part{google.Text(j.instructions)}
		if j.bitmap != nil {
			parts = append(parts, google.Bitmap(j.bitmap))
		}
		img, err := s.gateway.GenerateImage(ctx, parts...)
		if err != nil {
			return err
		}
		j.image = img
		return nil
	}}
}
