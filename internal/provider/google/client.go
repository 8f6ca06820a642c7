// Package google talks to the Gemini API through the Google GenAI SDK.
//
// The credential is read on every call and a fresh SDK client is built per
// request, so a key exported after startup is picked up without a restart.
package google

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/spetersoncode/imagemcp"
)

// CredentialEnv is the environment variable holding the Gemini API key.
const CredentialEnv = "GEMINI_API_KEY"

// Generator is the subset of the SDK used by the client. *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ClientFactory builds a Generator for one request.
type ClientFactory func(ctx context.Context, apiKey string) (Generator, error)

// CredentialSource returns the current API key, or "" when none is configured.
type CredentialSource func() string

// EnvCredential reads the credential from the named environment variable.
func EnvCredential(name string) CredentialSource {
	return func() string {
		return strings.TrimSpace(os.Getenv(name))
	}
}

// Recorder observes model requests. internal/metrics provides one.
type Recorder interface {
	ObserveModelRequest(model, mode string, err error, elapsed time.Duration)
}

// NewGenaiClient is the default ClientFactory.
func NewGenaiClient(ctx context.Context, apiKey string) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

// Client is the gateway to the Gemini image and text models.
type Client struct {
	credentials CredentialSource
	factory     ClientFactory
	imageModel  ImageModel
	textModel   TextModel
	logger      *slog.Logger
	recorder    Recorder
}

// ClientOption configures the Google client.
type ClientOption func(*Client)

// WithCredentials sets where the API key is read from.
func WithCredentials(src CredentialSource) ClientOption {
	return func(c *Client) {
		c.credentials = src
	}
}

// WithClientFactory replaces the SDK client constructor. Tests use it to stub the API.
func WithClientFactory(f ClientFactory) ClientOption {
	return func(c *Client) {
		c.factory = f
	}
}

// WithImageModel sets the model used for image generation and transformation.
func WithImageModel(model ImageModel) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.imageModel = model
		}
	}
}

// WithTextModel sets the model used for text-only requests.
func WithTextModel(model TextModel) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.textModel = model
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder sets the request observer.
func WithRecorder(r Recorder) ClientOption {
	return func(c *Client) {
		c.recorder = r
	}
}

// New creates a client. Without options it reads GEMINI_API_KEY and uses the default models.
func New(opts ...ClientOption) *Client {
	c := &Client{
		credentials: EnvCredential(CredentialEnv),
		factory:     NewGenaiClient,
		imageModel:  DefaultImageModel,
		textModel:   DefaultTextModel,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request is a single generate call.
type Request struct {
	Contents []Part
	// Model overrides the client default for this request.
	Model string
	// Config overrides the generation config built from TextOnly.
	Config *genai.GenerateContentConfig
	// TextOnly asks for a text answer instead of an image.
	TextOnly bool
}

// Result is the outcome of a generate call. Exactly one field is set.
type Result struct {
	Text  string
	Image imagemcp.Image
}

// Generate sends one request to Gemini and extracts the text or image answer.
func (c *Client) Generate(ctx context.Context, req Request) (Result, error) {
	mode := "image"
	model := c.imageModel.String()
	if req.TextOnly {
		mode = "text"
		model = c.textModel.String()
	}
	if req.Model != "" {
		model = req.Model
	}

	start := time.Now()
	result, err := c.generate(ctx, model, req)
	if c.recorder != nil {
		c.recorder.ObserveModelRequest(model, mode, err, time.Since(start))
	}
	return result, err
}

func (c *Client) generate(ctx context.Context, model string, req Request) (Result, error) {
	apiKey := c.credentials()
	if apiKey == "" {
		return Result{}, imagemcp.Errorf(imagemcp.KindMissingCredential,
			"%s environment variable is not set", CredentialEnv)
	}

	contents, err := convertParts(req.Contents)
	if err != nil {
		return Result{}, err
	}

	config := req.Config
	if config == nil && !req.TextOnly {
		config = &genai.GenerateContentConfig{
			ResponseModalities: []string{modalityText, modalityImage},
		}
	}

	gen, err := c.factory(ctx, apiKey)
	if err != nil {
		c.logger.Error("failed to create gemini client", "error", err)
		return Result{}, wrapError(err)
	}

	c.logger.Debug("sending gemini request", "model", model, "parts", len(req.Contents), "text_only", req.TextOnly)
	resp, err := gen.GenerateContent(ctx, model, contents, config)
	if err != nil {
		c.logger.Error("gemini request failed", "model", model, "error", err)
		return Result{}, wrapError(err)
	}

	if req.TextOnly {
		text, err := extractText(resp)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: text}, nil
	}

	img, err := extractImage(resp)
	if err != nil {
		c.logger.Warn("gemini returned no image", "model", model, "error", err)
		return Result{}, err
	}
	c.logger.Debug("received image", "model", model, "format", img.Format, "bytes", len(img.Data))
	return Result{Image: img}, nil
}

// GenerateText sends parts to the text model and returns the answer text.
func (c *Client) GenerateText(ctx context.Context, parts ...Part) (string, error) {
	res, err := c.Generate(ctx, Request{Contents: parts, TextOnly: true})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// GenerateImage sends parts to the image model and returns the first image it answers with.
func (c *Client) GenerateImage(ctx context.Context, parts ...Part) (imagemcp.Image, error) {
	res, err := c.Generate(ctx, Request{Contents: parts})
	if err != nil {
		return imagemcp.Image{}, err
	}
	return res.Image, nil
}
