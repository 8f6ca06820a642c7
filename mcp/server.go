package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spetersoncode/imagemcp"
)

// Workflows is the image backend behind the tools. *workflow.Service satisfies it.
type Workflows interface {
	GenerateFromText(ctx context.Context, prompt string) (imagemcp.Image, error)
	TransformFromEncoded(ctx context.Context, encoded, prompt string) (imagemcp.Image, error)
	TransformFromFile(ctx context.Context, path, prompt string) (imagemcp.Image, error)
	SuggestFilename(ctx context.Context, prompt string) string
}

// Recorder observes tool calls. internal/metrics provides one.
type Recorder interface {
	ObserveToolCall(tool string, err error, elapsed time.Duration)
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name           string
	version        string
	logger         *slog.Logger
	recorder       Recorder
	filenameLabels bool
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithLogger sets the logger used by tool handlers.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(c *serverConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder sets the tool call observer.
func WithRecorder(r Recorder) ServerOption {
	return func(c *serverConfig) {
		c.recorder = r
	}
}

// WithFilenameLabels prepends a suggested filename, as text content, to every
// image result. It costs one extra text model call per successful request.
func WithFilenameLabels(enabled bool) ServerOption {
	return func(c *serverConfig) {
		c.filenameLabels = enabled
	}
}

// NewServer creates an MCP server exposing the image tools backed by w.
func NewServer(w Workflows, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "gemini-image-mcp",
		version: "1.0.0",
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	h := &handlers{workflows: w, cfg: cfg}
	s.AddTool(generateFromTextTool(), h.wrap(ToolGenerateFromText, generateErrorPrefix, h.generateFromText))
	s.AddTool(transformFromEncodedTool(), h.wrap(ToolTransformFromEncoded, transformErrorPrefix, h.transformFromEncoded))
	s.AddTool(transformFromFileTool(), h.wrap(ToolTransformFromFile, transformErrorPrefix, h.transformFromFile))

	return s
}

type handlers struct {
	workflows Workflows
	cfg       *serverConfig
}

// imageFunc runs one workflow and returns the image and the prompt it was made from.
type imageFunc func(ctx context.Context, args toolArgs) (imagemcp.Image, string, error)

// wrap turns an imageFunc into an MCP tool handler. Failures become tool
// error results; the handler itself never returns a protocol error.
func (h *handlers) wrap(name, errPrefix string, fn imageFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := h.cfg.logger.With("tool", name)
		start := time.Now()

		img, label, err := h.call(ctx, req, fn)
		elapsed := time.Since(start)
		if h.cfg.recorder != nil {
			h.cfg.recorder.ObserveToolCall(name, err, elapsed)
		}
		if err != nil {
			logger.Error("tool call failed",
				"kind", imagemcp.KindOf(err),
				"duration", elapsed,
				"error", err,
			)
			return errorResult(errPrefix, err), nil
		}

		logger.Info("tool call complete",
			"format", img.Format,
			"bytes", len(img.Data),
			"duration", elapsed,
		)
		return imageResult(img, label), nil
	}
}

func (h *handlers) call(ctx context.Context, req mcp.CallToolRequest, fn imageFunc) (imagemcp.Image, string, error) {
	args, err := decodeArgs(req.Params.Arguments)
	if err != nil {
		return imagemcp.Image{}, "", err
	}

	img, prompt, err := fn(ctx, args)
	if err != nil {
		return imagemcp.Image{}, "", err
	}

	var label string
	if h.cfg.filenameLabels {
		label = h.workflows.SuggestFilename(ctx, prompt)
	}
	return img, label, nil
}

func (h *handlers) generateFromText(ctx context.Context, args toolArgs) (imagemcp.Image, string, error) {
	prompt, err := requiredArg(argPrompt, args.Prompt)
	if err != nil {
		return imagemcp.Image{}, "", err
	}
	img, err := h.workflows.GenerateFromText(ctx, prompt)
	return img, prompt, err
}

func (h *handlers) transformFromEncoded(ctx context.Context, args toolArgs) (imagemcp.Image, string, error) {
	encoded, err := requiredArg(argEncodedImage, args.EncodedImage)
	if err != nil {
		return imagemcp.Image{}, "", err
	}
	prompt, err := requiredArg(argPrompt, args.Prompt)
	if err != nil {
		return imagemcp.Image{}, "", err
	}
	img, err := h.workflows.TransformFromEncoded(ctx, encoded, prompt)
	return img, prompt, err
}

func (h *handlers) transformFromFile(ctx context.Context, args toolArgs) (imagemcp.Image, string, error) {
	path, err := requiredArg(argImageFilePath, args.ImageFilePath)
	if err != nil {
		return imagemcp.Image{}, "", err
	}
	prompt, err := requiredArg(argPrompt, args.Prompt)
	if err != nil {
		return imagemcp.Image{}, "", err
	}
	img, err := h.workflows.TransformFromFile(ctx, path, prompt)
	return img, prompt, err
}
