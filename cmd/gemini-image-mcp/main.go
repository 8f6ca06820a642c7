// Command gemini-image-mcp serves Gemini image generation and transformation
// as MCP tools.
//
// Usage:
//
//	GEMINI_API_KEY=... go run ./cmd/gemini-image-mcp
//
// By default the server listens for SSE connections on 0.0.0.0:9005. Set
// IMAGE_MCP_TRANSPORT=stdio to run it as a subprocess of an MCP client:
//
//	{
//	    "mcpServers": {
//	        "gemini-image": {
//	            "command": "gemini-image-mcp",
//	            "env": {
//	                "GEMINI_API_KEY": "...",
//	                "IMAGE_MCP_TRANSPORT": "stdio"
//	            }
//	        }
//	    }
//	}
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spetersoncode/imagemcp/internal/metrics"
	"github.com/spetersoncode/imagemcp/internal/provider/google"
	"github.com/spetersoncode/imagemcp/mcp"
	"github.com/spetersoncode/imagemcp/prompt"
	"github.com/spetersoncode/imagemcp/workflow"
)

const (
	serverName       = "gemini-image-mcp"
	serverVersion    = "1.0.0"
	metricsNamespace = "imagemcp"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// setupLogger writes to w, never stdout: the stdio transport owns it.
func setupLogger(cfg *Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}

func run(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	if cfg.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; every tool call will fail until it is")
	}

	transform, _ := prompt.ByName(cfg.TransformPrompt)

	gatewayOpts := []google.ClientOption{
		google.WithImageModel(google.ImageModel(cfg.ImageModel)),
		google.WithTextModel(google.TextModel(cfg.TextModel)),
		google.WithLogger(logger.With("component", "gemini")),
	}
	workflowOpts := []workflow.Option{
		workflow.WithLogger(logger.With("component", "workflow")),
		workflow.WithTransformTemplate(transform),
	}
	serverOpts := []mcp.ServerOption{
		mcp.WithName(serverName),
		mcp.WithVersion(serverVersion),
		mcp.WithLogger(logger.With("component", "mcp")),
		mcp.WithFilenameLabels(cfg.FilenameLabels),
	}

	var collector *metrics.Collector
	if cfg.MetricsAddr != "" {
		collector = metrics.NewCollector(metricsNamespace, nil)
		gatewayOpts = append(gatewayOpts, google.WithRecorder(collector))
		workflowOpts = append(workflowOpts, workflow.WithRecorder(collector))
		serverOpts = append(serverOpts, mcp.WithRecorder(collector))
	}

	gateway := google.New(gatewayOpts...)
	service := workflow.New(gateway, workflowOpts...)
	s := mcp.NewServer(service, serverOpts...)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting MCP server",
			"transport", cfg.Transport,
			"addr", cfg.Addr(),
			"image_model", cfg.ImageModel,
			"text_model", cfg.TextModel,
		)
		switch cfg.Transport {
		case TransportStdio:
			return mcp.ServeStdio(ctx, s)
		case TransportHTTP:
			return mcp.ServeHTTP(ctx, s, cfg.Addr())
		default:
			return mcp.ServeSSE(ctx, s, cfg.Addr())
		}
	})

	if collector != nil {
		g.Go(func() error {
			return serveMetrics(ctx, cfg.MetricsAddr, collector.Handler(), logger)
		})
	}

	return g.Wait()
}

func serveMetrics(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics shutdown error", "error", err)
		}
	}()

	logger.Info("starting metrics server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
