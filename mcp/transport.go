package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
)

// shutdownTimeout bounds graceful shutdown of the network transports.
const shutdownTimeout = 5 * time.Second

// ServeStdio serves s over stdin/stdout until ctx ends or stdin closes.
// This is the standard transport for MCP servers invoked as subprocesses.
func ServeStdio(ctx context.Context, s *server.MCPServer) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelError))

	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ServeSSE serves s over Server-Sent Events on addr until ctx ends.
func ServeSSE(ctx context.Context, s *server.MCPServer, addr string) error {
	sse := server.NewSSEServer(s)
	return serveHTTP(ctx, addr, sse.Start, sse.Shutdown)
}

// ServeHTTP serves s over streamable HTTP on addr until ctx ends.
func ServeHTTP(ctx context.Context, s *server.MCPServer, addr string) error {
	streamable := server.NewStreamableHTTPServer(s)
	return serveHTTP(ctx, addr, streamable.Start, streamable.Shutdown)
}

func serveHTTP(ctx context.Context, addr string, start func(string) error, shutdown func(context.Context) error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			return err
		}
		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-shutdownCtx.Done():
			return shutdownCtx.Err()
		}
	}
}
