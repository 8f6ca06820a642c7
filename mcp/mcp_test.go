package mcp

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/imagemcp"
)

// fakeWorkflows records the arguments it was called with.
type fakeWorkflows struct {
	mu       sync.Mutex
	img      imagemcp.Image
	err      error
	filename string
	calls    []string
	args     [][]string
}

func (f *fakeWorkflows) record(name string, args ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
}

func (f *fakeWorkflows) GenerateFromText(_ context.Context, prompt string) (imagemcp.Image, error) {
	f.record("generate", prompt)
	return f.img, f.err
}

func (f *fakeWorkflows) TransformFromEncoded(_ context.Context, encoded, prompt string) (imagemcp.Image, error) {
	f.record("encoded", encoded, prompt)
	return f.img, f.err
}

func (f *fakeWorkflows) TransformFromFile(_ context.Context, path, prompt string) (imagemcp.Image, error) {
	f.record("file", path, prompt)
	return f.img, f.err
}

func (f *fakeWorkflows) SuggestFilename(_ context.Context, prompt string) string {
	f.record("filename", prompt)
	return f.filename
}

type recordedCall struct {
	tool string
	err  error
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *fakeRecorder) ObserveToolCall(tool string, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{tool: tool, err: err})
}

func newTestClient(t *testing.T, s *server.MCPServer) *client.Client {
	t.Helper()
	c, err := client.NewInProcessClient(s)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { c.Close() })

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "test-client",
				Version: "1.0.0",
			},
		},
	})
	require.NoError(t, err)
	return c
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := c.CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	require.NoError(t, err)
	return result
}

func errorText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestServer_ListTools(t *testing.T) {
	s := NewServer(&fakeWorkflows{}, WithName("test-server"), WithVersion("0.1.0"))
	c := newTestClient(t, s)

	result, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)
	require.Len(t, result.Tools, 3)

	required := map[string][]string{}
	for _, tool := range result.Tools {
		required[tool.Name] = tool.InputSchema.Required
		assert.NotEmpty(t, tool.Description)
	}
	assert.ElementsMatch(t, []string{"prompt"}, required[ToolGenerateFromText])
	assert.ElementsMatch(t, []string{"encoded_image", "prompt"}, required[ToolTransformFromEncoded])
	assert.ElementsMatch(t, []string{"image_file_path", "prompt"}, required[ToolTransformFromFile])
}

func TestServer_ImageResults(t *testing.T) {
	pixel := []byte{0x89, 'P', 'N', 'G'}

	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		wantCall string
		wantArgs []string
	}{
		{
			name:     "generate from text",
			tool:     ToolGenerateFromText,
			args:     map[string]any{"prompt": "a red bicycle"},
			wantCall: "generate",
			wantArgs: []string{"a red bicycle"},
		},
		{
			name:     "transform from encoded",
			tool:     ToolTransformFromEncoded,
			args:     map[string]any{"encoded_image": "data:image/png;base64,AAAA", "prompt": "make it blue"},
			wantCall: "encoded",
			wantArgs: []string{"data:image/png;base64,AAAA", "make it blue"},
		},
		{
			name:     "transform from file",
			tool:     ToolTransformFromFile,
			args:     map[string]any{"image_file_path": "/tmp/in.png", "prompt": "add a hat"},
			wantCall: "file",
			wantArgs: []string{"/tmp/in.png", "add a hat"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &fakeWorkflows{img: imagemcp.Image{Data: pixel, Format: "png"}}
			c := newTestClient(t, NewServer(w))

			result := callTool(t, c, tt.tool, tt.args)

			assert.False(t, result.IsError)
			require.Len(t, result.Content, 1)
			img, ok := result.Content[0].(mcp.ImageContent)
			require.True(t, ok)
			assert.Equal(t, "image/png", img.MIMEType)
			assert.Equal(t, base64.StdEncoding.EncodeToString(pixel), img.Data)

			assert.Equal(t, []string{tt.wantCall}, w.calls)
			assert.Equal(t, [][]string{tt.wantArgs}, w.args)
		})
	}
}

func TestServer_JPEGMimeType(t *testing.T) {
	w := &fakeWorkflows{img: imagemcp.Image{Data: []byte{0xff, 0xd8}, Format: "jpeg"}}
	c := newTestClient(t, NewServer(w))

	result := callTool(t, c, ToolGenerateFromText, map[string]any{"prompt": "x"})

	img, ok := result.Content[0].(mcp.ImageContent)
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", img.MIMEType)
}

func TestServer_Errors(t *testing.T) {
	t.Run("generate failure", func(t *testing.T) {
		w := &fakeWorkflows{err: imagemcp.Errorf(imagemcp.KindMissingCredential, "GEMINI_API_KEY environment variable is not set")}
		c := newTestClient(t, NewServer(w))

		result := callTool(t, c, ToolGenerateFromText, map[string]any{"prompt": "x"})
		assert.Equal(t, "Error generating image: GEMINI_API_KEY environment variable is not set", errorText(t, result))
	})

	t.Run("transform failure", func(t *testing.T) {
		w := &fakeWorkflows{err: imagemcp.Errorf(imagemcp.KindNotFound, "image file not found: /nonexistent/path.png")}
		c := newTestClient(t, NewServer(w))

		result := callTool(t, c, ToolTransformFromFile, map[string]any{"image_file_path": "/nonexistent/path.png", "prompt": "x"})
		assert.Equal(t, "Error transforming image: image file not found: /nonexistent/path.png", errorText(t, result))
	})

	t.Run("missing arguments", func(t *testing.T) {
		w := &fakeWorkflows{}
		c := newTestClient(t, NewServer(w))

		result := callTool(t, c, ToolTransformFromEncoded, map[string]any{"prompt": "x"})
		assert.Contains(t, errorText(t, result), `missing required argument "encoded_image"`)

		result = callTool(t, c, ToolGenerateFromText, nil)
		assert.Contains(t, errorText(t, result), `missing required argument "prompt"`)

		assert.Empty(t, w.calls)
	})

	t.Run("wrong argument type", func(t *testing.T) {
		w := &fakeWorkflows{}
		c := newTestClient(t, NewServer(w))

		result := callTool(t, c, ToolGenerateFromText, map[string]any{"prompt": 42})
		assert.Contains(t, errorText(t, result), "invalid arguments")
		assert.Empty(t, w.calls)
	})

	t.Run("empty prompt is passed through", func(t *testing.T) {
		w := &fakeWorkflows{img: imagemcp.Image{Data: []byte{1}, Format: "png"}}
		c := newTestClient(t, NewServer(w))

		result := callTool(t, c, ToolGenerateFromText, map[string]any{"prompt": ""})
		assert.False(t, result.IsError)
		assert.Equal(t, [][]string{{""}}, w.args)
	})
}

func TestServer_FilenameLabels(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		w := &fakeWorkflows{img: imagemcp.Image{Data: []byte{1}, Format: "png"}, filename: "red_bicycle"}
		c := newTestClient(t, NewServer(w, WithFilenameLabels(true)))

		result := callTool(t, c, ToolGenerateFromText, map[string]any{"prompt": "a red bicycle"})

		require.Len(t, result.Content, 2)
		label, ok := result.Content[0].(mcp.TextContent)
		require.True(t, ok)
		assert.Equal(t, "red_bicycle", label.Text)
		_, ok = result.Content[1].(mcp.ImageContent)
		assert.True(t, ok)
		assert.Equal(t, []string{"generate", "filename"}, w.calls)
	})

	t.Run("not requested on failure", func(t *testing.T) {
		w := &fakeWorkflows{err: imagemcp.Errorf(imagemcp.KindNoImageReturned, "no image")}
		c := newTestClient(t, NewServer(w, WithFilenameLabels(true)))

		result := callTool(t, c, ToolGenerateFromText, map[string]any{"prompt": "x"})
		assert.True(t, result.IsError)
		assert.Equal(t, []string{"generate"}, w.calls)
	})
}

func TestServer_Recorder(t *testing.T) {
	rec := &fakeRecorder{}
	w := &fakeWorkflows{img: imagemcp.Image{Data: []byte{1}, Format: "png"}}
	c := newTestClient(t, NewServer(w, WithRecorder(rec)))

	callTool(t, c, ToolGenerateFromText, map[string]any{"prompt": "x"})
	callTool(t, c, ToolTransformFromFile, map[string]any{"prompt": "x"})

	require.Len(t, rec.calls, 2)
	assert.Equal(t, ToolGenerateFromText, rec.calls[0].tool)
	assert.NoError(t, rec.calls[0].err)
	assert.Equal(t, ToolTransformFromFile, rec.calls[1].tool)
	assert.Error(t, rec.calls[1].err)
}

func TestServeHTTP_StopsWithContext(t *testing.T) {
	s := NewServer(&fakeWorkflows{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- ServeHTTP(ctx, s, "127.0.0.1:0") }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
