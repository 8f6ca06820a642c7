// Package mcp exposes the image workflows as MCP (Model Context Protocol) tools.
//
// Three tools are registered:
//
//   - generate_image_from_text: prompt
//   - transform_image_from_encoded: encoded_image, prompt
//   - transform_image_from_file: image_file_path, prompt
//
// Each tool answers with one image content block. Failures are reported as
// tool error results rather than protocol errors, so the client sees the
// message.
//
// Serve the tools over stdio (for subprocess-based MCP clients):
//
//	s := mcp.NewServer(workflow.New(google.New()))
//	if err := mcp.ServeStdio(ctx, s); err != nil {
//	    log.Fatal(err)
//	}
package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spetersoncode/imagemcp"
)

// Tool names.
const (
	ToolGenerateFromText     = "generate_image_from_text"
	ToolTransformFromEncoded = "transform_image_from_encoded"
	ToolTransformFromFile    = "transform_image_from_file"
)

// Argument names.
const (
	argPrompt        = "prompt"
	argEncodedImage  = "encoded_image"
	argImageFilePath = "image_file_path"
)

// Error prefixes shown to the client.
const (
	generateErrorPrefix  = "Error generating image"
	transformErrorPrefix = "Error transforming image"
)

func generateFromTextTool() mcp.Tool {
	return mcp.NewTool(ToolGenerateFromText,
		mcp.WithDescription("Generate an image from a text prompt. The prompt may be in any language; it is translated to English before generation."),
		mcp.WithString(argPrompt, mcp.Required(),
			mcp.Description("Text prompt describing the image to generate")),
	)
}

func transformFromEncodedTool() mcp.Tool {
	return mcp.NewTool(ToolTransformFromEncoded,
		mcp.WithDescription("Transform an existing image supplied as a base64 data URL according to a text prompt."),
		mcp.WithString(argEncodedImage, mcp.Required(),
			mcp.Description("Base64 encoded image in the form data:image/[format];base64,[data]")),
		mcp.WithString(argPrompt, mcp.Required(),
			mcp.Description("Text prompt describing the desired changes")),
	)
}

func transformFromFileTool() mcp.Tool {
	return mcp.NewTool(ToolTransformFromFile,
		mcp.WithDescription("Transform an image file on the server's filesystem according to a text prompt."),
		mcp.WithString(argImageFilePath, mcp.Required(),
			mcp.Description("Path to the image file")),
		mcp.WithString(argPrompt, mcp.Required(),
			mcp.Description("Text prompt describing the desired changes")),
	)
}

// toolArgs is the union of all tool arguments. Pointers tell a missing
// argument apart from an empty one.
type toolArgs struct {
	Prompt        *string `json:"prompt"`
	EncodedImage  *string `json:"encoded_image"`
	ImageFilePath *string `json:"image_file_path"`
}

// decodeArgs converts the raw arguments object into toolArgs.
func decodeArgs(raw any) (toolArgs, error) {
	var args toolArgs
	if raw == nil {
		return args, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return args, fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(data, &args); err != nil {
		return args, fmt.Errorf("invalid arguments: %w", err)
	}
	return args, nil
}

// requiredArg returns the named argument or an error when it is absent.
func requiredArg(name string, v *string) (string, error) {
	if v == nil {
		return "", fmt.Errorf("missing required argument %q", name)
	}
	return *v, nil
}

// imageResult renders an image, optionally preceded by a filename label.
func imageResult(img imagemcp.Image, label string) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, 2)
	if label != "" {
		content = append(content, mcp.NewTextContent(label))
	}
	content = append(content, mcp.NewImageContent(img.Base64(), img.MIMEType()))
	return &mcp.CallToolResult{Content: content}
}

// errorResult formats a failure as "<prefix>: <message>".
func errorResult(prefix string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", prefix, err))
}
