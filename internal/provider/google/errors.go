package google

import (
	"errors"

	"github.com/spetersoncode/imagemcp"
	"google.golang.org/genai"
)

// wrapError tags an error raised by the genai SDK or its transport as an
// upstream failure. The original error stays reachable through Unwrap.
// The HTTP status is copied from genai.APIError when present.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	wrapped := imagemcp.NewError(imagemcp.KindUpstreamFailure, "gemini request failed", err)

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		wrapped.Code = apiErr.Code
	}
	return wrapped
}
