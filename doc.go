// Package imagemcp serves Gemini image generation and editing as MCP tools.
//
// An MCP client sends a natural-language prompt, optionally with an image, and
// receives the image produced by Google's Gemini image model. The server wraps
// the prompt in a fixed instruction template, translates it to English first,
// validates any supplied image, and forwards everything to Gemini in a single
// request.
//
// # Packages
//
//   - [github.com/spetersoncode/imagemcp/prompt]: instruction templates
//   - [github.com/spetersoncode/imagemcp/imagecodec]: data URL and file decoding
//   - [github.com/spetersoncode/imagemcp/workflow]: generate and transform workflows
//   - [github.com/spetersoncode/imagemcp/mcp]: MCP tool surface and transports
//
// The root package holds the types shared by all of them: the result [Image]
// and the tagged [Error].
//
// # Errors
//
// Every failure surfaced by this module is an [*Error] with a [Kind]. Use
// [KindOf], [IsKind] and [IsValidation] to tell caller mistakes apart from
// model service failures without matching on message text:
//
//	img, err := svc.TransformFromFile(ctx, path, "make it blue")
//	switch {
//	case imagemcp.IsKind(err, imagemcp.KindNotFound):
//	    // ask the user for another path
//	case imagemcp.IsValidation(err):
//	    // bad input
//	case err != nil:
//	    // Gemini or the network failed
//	}
//
// Service errors of kind [KindUpstreamFailure] keep the original error as their
// cause, so SDK error types remain reachable with errors.As.
//
// # Running the server
//
// The cmd/gemini-image-mcp command starts the server. It reads GEMINI_API_KEY
// (and an optional .env file) and listens for SSE clients on port 9005 by default.
package imagemcp
