package google

import (
	"fmt"
	"strings"

	"github.com/spetersoncode/imagemcp"
	"github.com/spetersoncode/imagemcp/imagecodec"
	"google.golang.org/genai"
)

// extractText returns the first non-thought text part of the first candidate, trimmed.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", imagemcp.Errorf(imagemcp.KindEmptyResponse, "model returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			if text := strings.TrimSpace(part.Text); text != "" {
				return text, nil
			}
		}
	}

	return "", imagemcp.Errorf(imagemcp.KindEmptyResponse, "model returned no text")
}

// extractImage returns the first inline image of the first candidate.
func extractImage(resp *genai.GenerateContentResponse) (imagemcp.Image, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		msg := "model returned no candidates"
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			msg = fmt.Sprintf("request blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return imagemcp.Image{}, imagemcp.NewError(imagemcp.KindNoImageReturned, msg, nil)
	}

	candidate := resp.Candidates[0]
	var texts []string
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return imagecodec.Wrap(imagecodec.RawPayload(part.InlineData.Data), part.InlineData.MIMEType), nil
			}
			if text := strings.TrimSpace(part.Text); text != "" && !part.Thought {
				texts = append(texts, text)
			}
		}
	}

	msg := "no image was generated from the model response"
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		msg += fmt.Sprintf(" (finish reason: %s)", candidate.FinishReason)
	}
	if len(texts) > 0 {
		msg += ": " + strings.Join(texts, " ")
	}
	return imagemcp.Image{}, imagemcp.NewError(imagemcp.KindNoImageReturned, msg, nil)
}
