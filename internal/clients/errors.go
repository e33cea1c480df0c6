package clients

import (
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// FormatServiceError renders a generation-service failure for the
// error-shaped summary. The dashboard classifies failed analyses by matching
// the literal substrings "Error code:" and "context_length_exceeded" in the
// summary text, so API failures are rendered in that shape rather than with
// the SDK's default error string.
func FormatServiceError(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if code, ok := apiErr.Code.(string); ok && code != "" {
			return fmt.Sprintf("Error code: %d - %s: %s", apiErr.HTTPStatusCode, code, apiErr.Message)
		}
		return fmt.Sprintf("Error code: %d - %s", apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("Error code: %d - %v", reqErr.HTTPStatusCode, reqErr.Err)
	}

	return err.Error()
}
