package fetcher

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGenerateMissingKey(t *testing.T) {
	client := NewGeminiClient("", "gemini-2.5-flash")

	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, CauseAuth, perr.Cause)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestClassifyAPIError(t *testing.T) {
	testCases := []struct {
		code int
		want ErrorCause
	}{
		{404, CauseModelNotFound},
		{401, CauseAuth},
		{403, CauseAuth},
		{429, CauseQuota},
		{500, CauseUnknown},
	}

	for _, tc := range testCases {
		err := genai.APIError{Code: tc.code, Message: "x"}
		assert.Equal(t, tc.want, classifyAPIError(err), "code %d", tc.code)

		// 包了一层也要能认出来
		wrapped := fmt.Errorf("call failed: %w", err)
		assert.Equal(t, tc.want, classifyAPIError(wrapped), "wrapped code %d", tc.code)
	}

	assert.Equal(t, CauseUnknown, classifyAPIError(errors.New("plain error")))
}

func TestProviderErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	perr := &ProviderError{Cause: CauseQuota, Err: inner}

	assert.Equal(t, "inner", perr.Error())
	assert.ErrorIs(t, perr, inner)
}
