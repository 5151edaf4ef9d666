package providers

import (
	"net/http/httptest"
	"testing"

	"github.com/c360studio/debateclub/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_BuildURL(t *testing.T) {
	p := &OllamaProvider{}

	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"default", "", "http://localhost:11434/v1/chat/completions"},
		{"custom base", "http://gpu-box:8000/v1", "http://gpu-box:8000/v1/chat/completions"},
		{"trailing slash", "http://gpu-box:8000/v1/", "http://gpu-box:8000/v1/chat/completions"},
		{"already complete", "http://gpu-box:8000/v1/chat/completions", "http://gpu-box:8000/v1/chat/completions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.BuildURL(tt.baseURL))
		})
	}
}

func TestOpenAIProvider_BuildURL(t *testing.T) {
	p := &OpenAIProvider{}
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", p.BuildURL(""))
	assert.Equal(t, "https://openrouter.ai/api/v1/chat/completions", p.BuildURL("https://openrouter.ai/api/v1"))
}

func TestAnthropicProvider_BuildURL(t *testing.T) {
	p := &AnthropicProvider{}
	assert.Equal(t, "https://api.anthropic.com/v1/messages", p.BuildURL(""))
	assert.Equal(t, "http://localhost:9999/v1/messages", p.BuildURL("http://localhost:9999/"))
}

func TestAnthropicProvider_SetHeaders(t *testing.T) {
	p := &AnthropicProvider{}
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	req := httptest.NewRequest("POST", "http://example.com", nil)
	p.SetHeaders(req)

	assert.Equal(t, "sk-test", req.Header.Get("x-api-key"))
	assert.Equal(t, anthropicVersion, req.Header.Get("anthropic-version"))
}

func TestOllamaProvider_BuildRequestBody_SystemMessage(t *testing.T) {
	p := &OllamaProvider{}
	temp := 0.7

	body, err := p.BuildRequestBody("m1", []llm.Message{
		{Role: "system", Content: "be neutral"},
		{Role: "user", Content: "introduce the topic"},
	}, &temp, 256)

	require.NoError(t, err)
	assert.Contains(t, string(body), `"model":"m1"`)
	assert.Contains(t, string(body), `"temperature":0.7`)
	assert.Contains(t, string(body), `"max_tokens":256`)
	assert.Contains(t, string(body), `"role":"system"`)
}

func TestAnthropicProvider_BuildRequestBody_ExtractsSystem(t *testing.T) {
	p := &AnthropicProvider{}

	body, err := p.BuildRequestBody("claude", []llm.Message{
		{Role: "system", Content: "be neutral"},
		{Role: "user", Content: "introduce the topic"},
	}, nil, 0)

	require.NoError(t, err)
	assert.Contains(t, string(body), `"system":"be neutral"`)
	// System message must not appear in the messages array
	assert.Contains(t, string(body), `"max_tokens":4096`)
}

func TestOllamaProvider_ParseResponse(t *testing.T) {
	p := &OllamaProvider{}

	body := []byte(`{
		"model": "m1",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "hi"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 4, "completion_tokens": 2, "total_tokens": 6}
	}`)

	resp, err := p.ParseResponse(body, "m1")
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Content)
	assert.Equal(t, 6, resp.Usage.TotalTokens)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestOllamaProvider_ParseResponse_NoChoices(t *testing.T) {
	p := &OllamaProvider{}

	_, err := p.ParseResponse([]byte(`{"model": "m1", "choices": []}`), "m1")
	require.Error(t, err)
}

func TestAnthropicProvider_ParseResponse(t *testing.T) {
	p := &AnthropicProvider{}

	body := []byte(`{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"content": [{"type": "text", "text": "hello "}, {"type": "text", "text": "world"}],
		"model": "claude",
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 3, "output_tokens": 2}
	}`)

	resp, err := p.ParseResponse(body, "claude")
	require.NoError(t, err)
	assert.Equal(t, "hello world", resp.Content)
	assert.Equal(t, 5, resp.Usage.TotalTokens)
	assert.Equal(t, "end_turn", resp.FinishReason)
}
