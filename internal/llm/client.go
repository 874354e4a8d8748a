package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest holds the parameters for a single JSON completion.
type CompletionRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	// JSONObject asks the gateway for response_format json_object.
	JSONObject  bool
	Temperature *float64 // nil uses task default
	MaxTokens   *int     // nil uses task default
}

// CompletionResponse holds the text of the first choice.
type CompletionResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// StreamRequest is a chat conversation to be streamed back token by token.
type StreamRequest struct {
	SystemPrompt string
	Messages     []Message
}

// Client provides access to the hosted LLM gateway.
type Client interface {
	// Complete sends one system+user prompt pair and returns the raw text response.
	// Calls are single-attempt.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// OpenStream starts a streaming chat completion. The upstream status is
	// checked before returning, so errors surface before any bytes are relayed.
	OpenStream(ctx context.Context, req StreamRequest) (*Stream, error)

	// Configured reports whether JSON completions and chat streaming can be served.
	Configured() (completions bool, chat bool)
}

// Option customizes the gateway client.
type Option func(*gatewayClient)

// WithDial overrides how connections are established. Tests use it with
// in-memory listeners.
func WithDial(dial fasthttp.DialFunc) Option {
	return func(c *gatewayClient) {
		c.http.Dial = dial
		c.stream.Dial = dial
	}
}

type gatewayClient struct {
	cfg      Config
	http     *fasthttp.Client
	stream   *fasthttp.Client
	observer Observer
}

// NewGatewayClient creates a Client for an OpenAI-compatible chat completions gateway.
func NewGatewayClient(cfg Config, observer Observer, opts ...Option) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Chat.Timeout <= 0 {
		cfg.Chat.Timeout = 2 * time.Minute
	}
	if !cfg.Chat.Format.IsValid() {
		cfg.Chat.Format = FormatOpenAI
	}
	c := &gatewayClient{
		cfg: cfg,
		http: &fasthttp.Client{
			Name:                "coachly",
			MaxConnsPerHost:     64,
			MaxIdleConnDuration: 30 * time.Second,
		},
		stream: &fasthttp.Client{
			Name:               "coachly",
			StreamResponseBody: true,
			ReadTimeout:        cfg.Chat.Timeout,
		},
		observer: observer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Stream         bool            `json:"stream,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (c *gatewayClient) Configured() (bool, bool) {
	return c.cfg.Configured(), c.cfg.Chat.Configured()
}

func (c *gatewayClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if !c.cfg.Configured() {
		return nil, ErrNotConfigured
	}
	start := time.Now()

	taskCfg := c.cfg.Tasks[req.Task]
	body := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []Message{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: taskCfg.Temperature,
		MaxTokens:   taskCfg.MaxTokens,
	}
	if req.Temperature != nil {
		body.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		body.MaxTokens = *req.MaxTokens
	}
	if req.JSONObject {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	resp, err := c.doRequest(ctx, req.Task, body)
	latency := time.Since(start).Milliseconds()
	c.observer.OnCallComplete(CallEvent{
		Task:      req.Task,
		Model:     c.cfg.Model,
		LatencyMs: latency,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	if err != nil {
		return nil, err
	}

	return &CompletionResponse{
		Text:      resp.Choices[0].Message.Content,
		Model:     resp.Model,
		LatencyMs: latency,
	}, nil
}

func (c *gatewayClient) doRequest(ctx context.Context, task TaskType, body chatCompletionRequest) (*chatCompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq := fasthttp.AcquireRequest()
	httpResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(httpReq)
	defer fasthttp.ReleaseResponse(httpResp)

	c.prepare(httpReq, c.cfg.Endpoint, c.cfg.APIKey, payload)

	deadline := time.Now().Add(c.cfg.TaskTimeout(task))
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.http.DoDeadline(httpReq, httpResp, deadline); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if status := httpResp.StatusCode(); status < 200 || status > 299 {
		return nil, statusError(status, httpResp.Body())
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(httpResp.Body(), &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding gateway response: %v", ErrInvalidOutput, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: gateway returned no choices", ErrInvalidOutput)
	}
	return &resp, nil
}

func (c *gatewayClient) prepare(req *fasthttp.Request, uri, apiKey string, payload []byte) {
	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+apiKey)
	req.SetBodyRaw(payload)
}
