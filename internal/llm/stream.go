package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// DoneEvent terminates every relayed stream.
var DoneEvent = []byte("data: [DONE]\n\n")

// ErrClientGone is returned by Relay when the downstream writer fails.
var ErrClientGone = errors.New("stream client disconnected")

type tgiRequest struct {
	Inputs     string        `json:"inputs"`
	Parameters tgiParameters `json:"parameters"`
	Stream     bool          `json:"stream"`
}

type tgiParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	Temperature    float64 `json:"temperature,omitempty"`
	TopP           float64 `json:"top_p,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
}

type tgiEvent struct {
	Token *struct {
		Text    string `json:"text"`
		Special bool   `json:"special"`
	} `json:"token"`
	Error string `json:"error"`
}

type deltaChunk struct {
	Choices []deltaChoice `json:"choices"`
}

type deltaChoice struct {
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
	Index int `json:"index"`
}

// Stream is an open upstream chat stream. It must be closed.
type Stream struct {
	resp     *fasthttp.Response
	reader   *bufio.Reader
	format   StreamFormat
	model    string
	start    time.Time
	observer Observer
	closed   bool
}

func (c *gatewayClient) OpenStream(ctx context.Context, req StreamRequest) (*Stream, error) {
	chat := c.cfg.Chat
	if !chat.Configured() {
		return nil, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	start := time.Now()

	payload, err := c.streamPayload(req)
	if err != nil {
		return nil, err
	}

	httpReq := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(httpReq)
	c.prepare(httpReq, chat.Endpoint, chat.APIKey, payload)
	httpReq.Header.Set(fasthttp.HeaderAccept, "text/event-stream")

	httpResp := fasthttp.AcquireResponse()
	fail := func(err error) (*Stream, error) {
		fasthttp.ReleaseResponse(httpResp)
		c.observer.OnCallComplete(CallEvent{
			Task:      TaskChat,
			Model:     chat.Model,
			LatencyMs: time.Since(start).Milliseconds(),
			ErrorCode: errorCode(err),
			Streamed:  true,
		})
		return nil, err
	}

	if err := c.stream.Do(httpReq, httpResp); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return fail(ErrTimeout)
		}
		return fail(fmt.Errorf("%w: %v", ErrUpstream, err))
	}
	if status := httpResp.StatusCode(); status < 200 || status > 299 {
		return fail(statusError(status, httpResp.Body()))
	}

	body := httpResp.BodyStream()
	if body == nil {
		body = bytes.NewReader(httpResp.Body())
	}
	return &Stream{
		resp:     httpResp,
		reader:   bufio.NewReader(body),
		format:   chat.Format,
		model:    chat.Model,
		start:    start,
		observer: c.observer,
	}, nil
}

func (c *gatewayClient) streamPayload(req StreamRequest) ([]byte, error) {
	chat := c.cfg.Chat
	switch chat.Format {
	case FormatTGI:
		return json.Marshal(tgiRequest{
			Inputs: ConversationPrompt(req.SystemPrompt, req.Messages),
			Parameters: tgiParameters{
				MaxNewTokens: chat.MaxNewTokens,
				Temperature:  chat.Temperature,
				TopP:         chat.TopP,
			},
			Stream: true,
		})
	default:
		messages := make([]Message, 0, len(req.Messages)+1)
		messages = append(messages, Message{Role: "system", Content: req.SystemPrompt})
		messages = append(messages, req.Messages...)
		return json.Marshal(chatCompletionRequest{
			Model:       chat.Model,
			Messages:    messages,
			Temperature: chat.Temperature,
			MaxTokens:   chat.MaxNewTokens,
			Stream:      true,
		})
	}
}

// ConversationPrompt flattens a conversation into a single completion prompt
// for upstreams that take raw text input.
func ConversationPrompt(system string, messages []Message) string {
	var b strings.Builder
	b.WriteString(system)
	b.WriteString("\n\n")
	for _, m := range messages {
		if m.Role == "user" {
			b.WriteString("User: ")
		} else {
			b.WriteString("Assistant: ")
		}
		b.WriteString(m.Content)
		b.WriteByte('\n')
	}
	b.WriteString("Assistant:")
	return b.String()
}

// Relay copies the upstream stream to w as OpenAI-compatible SSE, line by line,
// and always finishes with DoneEvent. w is flushed after every event when it
// implements Flush() error.
func (s *Stream) Relay(ctx context.Context, w io.Writer) error {
	relayErr := s.relay(ctx, w)
	if !errors.Is(relayErr, ErrClientGone) {
		if err := writeEvent(w, DoneEvent); err != nil && relayErr == nil {
			relayErr = err
		}
	}

	s.observer.OnCallComplete(CallEvent{
		Task:      TaskChat,
		Model:     s.model,
		LatencyMs: time.Since(s.start).Milliseconds(),
		Success:   relayErr == nil,
		ErrorCode: errorCode(relayErr),
		Streamed:  true,
	})
	return relayErr
}

func (s *Stream) relay(ctx context.Context, w io.Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}

		line, readErr := s.reader.ReadBytes('\n')
		if len(line) > 0 {
			out, err := s.transform(line)
			if err != nil {
				return err
			}
			if len(out) > 0 {
				if err := writeEvent(w, out); err != nil {
					return err
				}
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("%w: reading stream: %v", ErrUpstream, readErr)
		}
	}
}

func (s *Stream) transform(line []byte) ([]byte, error) {
	if s.format == FormatTGI {
		return TranslateTGI(line)
	}
	return PassthroughOpenAI(line), nil
}

// PassthroughOpenAI returns an OpenAI SSE line unchanged, dropping the
// upstream [DONE] marker since Relay writes its own.
func PassthroughOpenAI(line []byte) []byte {
	trimmed := bytes.TrimSpace(line)
	if bytes.HasPrefix(trimmed, []byte("data:")) &&
		bytes.Equal(bytes.TrimSpace(trimmed[len("data:"):]), []byte("[DONE]")) {
		return nil
	}
	if len(trimmed) == 0 {
		return []byte("\n")
	}
	return append(trimmed, '\n')
}

// TranslateTGI converts one text-generation-inference SSE line into an
// OpenAI delta chunk. Lines that carry no visible token yield nil.
func TranslateTGI(line []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(line)
	if !bytes.HasPrefix(trimmed, []byte("data:")) {
		return nil, nil
	}
	payload := bytes.TrimSpace(trimmed[len("data:"):])

	var event tgiEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		// partial or keep-alive lines are skipped
		return nil, nil
	}
	if event.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, event.Error)
	}
	if event.Token == nil || event.Token.Text == "" || event.Token.Special {
		return nil, nil
	}

	chunk := deltaChunk{Choices: []deltaChoice{{Index: 0}}}
	chunk.Choices[0].Delta.Content = event.Token.Text
	encoded, err := json.Marshal(chunk)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(encoded)+8)
	out = append(out, "data: "...)
	out = append(out, encoded...)
	out = append(out, '\n', '\n')
	return out, nil
}

// Close releases the upstream connection.
func (s *Stream) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	err := s.resp.CloseBodyStream()
	fasthttp.ReleaseResponse(s.resp)
	return err
}

func writeEvent(w io.Writer, event []byte) error {
	if _, err := w.Write(event); err != nil {
		return fmt.Errorf("%w: %v", ErrClientGone, err)
	}
	if f, ok := w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("%w: %v", ErrClientGone, err)
		}
	}
	return nil
}
