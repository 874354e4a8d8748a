package testutil

import (
	"context"
	"sync"

	"github.com/fastygo/coachly/internal/llm"
)

// FakeLLM answers completions from a per-task script and records every request.
type FakeLLM struct {
	mu        sync.Mutex
	Responses map[llm.TaskType]string
	Errors    map[llm.TaskType]error
	// StreamErr is returned by OpenStream; a nil value yields llm.ErrNotConfigured.
	StreamErr error

	Requests       []llm.CompletionRequest
	StreamRequests []llm.StreamRequest
}

func NewFakeLLM() *FakeLLM {
	return &FakeLLM{
		Responses: make(map[llm.TaskType]string),
		Errors:    make(map[llm.TaskType]error),
	}
}

// Respond scripts the raw model text for a task.
func (f *FakeLLM) Respond(task llm.TaskType, text string) *FakeLLM {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses[task] = text
	return f
}

// Fail scripts an error for a task.
func (f *FakeLLM) Fail(task llm.TaskType, err error) *FakeLLM {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors[task] = err
	return f
}

func (f *FakeLLM) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, req)
	if err := f.Errors[req.Task]; err != nil {
		return nil, err
	}
	text, ok := f.Responses[req.Task]
	if !ok {
		return nil, llm.ErrUpstream
	}
	return &llm.CompletionResponse{Text: text, Model: "fake"}, nil
}

func (f *FakeLLM) OpenStream(_ context.Context, req llm.StreamRequest) (*llm.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StreamRequests = append(f.StreamRequests, req)
	if f.StreamErr != nil {
		return nil, f.StreamErr
	}
	return nil, llm.ErrNotConfigured
}

func (f *FakeLLM) Configured() (bool, bool) {
	return true, true
}

// Calls returns how many completions were requested for task.
func (f *FakeLLM) Calls(task llm.TaskType) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.Requests {
		if r.Task == task {
			n++
		}
	}
	return n
}

// LastRequest returns the most recent completion request for task.
func (f *FakeLLM) LastRequest(task llm.TaskType) (llm.CompletionRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.Requests) - 1; i >= 0; i-- {
		if f.Requests[i].Task == task {
			return f.Requests[i], true
		}
	}
	return llm.CompletionRequest{}, false
}
