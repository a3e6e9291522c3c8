package model

import (
	"context"
	"fmt"
	"sync"
)

// FakeModel produces a canned Response for a single Request — the Go
// analogue of lattice_llm.bedrock.client.FakeBedrockModel.
type FakeModel interface {
	GenerateResponse(ctx context.Context, req Request) (Response, error)
}

// FakeModelFunc adapts a plain function to FakeModel.
type FakeModelFunc func(ctx context.Context, req Request) (Response, error)

// GenerateResponse calls f.
func (f FakeModelFunc) GenerateResponse(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// FakeBackend is a ChatModel that dispatches by ModelID to a registered
// FakeModel, the Go port of lattice_llm.bedrock.client.FakeBedrockClient.
// Tests and examples use it to exercise the engine without calling a real
// vendor.
type FakeBackend struct {
	mu     sync.Mutex
	models map[ModelID]FakeModel
	calls  []Request
}

// NewFakeBackend builds a FakeBackend from a model-id -> FakeModel mapping.
func NewFakeBackend(models map[ModelID]FakeModel) *FakeBackend {
	m := make(map[ModelID]FakeModel, len(models))
	for k, v := range models {
		m[k] = v
	}
	return &FakeBackend{models: m}
}

// Chat records req and dispatches it to the registered model for
// req.ModelID.
func (f *FakeBackend) Chat(_ context.Context, req Request) (Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	m, ok := f.models[req.ModelID]
	f.mu.Unlock()
	if !ok {
		return Response{}, fmt.Errorf("model: fake backend has no model registered for %q", req.ModelID)
	}
	return m.GenerateResponse(context.Background(), req)
}

// ChatStream calls Chat and replays the resulting text as a single chunk,
// since FakeModel implementations generate complete responses rather than
// incremental ones.
func (f *FakeBackend) ChatStream(ctx context.Context, req Request, onChunk func(string) error) (Response, error) {
	resp, err := f.Chat(ctx, req)
	if err != nil {
		return Response{}, err
	}
	if text := resp.Message.TextContent(); text != "" {
		if err := onChunk(text); err != nil {
			return Response{}, err
		}
	}
	return resp, nil
}

// Calls returns every Request seen so far, in order.
func (f *FakeBackend) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.calls))
	copy(out, f.calls)
	return out
}

// Reset clears recorded call history.
func (f *FakeBackend) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}
