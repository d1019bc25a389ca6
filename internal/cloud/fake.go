package cloud

import (
	"context"
	"sync"

	"github.com/g1c/g1c/internal/models"
)

// FakeProvider is an in-memory Provider for tests. List results and
// lifecycle errors are scripted per call; lifecycle invocations are
// recorded.
type FakeProvider struct {
	mu sync.Mutex

	ProjectID string
	RegionID  string

	// ListResults is consumed one entry per List call; the last entry is
	// reused once the script runs out.
	ListResults []ListResult
	listCalls   int

	// OpErr, when set, is returned by every lifecycle call.
	OpErr error
	// OpBlock, when set, makes lifecycle calls wait for ctx cancellation.
	OpBlock bool

	Calls []OpCall
}

// ListResult scripts one List response.
type ListResult struct {
	Instances []models.Instance
	Err       error
}

// OpCall records one lifecycle invocation.
type OpCall struct {
	Verb string
	ID   string
}

func (f *FakeProvider) List(ctx context.Context) ([]models.Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ListResults) == 0 {
		return nil, nil
	}
	i := f.listCalls
	if i >= len(f.ListResults) {
		i = len(f.ListResults) - 1
	}
	f.listCalls++
	r := f.ListResults[i]
	return r.Instances, r.Err
}

// ListCalls reports how many times List has been invoked.
func (f *FakeProvider) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *FakeProvider) lifecycle(ctx context.Context, verb, id string) error {
	f.mu.Lock()
	f.Calls = append(f.Calls, OpCall{Verb: verb, ID: id})
	block, err := f.OpBlock, f.OpErr
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return &Error{Kind: KindTransient, Message: "cancelled"}
	}
	return err
}

func (f *FakeProvider) Start(ctx context.Context, id string) error {
	return f.lifecycle(ctx, "start", id)
}

func (f *FakeProvider) Stop(ctx context.Context, id string) error {
	return f.lifecycle(ctx, "stop", id)
}

func (f *FakeProvider) Restart(ctx context.Context, id string) error {
	return f.lifecycle(ctx, "restart", id)
}

func (f *FakeProvider) Delete(ctx context.Context, id string) error {
	return f.lifecycle(ctx, "delete", id)
}

func (f *FakeProvider) Project() string { return f.ProjectID }
func (f *FakeProvider) Region() string  { return f.RegionID }

func (f *FakeProvider) Version(ctx context.Context) (string, error) {
	return "Google Cloud SDK 0.0.0 (fake)", nil
}
