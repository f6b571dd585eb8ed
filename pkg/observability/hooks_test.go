package observability

import (
	"context"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	builds  int
	layouts int
	exports int
}

func (h *recordingPipelineHooks) OnBuildStart(context.Context, int, int)     { h.builds++ }
func (h *recordingPipelineHooks) OnLayoutStart(context.Context, string, int) { h.layouts++ }
func (h *recordingPipelineHooks) OnExportStart(context.Context, string)      { h.exports++ }

type recordingCacheHooks struct {
	NoopCacheHooks
	hits, misses int
}

func (h *recordingCacheHooks) OnCacheHit(context.Context, string)  { h.hits++ }
func (h *recordingCacheHooks) OnCacheMiss(context.Context, string) { h.misses++ }

type recordingAPIHooks struct {
	NoopAPIHooks
	requests int
}

func (h *recordingAPIHooks) OnRequest(context.Context, string, string) { h.requests++ }

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	// Must not panic.
	Pipeline().OnBuildStart(ctx, 10, 5)
	Pipeline().OnBuildComplete(ctx, 10, 5, time.Millisecond, nil)
	Pipeline().OnLayoutStart(ctx, "overview", 10)
	Pipeline().OnLayoutComplete(ctx, "overview", time.Millisecond, nil)
	Pipeline().OnExportStart(ctx, "json")
	Pipeline().OnExportComplete(ctx, "json", 128, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "graph")
	Cache().OnCacheMiss(ctx, "graph")
	Cache().OnCacheSet(ctx, "graph", 128)
	API().OnRequest(ctx, "GET", "/api/graph")
	API().OnResponse(ctx, "GET", "/api/graph", 200, time.Millisecond)
}

func TestSetAndResetHooks(t *testing.T) {
	defer Reset()
	ctx := context.Background()

	p := &recordingPipelineHooks{}
	c := &recordingCacheHooks{}
	a := &recordingAPIHooks{}
	SetPipelineHooks(p)
	SetCacheHooks(c)
	SetAPIHooks(a)

	Pipeline().OnBuildStart(ctx, 1, 1)
	Pipeline().OnLayoutStart(ctx, "focused", 1)
	Pipeline().OnExportStart(ctx, "dot")
	Cache().OnCacheHit(ctx, "graph")
	Cache().OnCacheMiss(ctx, "filters")
	API().OnRequest(ctx, "POST", "/api/graph")

	if p.builds != 1 || p.layouts != 1 || p.exports != 1 {
		t.Errorf("pipeline counts = %d/%d/%d, want 1/1/1", p.builds, p.layouts, p.exports)
	}
	if c.hits != 1 || c.misses != 1 {
		t.Errorf("cache counts = %d/%d, want 1/1", c.hits, c.misses)
	}
	if a.requests != 1 {
		t.Errorf("api requests = %d, want 1", a.requests)
	}

	Reset()
	Pipeline().OnBuildStart(ctx, 1, 1)
	if p.builds != 1 {
		t.Errorf("hooks still registered after Reset: builds = %d", p.builds)
	}
}

func TestSetNilHooksIgnored(t *testing.T) {
	defer Reset()

	p := &recordingPipelineHooks{}
	SetPipelineHooks(p)
	SetPipelineHooks(nil)

	Pipeline().OnBuildStart(context.Background(), 1, 1)
	if p.builds != 1 {
		t.Errorf("nil registration replaced hooks: builds = %d", p.builds)
	}
}
