package observability

import (
	"context"
	"fmt"
	"testing"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	tr := NoopTreeHooks{}
	tr.OnLink(ctx, "production", 4)
	tr.OnUnlink(ctx, "production", 1)
	tr.OnUpdate(ctx, "production", 2)

	c := NoopCacheHooks{}
	c.OnHit(ctx, "artifact")
	c.OnMiss(ctx, "response")
	c.OnSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Tree().(NoopTreeHooks); !ok {
		t.Error("Tree() should return NoopTreeHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customTree := &testTreeHooks{}
	SetTreeHooks(customTree)
	if Tree() != customTree {
		t.Error("SetTreeHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Tree().(NoopTreeHooks); !ok {
		t.Error("Reset() should restore NoopTreeHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testTreeHooks{}
	SetTreeHooks(custom)

	SetTreeHooks(nil)

	if Tree() != custom {
		t.Error("SetTreeHooks(nil) should be ignored")
	}

	Reset()
}

func TestHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	rec := &recordingHooks{}
	SetTreeHooks(rec)
	SetCacheHooks(rec)

	ctx := context.Background()
	Tree().OnLink(ctx, "production", 4)
	Tree().OnUnlink(ctx, "production", 1)
	Cache().OnHit(ctx, "response")
	Cache().OnMiss(ctx, "artifact")
	Cache().OnSet(ctx, "artifact", 512)

	want := []string{"link:production:4", "unlink:production:1", "hit:response", "miss:artifact", "set:artifact:512"}
	if len(rec.events) != len(want) {
		t.Fatalf("recorded %d events, want %d: %v", len(rec.events), len(want), rec.events)
	}
	for i, e := range want {
		if rec.events[i] != e {
			t.Errorf("event %d = %q, want %q", i, rec.events[i], e)
		}
	}
}

// Test implementations
type testTreeHooks struct{ NoopTreeHooks }
type testCacheHooks struct{ NoopCacheHooks }

type recordingHooks struct {
	NoopTreeHooks
	NoopCacheHooks
	events []string
}

func (r *recordingHooks) OnLink(_ context.Context, treeID string, handle int) {
	r.events = append(r.events, fmtEvent("link", treeID, handle))
}

func (r *recordingHooks) OnUnlink(_ context.Context, treeID string, handle int) {
	r.events = append(r.events, fmtEvent("unlink", treeID, handle))
}

func (r *recordingHooks) OnHit(_ context.Context, keyType string) {
	r.events = append(r.events, "hit:"+keyType)
}

func (r *recordingHooks) OnMiss(_ context.Context, keyType string) {
	r.events = append(r.events, "miss:"+keyType)
}

func (r *recordingHooks) OnSet(_ context.Context, keyType string, size int) {
	r.events = append(r.events, fmtEvent("set", keyType, size))
}

func fmtEvent(kind, name string, n int) string {
	return fmt.Sprintf("%s:%s:%d", kind, name, n)
}
