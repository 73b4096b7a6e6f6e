package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	i := NoopInsertHooks{}
	i.OnInsertStart(ctx, 3)
	i.OnSegment(ctx, 0, 4, 7, time.Millisecond)
	i.OnInsertComplete(ctx, 3, true, time.Second, nil)
	i.OnInsertComplete(ctx, 0, false, time.Second, errors.New("boom"))

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "adjacency")
	c.OnCacheMiss(ctx, "adjacency")
	c.OnCacheSet(ctx, "adjacency", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/maps/abc/locate")
	h.OnResponse(ctx, "GET", "/maps/abc/locate", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Insert().(NoopInsertHooks); !ok {
		t.Error("Insert() should return NoopInsertHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customInsert := &testInsertHooks{}
	SetInsertHooks(customInsert)
	if Insert() != customInsert {
		t.Error("SetInsertHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Insert().(NoopInsertHooks); !ok {
		t.Error("Reset() should restore NoopInsertHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testInsertHooks{}
	SetInsertHooks(custom)
	SetInsertHooks(nil)

	if Insert() != custom {
		t.Error("SetInsertHooks(nil) should be ignored")
	}
}

type testInsertHooks struct{ NoopInsertHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
