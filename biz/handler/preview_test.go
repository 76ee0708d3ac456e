package handler_test

import (
	"context"
	"strings"
	"testing"

	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route"

	"github.com/yi-nology/page_harbor/biz/handler"
	previewservice "github.com/yi-nology/page_harbor/biz/service/preview"
	"github.com/yi-nology/page_harbor/pkg/storage/local"
)

func newPreviewEngine(t *testing.T) (*route.Engine, *local.Storage) {
	t.Helper()
	store, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("local.New: %v", err)
	}

	engine := route.NewEngine(hertzconfig.NewOptions([]hertzconfig.Option{}))
	h := handler.NewPreviewHandler(previewservice.NewService(store))
	engine.GET("/api/v1/preview/*objectPath", h.Serve)
	return engine, store
}

func TestPreviewServeStreamsObject(t *testing.T) {
	engine, store := newPreviewEngine(t)

	content := "<html><body>streamed</body></html>"
	if err := store.PutObject(context.Background(), "acme-ab12cd34/index.html",
		strings.NewReader(content), "text/html", int64(len(content))); err != nil {
		t.Fatalf("PutObject: %v", err)
	}

	w := ut.PerformRequest(engine, "GET", "/api/v1/preview/acme-ab12cd34/", nil)
	resp := w.Result()

	if resp.StatusCode() != consts.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode())
	}
	if got := string(resp.Body()); got != content {
		t.Errorf("body = %q, want the stored object bytes", got)
	}
	if got := resp.Header.Get("Content-Type"); got != "text/html" {
		t.Errorf("content type = %q, want text/html", got)
	}
}

func TestPreviewServeMissingObject(t *testing.T) {
	engine, _ := newPreviewEngine(t)

	w := ut.PerformRequest(engine, "GET", "/api/v1/preview/acme-ab12cd34/missing.css", nil)
	resp := w.Result()

	if resp.StatusCode() != consts.StatusBadGateway {
		t.Fatalf("status = %d, want 502 for an unreachable object", resp.StatusCode())
	}
}
