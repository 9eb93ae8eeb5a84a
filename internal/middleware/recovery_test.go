package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"tvrelay/internal/model"
)

type memHookStore struct {
	mu      sync.Mutex
	records []model.WebhookRecord
	err     error
}

func (m *memHookStore) Insert(ctx context.Context, record *model.WebhookRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, *record)
	return nil
}

func newPanicServer(store WebhookStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.Use(Recovery(store))
	g.POST("/webhook", func(c *gin.Context) {
		panic("order engine exploded")
	})
	return g
}

func TestRecoveryRespondsAndAudits(t *testing.T) {
	store := &memHookStore{}
	g := newPanicServer(store)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"action":"BUY"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not json: %q", w.Body.String())
	}
	msg, _ := resp["error"].(string)
	if !strings.Contains(msg, "order engine exploded") {
		t.Errorf("error = %q", msg)
	}

	// 留痕：一条400审计记录，带headers、原始body和错误原因
	if len(store.records) != 1 {
		t.Fatalf("want 1 audit row, got %d", len(store.records))
	}
	rec := store.records[0]
	if rec.StatusCode != http.StatusBadRequest || rec.Path != "/webhook" {
		t.Errorf("audit record = %+v", rec)
	}
	if !strings.Contains(rec.Headers, "Content-Type") {
		t.Errorf("headers not captured: %q", rec.Headers)
	}
	if !strings.Contains(rec.Raw, `"action":"BUY"`) {
		t.Errorf("raw body not captured: %q", rec.Raw)
	}
	if !strings.Contains(rec.Json, "order engine exploded") {
		t.Errorf("audit json = %q", rec.Json)
	}
}

func TestRecoveryToleratesAuditFailure(t *testing.T) {
	store := &memHookStore{err: errors.New("insert failed")}
	g := newPanicServer(store)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)

	// 审计写失败不能吞掉兜底响应
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not json: %q", w.Body.String())
	}
	if _, ok := resp["error"]; !ok {
		t.Errorf("resp = %v", resp)
	}
}

func TestRecoveryNilStore(t *testing.T) {
	g := newPanicServer(nil)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
