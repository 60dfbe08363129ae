package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shipcalc/pkg/errorx"
)

func TestDispatcherGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("query key = %q, want secret", r.URL.Query().Get("key"))
		}
		if r.Header.Get("X-Custom") != "yes" {
			t.Errorf("header X-Custom = %q, want yes", r.Header.Get("X-Custom"))
		}
		w.Write([]byte(`{"rows":[{"value":123.5}],"status":"OK"}`))
	}))
	defer srv.Close()

	params := NewParams()
	params.Add("secret", "key", false)
	headers := NewHeaders()
	headers.Add("yes", "X-Custom")

	d := Get(context.Background(), srv.URL, params, headers, nil)
	if d.IsError() {
		t.Fatalf("unexpected error: %v", d.Err())
	}
	if d.ResponseCode() != 200 {
		t.Errorf("ResponseCode() = %d", d.ResponseCode())
	}

	if got := d.GetJSONPath([]string{"rows", "0", "value"}, nil); got != 123.5 {
		t.Errorf("GetJSONPath(rows.0.value) = %v, want 123.5", got)
	}
	if got := d.GetJSONPath([]string{"rows", "5", "value"}, "fb"); got != "fb" {
		t.Errorf("GetJSONPath out-of-range = %v, want fallback", got)
	}
	if got := d.GetJSONPath([]string{"missing"}, "fb"); got != "fb" {
		t.Errorf("GetJSONPath missing = %v, want fallback", got)
	}
}

func TestDispatcherPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["mode"] != "drive" {
			t.Errorf("body mode = %v, want drive", body["mode"])
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	params := NewParams()
	params.Add("drive", "mode", false)

	d := Post(context.Background(), srv.URL, params, nil, nil)
	if d.IsError() {
		t.Fatalf("unexpected error: %v", d.Err())
	}
}

func TestDispatcherNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"invalid key"}}`))
	}))
	defer srv.Close()

	d := Get(context.Background(), srv.URL, nil, nil, nil)
	if !d.IsError() {
		t.Fatal("expected error for 403")
	}
	if !errorx.IsKind(d.Err(), errorx.KindProviderError) {
		t.Errorf("error kind = %v, want KindProviderError", errorx.KindOf(d.Err()))
	}

	// 非 2xx 响应体仍可自省
	if got := d.GetJSONPath([]string{"error", "message"}, nil); got != "invalid key" {
		t.Errorf("GetJSONPath(error.message) = %v", got)
	}
}

func TestDispatcherMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	d := Get(context.Background(), srv.URL, nil, nil, nil)
	if d.IsError() {
		t.Fatalf("2xx with bad body should not be an error: %v", d.Err())
	}
	if d.ResponseBodyJSON() != nil {
		t.Error("ResponseBodyJSON() should be nil for malformed body")
	}
	if got := d.GetJSONPath([]string{"any"}, "fb"); got != "fb" {
		t.Errorf("GetJSONPath on malformed body = %v, want fallback", got)
	}
}

func TestDispatcherConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // 立即关掉，制造连接失败

	d := Get(context.Background(), srv.URL, nil, nil, nil)
	if !d.IsError() {
		t.Fatal("expected transport error")
	}
	kind := errorx.KindOf(d.Err())
	if kind != errorx.KindNetworkError && kind != errorx.KindNetworkTimeout {
		t.Errorf("error kind = %v, want network error", kind)
	}
}

func TestDispatcherDebugMapMasking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"api_key":"sk-12345","nested":{"api_key":"sk-12345"},"safe":"visible"}`))
	}))
	defer srv.Close()

	params := NewParams()
	params.Add("sk-12345", "api_key", false)
	params.Add("drive", "mode", false)
	headers := NewHeaders()
	headers.Add("sk-12345", "X-Goog-Api-Key")

	mask := SuffixMask(".api_key", ".X-Goog-Api-Key")
	d := Get(context.Background(), srv.URL, params, headers, mask)

	debug := d.ToDebugMap()
	serialized, err := json.Marshal(debug)
	if err != nil {
		t.Fatalf("marshal debug map: %v", err)
	}

	// url 字段不含查询串，密钥只可能出现在被脱敏的叶子上
	if strings.Contains(string(serialized), "sk-12345") {
		t.Errorf("debug map leaks secret: %s", serialized)
	}
	if !strings.Contains(string(serialized), "***") {
		t.Error("debug map should contain masked placeholder")
	}
	if !strings.Contains(string(serialized), "visible") {
		t.Error("non-secret leaves should survive masking")
	}
	if !strings.Contains(string(serialized), "drive") {
		t.Error("non-secret params should survive masking")
	}
}

func TestDispatcherDebugMapNoMask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"a":"b"}`))
	}))
	defer srv.Close()

	d := Get(context.Background(), srv.URL, nil, nil, nil)
	debug := d.ToDebugMap()
	if debug["method"] != http.MethodGet {
		t.Errorf("debug method = %v", debug["method"])
	}
	if _, ok := debug["error"]; ok {
		t.Error("successful request should not carry error field")
	}
}
