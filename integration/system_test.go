//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

var (
	baseURL = getenv("E2E_BASE_URL", "http://localhost:4000")
	secret  = getenv("E2E_WEBHOOK_SECRET", "demo_secret")
)

func TestSystem_E2E(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var products []map[string]any
	doJSON(t, http.MethodGet, baseURL+"/api/products", nil, nil, &products, 200)
	if len(products) == 0 {
		t.Fatalf("expected non-empty products")
	}

	var created struct {
		OrderID string `json:"orderId"`
		Amount  int64  `json:"amount"`
	}
	doJSON(t, http.MethodPost, baseURL+"/api/create-order", map[string]any{
		"items":    []map[string]any{{"title": "A", "price": 100, "qty": 2}},
		"customer": map[string]any{"email": "e2e@example.com"},
	}, nil, &created, 200)
	if created.Amount != 200 {
		t.Fatalf("amount=%d want=200", created.Amount)
	}

	payload, err := json.Marshal(map[string]any{"orderId": created.OrderID, "status": "paid"})
	if err != nil {
		t.Fatalf("marshal webhook: %v", err)
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)

	var ok struct {
		OK bool `json:"ok"`
	}
	doRaw(t, http.MethodPost, baseURL+"/api/webhook", payload, map[string]string{
		"x-demo-signature": hex.EncodeToString(mac.Sum(nil)),
	}, &ok, 200)
	if !ok.OK {
		t.Fatalf("webhook not ok")
	}

	var dl struct {
		DownloadURLs []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"downloadUrls"`
	}
	doJSON(t, http.MethodGet, baseURL+"/download/"+created.OrderID, nil, nil, &dl, 200)
	if len(dl.DownloadURLs) != 1 || dl.DownloadURLs[0].Title != "A" {
		t.Fatalf("unexpected downloadUrls: %+v", dl.DownloadURLs)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("service never became ready: %v", ctx.Err())
		default:
		}

		resp, err := http.Get(url)
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string, out any, wantStatus int) {
	t.Helper()

	var raw []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		raw = b
	}
	doRaw(t, method, url, raw, headers, out, wantStatus)
}

func doRaw(t *testing.T, method, url string, body []byte, headers map[string]string, out any, wantStatus int) {
	t.Helper()

	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	rawResp, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s status=%d want=%d body=%s", method, url, resp.StatusCode, wantStatus, string(rawResp))
	}
	if out != nil {
		if err := json.Unmarshal(rawResp, out); err != nil {
			t.Fatalf("decode: %v body=%s", err, string(rawResp))
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
