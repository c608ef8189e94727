package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient() *Client {
	c := New(5*time.Second, "test-agent")
	// No politeness floor in tests.
	c.limiter.SetLimit(1e6)
	return c
}

func TestGetReturnsBody(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte("<html>listings</html>"))
	}))
	defer srv.Close()

	body, err := newTestClient().Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if body != "<html>listings</html>" {
		t.Errorf("unexpected body: %q", body)
	}
	if gotAgent != "test-agent" {
		t.Errorf("expected User-Agent test-agent, got %q", gotAgent)
	}
}

func TestGetClassifiesStatusErrors(t *testing.T) {
	for _, status := range []int{404, 429, 500} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		_, err := newTestClient().Get(context.Background(), srv.URL)
		srv.Close()

		if err == nil {
			t.Fatalf("expected error for status %d", status)
		}
		code, ok := StatusCode(err)
		if !ok || code != status {
			t.Errorf("StatusCode(err) = (%d, %v), want (%d, true)", code, ok, status)
		}
	}
}

func TestGetClassifiesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(20*time.Millisecond, "test-agent")
	c.limiter.SetLimit(1e6)

	_, err := c.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !IsTimeout(err) {
		t.Errorf("expected timeout kind, got %v", err)
	}
}

func TestGetClassifiesNetworkError(t *testing.T) {
	_, err := newTestClient().Get(context.Background(), "http://127.0.0.1:1")
	if err == nil {
		t.Fatal("expected connection error")
	}
	if IsTimeout(err) {
		t.Errorf("connection refused misclassified as timeout: %v", err)
	}
	if _, ok := StatusCode(err); ok {
		t.Errorf("connection refused misclassified as status error: %v", err)
	}
}

func TestSearchURL(t *testing.T) {
	u := SearchURL("https://www.ebay.com", "One Piece", 5, 2)

	for _, want := range []string{
		"https://www.ebay.com/sch/i.html?",
		"_nkw=%22One+Piece%22+manga+english",
		"LH_Sold=1",
		"LH_Complete=1",
		"_udlo=5",
		"_pgn=2",
	} {
		if !strings.Contains(u, want) {
			t.Errorf("SearchURL missing %q in %q", want, u)
		}
	}
}

func TestPolitenessHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient()
	if err := c.Politeness(ctx, 5, 10); err == nil {
		t.Error("expected context error from cancelled politeness delay")
	}
}

func TestPolitenessZeroBounds(t *testing.T) {
	c := newTestClient()
	start := time.Now()
	if err := c.Politeness(context.Background(), 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Error("zero-bound politeness delay slept")
	}
}
