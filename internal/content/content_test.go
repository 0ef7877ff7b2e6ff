package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/artcast/artcast/internal/schedule"
)

func TestFetchArtist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/artists/featured" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer k1" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Write([]byte(`{"artist":{"name":"Ana","handle":"@ana","bio":"paints","followers":120,"profileUrl":"https://x/ana"}}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "k1", 5*time.Second)
	rec, err := p.Fetch(context.Background(), schedule.FetchArtist)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if rec == nil {
		t.Fatal("expected record")
	}
	if rec.Kind != schedule.FetchArtist || rec.Name != "Ana" || rec.Handle != "@ana" || rec.Followers != 120 {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestFetchListingFromArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/listings/latest" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"listings":[{"title":"Dawn #4","collection":"Dawns","price":"0.8","currency":"ETH","seller":"0xabc","url":"https://m/4"}]}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "", 5*time.Second)
	rec, err := p.Fetch(context.Background(), schedule.FetchNFT)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if rec.Title != "Dawn #4" || rec.Price != "0.8" || rec.Currency != "ETH" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestFetchListingNameFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"listing":{"name":"Untitled 9","price":"2"}}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "", 5*time.Second)
	rec, err := p.Fetch(context.Background(), schedule.FetchNFT)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if rec.Title != "Untitled 9" {
		t.Errorf("expected name fallback, got %+v", rec)
	}
}

func TestFetchAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "", 5*time.Second)
	rec, err := p.Fetch(context.Background(), schedule.FetchArtist)
	if err != nil {
		t.Fatalf("404 should be absent, not an error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestFetchRejectsBadPayloads(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
	}{
		{"server error", "oops", http.StatusInternalServerError},
		{"invalid json", "{broken", http.StatusOK},
		{"artist without name", `{"artist":{"bio":"x"}}`, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			p := NewHTTPProvider(srv.URL, "", 5*time.Second)
			if _, err := p.Fetch(context.Background(), schedule.FetchArtist); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestFetchUnknownKind(t *testing.T) {
	p := NewHTTPProvider("http://localhost", "", time.Second)
	if _, err := p.Fetch(context.Background(), schedule.FetchKind("weather")); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
