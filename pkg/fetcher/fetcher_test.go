package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("the cat sat on the mat"))
		case "/empty":
			w.WriteHeader(http.StatusOK)
		case "/created":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte("made"))
		case "/latin1":
			w.Header().Set("Content-Type", "text/plain; charset=iso-8859-1")
			_, _ = w.Write([]byte("caf\xe9 na\xefve caf\xe9"))
		case "/latin1-meta":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><head><meta charset=\"iso-8859-1\"></head><body>na\xefve</body></html>"))
		case "/invalid":
			_, _ = w.Write([]byte{'a', 0xff, 'b'})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)

	tests := []struct {
		name       string
		path       string
		wantText   string
		wantStatus int
		wantErr    bool
	}{
		{name: "plain text", path: "/ok", wantText: "the cat sat on the mat", wantStatus: 200},
		{name: "empty body is not an error", path: "/empty", wantText: "", wantStatus: 200},
		{name: "any 2xx succeeds", path: "/created", wantText: "made", wantStatus: 201},
		{name: "declared charset is decoded", path: "/latin1", wantText: "caf\u00e9 na\u00efve caf\u00e9", wantStatus: 200},
		{name: "html meta charset is decoded", path: "/latin1-meta", wantText: "<html><head><meta charset=\"iso-8859-1\"></head><body>na\u00efve</body></html>", wantStatus: 200},
		{name: "invalid utf-8 is replaced", path: "/invalid", wantText: "a\uFFFDb", wantStatus: 200},
		{name: "404 fails", path: "/missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := f.GetText(context.Background(), srv.URL+tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if doc.Text != tt.wantText {
				t.Errorf("doc.Text = %q, want %q", doc.Text, tt.wantText)
			}
			if doc.StatusCode != tt.wantStatus {
				t.Errorf("doc.StatusCode = %d, want %d", doc.StatusCode, tt.wantStatus)
			}
			if doc.URL != srv.URL+tt.path {
				t.Errorf("doc.URL = %q", doc.URL)
			}
		})
	}
}

func TestGetText_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher(time.Second).GetText(context.Background(), srv.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", fetchErr.StatusCode)
	}
	if IsTimeout(err) {
		t.Error("IsTimeout() = true for a status error")
	}
}

func TestGetText_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewFetcher(time.Second).GetText(context.Background(), url)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
	if fetchErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", fetchErr.StatusCode)
	}
}

func TestGetText_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewFetcher(50*time.Millisecond).GetText(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("GetText() error = nil, want timeout")
	}
	if !IsTimeout(err) {
		t.Errorf("IsTimeout(%v) = false, want true", err)
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("timeout error is not a *FetchError: %v", err)
	}
}

func TestGetText_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewFetcher(0).GetText(ctx, srv.URL)
	if !IsTimeout(err) {
		t.Errorf("IsTimeout(%v) = false, want true", err)
	}
}
