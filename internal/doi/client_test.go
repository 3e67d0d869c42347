package doi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchBibTeX(t *testing.T) {
	var gotPath, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(" @article{Maus_2020, title={Test}}\n"))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	body, err := c.FetchBibTeX(context.Background(), "10.1234/abc.def")
	if err != nil {
		t.Fatalf("FetchBibTeX() error = %v", err)
	}

	if gotPath != "/10.1234/abc.def" {
		t.Errorf("request path = %q, want /10.1234/abc.def", gotPath)
	}
	if gotAccept != BibTeXAccept {
		t.Errorf("Accept = %q, want %q", gotAccept, BibTeXAccept)
	}
	if string(body) != " @article{Maus_2020, title={Test}}\n" {
		t.Errorf("FetchBibTeX() body = %q", body)
	}
}

func TestFetchBibTeX_FollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/10.1/AB", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/agency/10.1/AB", http.StatusFound)
	})
	mux.HandleFunc("/agency/10.1/AB", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("@misc{ab}"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	body, err := c.FetchBibTeX(context.Background(), "10.1/AB")
	if err != nil {
		t.Fatalf("FetchBibTeX() error = %v", err)
	}
	if string(body) != "@misc{ab}" {
		t.Errorf("FetchBibTeX() body = %q, want @misc{ab}", body)
	}
}

func TestFetchBibTeX_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.FetchBibTeX(context.Background(), "10.1/broken")

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("FetchBibTeX() error = %v, want *HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", httpErr.StatusCode)
	}
	if httpErr.DOI != "10.1/broken" {
		t.Errorf("DOI = %q, want 10.1/broken", httpErr.DOI)
	}
}

func TestFetchBibTeX_EmptyDOI(t *testing.T) {
	c := NewClient()
	if _, err := c.FetchBibTeX(context.Background(), ""); !errors.Is(err, ErrEmptyDOI) {
		t.Errorf("FetchBibTeX(\"\") error = %v, want ErrEmptyDOI", err)
	}
}

func TestFetchBibTeX_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(WithBaseURL(url))
	if _, err := c.FetchBibTeX(context.Background(), "10.1/x"); !errors.Is(err, ErrNetworkError) {
		t.Errorf("FetchBibTeX() error = %v, want ErrNetworkError", err)
	}
}

func TestFetchBibTeX_EscapesReservedCharacters(t *testing.T) {
	var gotPath, gotQuery, gotRequestURI string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotRequestURI = r.RequestURI
		w.Write([]byte("@article{sici}"))
	}))
	defer srv.Close()

	id := "10.1002/(SICI)1097-4571(199806)49:8<693::AID-ASI4>3.0.CO;2-#"
	c := NewClient(WithBaseURL(srv.URL))
	if _, err := c.FetchBibTeX(context.Background(), id); err != nil {
		t.Fatalf("FetchBibTeX() error = %v", err)
	}

	if gotPath != "/"+id {
		t.Errorf("request path = %q, want %q", gotPath, "/"+id)
	}
	if gotQuery != "" {
		t.Errorf("query = %q, want none", gotQuery)
	}
	if strings.ContainsAny(gotRequestURI, "#<> ") {
		t.Errorf("request URI %q has unescaped characters", gotRequestURI)
	}
}

func TestEscapePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.1234/abc.def", "10.1234/abc.def"},
		{"10.1/a?b", "10.1/a%3Fb"},
		{"10.1/2-#", "10.1/2-%23"},
		{"10.1/x/y", "10.1/x/y"},
	}
	for _, tt := range tests {
		if got := escapePath(tt.in); got != tt.want {
			t.Errorf("escapePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFetchBibTeX_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/10.1/big" {
			w.Write([]byte(strings.Repeat("x", maxBodySize+1)))
			return
		}
		w.Write([]byte(strings.Repeat("x", maxBodySize)))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	if _, err := c.FetchBibTeX(context.Background(), "10.1/big"); !errors.Is(err, ErrBodyTooLarge) {
		t.Errorf("FetchBibTeX() error = %v, want ErrBodyTooLarge", err)
	}

	body, err := c.FetchBibTeX(context.Background(), "10.1/limit")
	if err != nil {
		t.Fatalf("FetchBibTeX() at the limit error = %v", err)
	}
	if len(body) != maxBodySize {
		t.Errorf("body length = %d, want %d", len(body), maxBodySize)
	}
}

func TestFetchBibTeX_CustomHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("@misc{x}"))
	}))
	defer srv.Close()

	hc := srv.Client()
	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(hc))
	if c.httpClient != hc {
		t.Error("WithHTTPClient() did not replace the client")
	}
	if _, err := c.FetchBibTeX(context.Background(), "10.1/x"); err != nil {
		t.Errorf("FetchBibTeX() error = %v", err)
	}
}
