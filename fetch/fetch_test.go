package fetch_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zephyrtronium/selfbot/fetch"
)

type reqspy struct {
	got     *http.Request
	respond *http.Response
	err     error
}

func (r *reqspy) RoundTrip(req *http.Request) (*http.Response, error) {
	if r.got != nil {
		return nil, errors.New("already have a request")
	}
	r.got = req
	return r.respond, r.err
}

func TestFetch(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		err    error
		want   string
		fail   bool
	}{
		{name: "ok", status: 200, body: `{"value":1}`, want: `{"value":1}`},
		{name: "empty", status: 204, body: "", want: ""},
		{name: "not-found", status: 404, body: "nope", fail: true},
		{name: "server-error", status: 500, body: "oops", fail: true},
		{name: "transport", err: errors.New("no such host"), fail: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spy := &reqspy{err: c.err}
			if c.err == nil {
				spy.respond = &http.Response{
					StatusCode: c.status,
					Status:     http.StatusText(c.status),
					Body:       io.NopCloser(strings.NewReader(c.body)),
				}
			}
			cl := fetch.Client{
				HTTP: &http.Client{Transport: spy},
				URL:  "https://api.example.com/data",
			}
			got, err := cl.Fetch(context.Background())
			if (err != nil) != c.fail {
				t.Errorf("wrong error: want failure %t, got %v", c.fail, err)
			}
			if got != c.want {
				t.Errorf("wrong body: want %q, got %q", c.want, got)
			}
			if spy.got == nil {
				t.Fatal("no request made")
			}
			if spy.got.Method != http.MethodGet {
				t.Errorf("wrong method: want GET, got %s", spy.got.Method)
			}
			if u := spy.got.URL.String(); u != cl.URL {
				t.Errorf("wrong url: want %q, got %q", cl.URL, u)
			}
		})
	}
}

func TestFetchServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "hello from the api")
	}))
	defer srv.Close()
	cl := fetch.Client{HTTP: srv.Client(), URL: srv.URL}
	got, err := cl.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello from the api" {
		t.Errorf("wrong body: got %q", got)
	}
}

func TestFetchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cl := fetch.Client{URL: "http://127.0.0.1:1/"}
	if _, err := cl.Fetch(ctx); err == nil {
		t.Error("expected error from canceled fetch")
	}
}

func TestFetchSizeLimit(t *testing.T) {
	cases := []struct {
		name string
		size int
		fail bool
	}{
		{name: "at-limit", size: 2 << 20},
		{name: "over-limit", size: 3 << 20, fail: true},
		{name: "one-over", size: 2<<20 + 1, fail: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			body := strings.Repeat("x", c.size)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, body)
			}))
			defer srv.Close()
			cl := fetch.Client{HTTP: srv.Client(), URL: srv.URL}
			got, err := cl.Fetch(context.Background())
			if c.fail {
				if !errors.Is(err, fetch.ErrTooLarge) {
					t.Errorf("wrong error: want %v, got %v", fetch.ErrTooLarge, err)
				}
				if got != "" {
					t.Errorf("partial body returned: %d bytes", len(got))
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != c.size {
				t.Errorf("wrong body length: want %d, got %d", c.size, len(got))
			}
		})
	}
}
