package mangadex

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/diogovalentte/mangadex-talker/src/errordefs"
	"github.com/diogovalentte/mangadex-talker/src/util"
)

// stubSleep replaces the retry sleep with a recorder for the duration of a test
func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()

	var slept []time.Duration
	oldSleep := sleep
	sleep = func(d time.Duration) {
		slept = append(slept, d)
	}
	t.Cleanup(func() { sleep = oldSleep })

	return &slept
}

func newTestClient(apiURL string) *Client {
	return newClient(apiURL, rate.NewLimiter(rate.Inf, 0))
}

func TestGetContentRetry(t *testing.T) {
	t.Run("Should return the payload after two server errors", func(t *testing.T) {
		slept := stubSleep(t)

		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			if requests < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"result":"ok","response":"entity"}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		var resp getSeriesAPIResponse
		if err := client.getContent("/manga/some-id", nil, &resp); err != nil {
			t.Fatalf("error while getting content: %v", err)
		}

		if requests != 3 {
			t.Fatalf("expected 3 requests, got %d", requests)
		}
		if resp.Result != "ok" {
			t.Fatalf("expected result 'ok', got '%s'", resp.Result)
		}
		if len(*slept) != 2 || (*slept)[0] != 1*time.Second || (*slept)[1] != 1*time.Second {
			t.Fatalf("expected two 1-second sleeps, got %v", *slept)
		}
	})
	t.Run("Should fail with a network error after three server errors", func(t *testing.T) {
		stubSleep(t)

		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		err := client.getContent("/manga/some-id", nil, nil)
		if err == nil {
			t.Fatalf("expected error, got nil")
		}

		var netErr *errordefs.NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("expected a NetworkError, got %v", err)
		}
		if netErr.Code != errordefs.CodeRetriesExhausted {
			t.Fatalf("expected code %d, got %d", errordefs.CodeRetriesExhausted, netErr.Code)
		}
		if requests != 3 {
			t.Fatalf("expected 3 requests, got %d", requests)
		}
	})
	t.Run("Should fail immediately on a not-found status", func(t *testing.T) {
		stubSleep(t)

		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"result":"error"}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		err := client.getContent("/manga/some-id", nil, nil)
		if err == nil {
			t.Fatalf("expected error, got nil")
		}

		var netErr *errordefs.NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("expected a NetworkError, got %v", err)
		}
		if netErr.Code != errordefs.CodeTerminalStatus {
			t.Fatalf("expected code %d, got %d", errordefs.CodeTerminalStatus, netErr.Code)
		}
		if !util.ErrorContains(err, "non-200 status code -> (404)") {
			t.Fatalf("expected status detail in error, got %v", err)
		}
		if requests != 1 {
			t.Fatalf("expected 1 request, got %d", requests)
		}
	})
	t.Run("Should wait for the rate limit and retry", func(t *testing.T) {
		slept := stubSleep(t)

		requests := 0
		retryAfter := time.Now().Add(5 * time.Second).Unix()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			if requests == 1 {
				w.Header().Set("x-ratelimit-retry-after", fmt.Sprint(retryAfter))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{"result":"ok"}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		if err := client.getContent("/manga", nil, nil); err != nil {
			t.Fatalf("error while getting content: %v", err)
		}

		if requests != 2 {
			t.Fatalf("expected 2 requests, got %d", requests)
		}
		if len(*slept) != 1 {
			t.Fatalf("expected 1 sleep, got %v", *slept)
		}
		if (*slept)[0] < 5*time.Second || (*slept)[0] > 7*time.Second {
			t.Fatalf("expected a sleep of about 6 seconds, got %v", (*slept)[0])
		}
	})
	t.Run("Should surface an application error envelope as a network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result":"error","errors":[{"title":"Bad Request","detail":"invalid uuid"}]}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		err := client.getContent("/manga", nil, nil)
		if err == nil {
			t.Fatalf("expected error, got nil")
		}

		var netErr *errordefs.NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("expected a NetworkError, got %v", err)
		}
		if !util.ErrorContains(err, "Bad Request: invalid uuid") {
			t.Fatalf("expected embedded error details, got %v", err)
		}
	})
	t.Run("Should fail with a data format error on a non-JSON body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		err := client.getContent("/manga", nil, nil)
		if err == nil {
			t.Fatalf("expected error, got nil")
		}

		var dataErr *errordefs.DataFormatError
		if !errors.As(err, &dataErr) {
			t.Fatalf("expected a DataFormatError, got %v", err)
		}
		var netErr *errordefs.NetworkError
		if errors.As(err, &netErr) {
			t.Fatalf("expected error to not be a NetworkError, got %v", err)
		}
	})
}

func TestRetryAfterWait(t *testing.T) {
	now := time.Now()

	t.Run("Should wait for the server-provided time plus one second", func(t *testing.T) {
		header := fmt.Sprint(now.Add(5 * time.Second).Unix())
		wait := retryAfterWait(header, now)
		if wait != 6*time.Second {
			t.Fatalf("expected 6s, got %v", wait)
		}
	})
	t.Run("Should clamp a retry time in the past to one second", func(t *testing.T) {
		header := fmt.Sprint(now.Add(-30 * time.Second).Unix())
		wait := retryAfterWait(header, now)
		if wait != 1*time.Second {
			t.Fatalf("expected 1s, got %v", wait)
		}
	})
	t.Run("Should fall back to ten seconds without a header", func(t *testing.T) {
		wait := retryAfterWait("", now)
		if wait != 10*time.Second {
			t.Fatalf("expected 10s, got %v", wait)
		}
	})
}

func TestPing(t *testing.T) {
	t.Run("Should succeed when the API answers pong", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/ping" {
				t.Errorf("expected path /ping, got %s", r.URL.Path)
			}
			w.Write([]byte("pong"))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		if err := client.Ping(); err != nil {
			t.Fatalf("error while pinging: %v", err)
		}
	})
	t.Run("Should fail on an unexpected body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pang"))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		if err := client.Ping(); err == nil {
			t.Fatalf("expected error, got nil")
		}
	})
}
