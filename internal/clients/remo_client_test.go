package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"remo-monitor/internal/models"
)

const devicesBody = `[
  {
    "id": "dev1",
    "name": "Living Room",
    "serial_number": "1W320",
    "mac_address": "aa:bb:cc:dd:ee:ff",
    "firmware_version": "Remo/1.0.62",
    "newest_events": {
      "te": {"val": 23.5, "created_at": "2024-01-01T00:00:00Z"},
      "hu": {"val": 45, "created_at": "2024-01-01T00:00:00Z"}
    }
  }
]`

func newTestServer(t *testing.T, status int, body string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		if r.URL.Path != "/devices" {
			t.Errorf("path = %q; want /devices", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Errorf("Authorization = %q; want Bearer token-1", got)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetDevices_Success(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, devicesBody, nil)
	client := NewRemoClient(RemoConfig{AccessToken: "token-1", Endpoint: srv.URL})

	devices, err := client.GetDevices(context.Background())
	if err != nil {
		t.Fatalf("GetDevices: %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("got %d devices; want 1", len(devices))
	}
	d := devices[0]
	if d.ID != "dev1" || d.Name != "Living Room" || d.SerialNumber != "1W320" {
		t.Errorf("device = %+v", d)
	}
	if d.NewestEvents.Te == nil || d.NewestEvents.Te.Val != 23.5 {
		t.Errorf("te = %+v; want 23.5", d.NewestEvents.Te)
	}
	if d.NewestEvents.Il != nil || d.NewestEvents.Mo != nil {
		t.Errorf("il/mo should be absent, got %+v", d.NewestEvents)
	}
}

func TestGetDevices_EmptyListIsNotAnError(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `[]`, nil)
	client := NewRemoClient(RemoConfig{AccessToken: "token-1", Endpoint: srv.URL})

	devices, err := client.GetDevices(context.Background())
	if err != nil {
		t.Fatalf("GetDevices: %v", err)
	}
	if len(devices) != 0 {
		t.Fatalf("got %d devices; want 0", len(devices))
	}
}

func TestGetDevices_UpstreamError(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized, `{"code":401001,"message":"Unauthorized"}`, nil)
	client := NewRemoClient(RemoConfig{AccessToken: "token-1", Endpoint: srv.URL})

	_, err := client.GetDevices(context.Background())
	var upstreamErr *models.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("err = %v; want *models.UpstreamError", err)
	}
	if upstreamErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d; want 401", upstreamErr.StatusCode)
	}
	if upstreamErr.Body != `{"code":401001,"message":"Unauthorized"}` {
		t.Errorf("Body = %q", upstreamErr.Body)
	}
}

func TestGetDevices_MissingTokenSkipsNetwork(t *testing.T) {
	var calls int32
	srv := newTestServer(t, http.StatusOK, devicesBody, &calls)
	client := NewRemoClient(RemoConfig{Endpoint: srv.URL})

	_, err := client.GetDevices(context.Background())
	var cfgErr *models.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v; want *models.ConfigError", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("upstream called %d times; want 0", calls)
	}
}

func TestGetRawDevices_KeepsUnknownFields(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `[{"id":"dev1","users":[{"id":"u1"}]}]`, nil)
	client := NewRemoClient(RemoConfig{AccessToken: "token-1", Endpoint: srv.URL})

	raw, err := client.GetRawDevices(context.Background())
	if err != nil {
		t.Fatalf("GetRawDevices: %v", err)
	}
	if len(raw) != 1 || string(raw[0]) != `{"id":"dev1","users":[{"id":"u1"}]}` {
		t.Errorf("raw = %s", raw)
	}
}

func TestGetDevices_InvalidBody(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `not json`, nil)
	client := NewRemoClient(RemoConfig{AccessToken: "token-1", Endpoint: srv.URL})

	if _, err := client.GetDevices(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}
