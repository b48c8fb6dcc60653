package keepalive_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/examlane/examlane/internal/keepalive"
)

func TestPing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := keepalive.New(srv.URL, logrus.New())
	if err := p.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("hits = %d, want 1", hits.Load())
	}
}

func TestPingErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := keepalive.New(srv.URL, logrus.New())
	if err := p.Ping(); err == nil {
		t.Fatal("Ping should fail on a 5xx response")
	}
}

func TestPingUnreachable(t *testing.T) {
	p := keepalive.New("http://127.0.0.1:1", logrus.New())
	if err := p.Ping(); err == nil {
		t.Fatal("Ping should fail when the host is unreachable")
	}
}
