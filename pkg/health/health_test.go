package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeEngine struct {
	running  bool
	paused   bool
	lastStep time.Time
}

func (f *fakeEngine) Running() bool       { return f.running }
func (f *fakeEngine) IsPaused() bool      { return f.paused }
func (f *fakeEngine) LastStep() time.Time { return f.lastStep }

func TestNewChecker(t *testing.T) {
	c := NewChecker()
	if c == nil {
		t.Fatal("NewChecker returned nil")
	}

	resp := c.Check()
	if resp.Status != StatusHealthy {
		t.Errorf("empty checker should report healthy, got %s", resp.Status)
	}
}

func TestWorstStatusWins(t *testing.T) {
	c := NewChecker()
	c.RegisterCheck("ok", func() Check {
		return Check{Name: "ok", Status: StatusHealthy}
	})
	c.RegisterCheck("slow", func() Check {
		return Check{Name: "slow", Status: StatusDegraded}
	})

	if resp := c.Check(); resp.Status != StatusDegraded {
		t.Errorf("expected degraded, got %s", resp.Status)
	}

	c.RegisterCheck("down", func() Check {
		return Check{Name: "down", Status: StatusUnhealthy}
	})
	if resp := c.Check(); resp.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", resp.Status)
	}
}

func TestEngineRunningCheck(t *testing.T) {
	e := &fakeEngine{running: true}
	check := EngineRunningCheck(e)

	if got := check(); got.Status != StatusHealthy {
		t.Errorf("running engine should be healthy, got %s", got.Status)
	}

	e.running = false
	if got := check(); got.Status != StatusUnhealthy {
		t.Errorf("stopped engine should be unhealthy, got %s", got.Status)
	}
}

func TestStepFreshnessCheck(t *testing.T) {
	e := &fakeEngine{running: true, lastStep: time.Now()}
	check := StepFreshnessCheck(e, 10*time.Second)

	if got := check(); got.Status != StatusHealthy {
		t.Errorf("fresh step should be healthy, got %s", got.Status)
	}

	e.lastStep = time.Now().Add(-time.Minute)
	if got := check(); got.Status != StatusDegraded {
		t.Errorf("stale step should be degraded, got %s", got.Status)
	}

	// Pause exempts staleness
	e.paused = true
	if got := check(); got.Status != StatusHealthy {
		t.Errorf("paused engine should be healthy, got %s", got.Status)
	}

	// Never stepped yet is fine too
	e.paused = false
	e.lastStep = time.Time{}
	if got := check(); got.Status != StatusHealthy {
		t.Errorf("engine with no steps yet should be healthy, got %s", got.Status)
	}
}

func TestHTTPHandler(t *testing.T) {
	c := NewChecker()
	c.RegisterCheck("ok", func() Check {
		return Check{Name: "ok", Status: StatusHealthy}
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c.HTTPHandler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", resp.Status)
	}

	c.RegisterCheck("down", func() Check {
		return Check{Name: "down", Status: StatusUnhealthy}
	})
	rec = httptest.NewRecorder()
	c.HTTPHandler()(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
