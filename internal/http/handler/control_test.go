package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Guruganeshkannan/Afterlife/internal/scheduler"
)

type fakeScheduler struct {
	running  bool
	runOnce  int
	cycleErr error
}

func (f *fakeScheduler) Start(ctx context.Context) error {
	if f.running {
		return scheduler.ErrAlreadyRunning
	}
	f.running = true
	return nil
}

func (f *fakeScheduler) Stop() error {
	if !f.running {
		return scheduler.ErrNotRunning
	}
	f.running = false
	return nil
}

func (f *fakeScheduler) IsRunning() bool { return f.running }

func (f *fakeScheduler) RunOnce(ctx context.Context) error {
	f.runOnce++
	return f.cycleErr
}

func TestControlStartStop(t *testing.T) {
	h := NewControlHandler(&fakeScheduler{})

	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/control/start", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/control/start", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Stop(rec, httptest.NewRequest(http.MethodPost, "/control/stop", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Stop(rec, httptest.NewRequest(http.MethodPost, "/control/stop", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestControlDeliverNow(t *testing.T) {
	sched := &fakeScheduler{}
	h := NewControlHandler(sched)

	rec := httptest.NewRecorder()
	h.DeliverNow(rec, httptest.NewRequest(http.MethodPost, "/control/deliver", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sched.runOnce)
}

func TestControlDeliverNowReportsCycleError(t *testing.T) {
	sched := &fakeScheduler{cycleErr: errors.New("store unreachable")}
	h := NewControlHandler(sched)

	rec := httptest.NewRecorder()
	h.DeliverNow(rec, httptest.NewRequest(http.MethodPost, "/control/deliver", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "store unreachable")
}
