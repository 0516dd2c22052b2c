package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Guruganeshkannan/Afterlife/internal/scheduler"
)

// SchedulerController abstracts scheduler operations for handlers.
type SchedulerController interface {
	Start(ctx context.Context) error
	Stop() error
	IsRunning() bool
	RunOnce(ctx context.Context) error
}

// ControlHandler handles the operator control endpoints for the scheduler.
type ControlHandler struct {
	scheduler SchedulerController
}

// NewControlHandler creates a new instance.
func NewControlHandler(s SchedulerController) *ControlHandler {
	return &ControlHandler{scheduler: s}
}

// Start triggers the scheduler loop.
func (h *ControlHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.Start(context.Background()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scheduler.ErrAlreadyRunning) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

// Stop halts the scheduler loop.
func (h *ControlHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.Stop(); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scheduler.ErrNotRunning) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// Status reports whether the loop is running.
func (h *ControlHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"running": h.scheduler.IsRunning()})
}

// DeliverNow runs exactly one delivery cycle synchronously, for delivering
// overdue messages without waiting for the loop's cadence.
func (h *ControlHandler) DeliverNow(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.RunOnce(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cycle completed"})
}
