package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/mq/queue"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/mq/worker"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/dedupe"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/logger"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/metrics"
)

// IdempotencyKeyHeader lets a client retry POST /reload safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// ReloadQueue accepts reload jobs.
type ReloadQueue interface {
	Enqueue(ctx context.Context, j queue.Job) error
	Len() int
}

// ReloadStatus reports the last finished reload.
type ReloadStatus interface {
	Status() worker.Status
}

// ReloadHandler queues dataset reloads and reports their outcome.
type ReloadHandler struct {
	queue  ReloadQueue
	status ReloadStatus
	keys   dedupe.Deduper
	now    func() time.Time
}

// NewReloadHandler creates a reload handler. keys may be nil.
func NewReloadHandler(q ReloadQueue, status ReloadStatus, keys dedupe.Deduper) *ReloadHandler {
	if keys == nil {
		keys = dedupe.NewInMemoryDeduper()
	}
	return &ReloadHandler{queue: q, status: status, keys: keys, now: time.Now}
}

type reloadAccepted struct {
	JobID     string `json:"job_id"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Pending   int    `json:"pending"`
}

type reloadState struct {
	Pending int           `json:"pending"`
	Last    worker.Status `json:"last"`
}

// HandleReload handles GET /reload (last outcome) and POST /reload?seed=N.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, reloadState{Pending: h.queue.Len(), Last: h.status.Status()})
	case http.MethodPost:
		h.enqueue(w, r)
	default:
		writeError(w, ErrMethodNotAllowed)
	}
}

func (h *ReloadHandler) enqueue(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	ctx := r.Context()

	job := queue.Job{RequestedAt: h.now()}
	if s := r.URL.Query().Get("seed"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			writeError(w, badRequest(op, "seed %q is not an integer", s))
			return
		}
		job.Seed = &seed
	}

	key := r.Header.Get(IdempotencyKeyHeader)
	if key != "" {
		if h.keys.SeenAndRecord(ctx, key) {
			metrics.RecordReloadDuplicate()
			writeJSON(w, http.StatusOK, reloadAccepted{JobID: key, Duplicate: true, Pending: h.queue.Len()})
			return
		}
		job.ID = key
	} else {
		job.ID = uuid.NewString()
	}

	if err := h.queue.Enqueue(ctx, job); err != nil {
		if key != "" {
			h.keys.Unrecord(ctx, key)
		}
		logger.Get().Warn(ctx, "reload not queued", logger.String("job", job.ID), logger.Error(err))
		status := http.StatusServiceUnavailable
		if errors.Is(err, queue.ErrFull) {
			status = http.StatusTooManyRequests
		}
		writeJSON(w, status, errorResponse{Code: "reload_rejected", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, reloadAccepted{JobID: job.ID, Pending: h.queue.Len()})
}
