package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/export"
	service "github.com/ykato27/SDP-Analysis-Dashboard/internal/app"
)

// ExportHandler serves spreadsheet downloads.
type ExportHandler struct {
	deps Dependencies
	now  func() time.Time
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies) *ExportHandler {
	return &ExportHandler{deps: deps, now: time.Now}
}

// HandleExportPriorities handles GET /export/priorities?format=xlsx|csv.
// It accepts the /priorities parameters.
func (h *ExportHandler) HandleExportPriorities(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_priorities"
	if r.Method != http.MethodGet {
		writeError(w, ErrMethodNotAllowed)
		return
	}
	v := r.URL.Query()
	format, err := export.ParseFormat(v.Get("format"))
	if err != nil {
		writeError(w, NewKind(op, service.KindInvalidArgument, err))
		return
	}
	q, err := parseQuery(op, v, h.deps.Quantiles())
	if err != nil {
		writeError(w, err)
		return
	}

	// Buffer so a failed export still gets a JSON error response.
	var buf bytes.Buffer
	if err := h.deps.ExportPriorities(r.Context(), &buf, format, q); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName("priorities", h.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
