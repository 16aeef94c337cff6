package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"polarec/internal/core"
	"polarec/internal/dataset"
	"polarec/internal/logging"
	"polarec/internal/ui"
)

// handleDashboard renders the dashboard page, optionally filtered to one
// school via /school/{school}.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	school := chi.URLParam(r, "school")

	snap, err := s.service.Snapshot()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "data not loaded")
		return
	}

	if school != "" {
		if _, envOK := snap.Env[school]; !envOK {
			if _, growthOK := snap.Growth[school]; !growthOK {
				writeError(w, http.StatusNotFound, fmt.Sprintf("unknown school %q", school))
				return
			}
		}
	}

	summary, err := s.service.Summary()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	page := ui.DashboardData{
		Selected:   school,
		Schools:    s.service.Conditions().Schools(),
		Conditions: s.service.Conditions(),
		Summary:    summary,
		Problems:   snap.Report.Problems(),
		LoadedAt:   snap.LoadedAt,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ui.Dashboard(page).Render(w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "error", err)
	}
}

// handleHealth reports process liveness and the current snapshot identity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if snap, err := s.service.Snapshot(); err == nil {
		resp["snapshot_id"] = snap.ID.String()
		resp["loaded_at"] = snap.LoadedAt.Format(time.RFC3339)
		resp["loaded"] = snap.Report.LoadedCount()
		resp["requested"] = len(snap.Report.Keys())
	} else {
		resp["status"] = "loading"
	}
	writeJSON(w, resp)
}

// handleSummary returns per-school growth aggregates.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.Summary()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, summary)
}

// handleEnvSeries returns environment time series for charting.
// Optional ?school= filters to one school.
func (s *Server) handleEnvSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.service.EnvSeries(r.URL.Query().Get("school"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"series": series})
}

// handleGrowth returns the joined growth measurements for charting.
// Optional ?school= filters to one school.
func (s *Server) handleGrowth(w http.ResponseWriter, r *http.Request) {
	points, err := s.service.GrowthPoints(r.URL.Query().Get("school"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"points": points})
}

// handleReport returns the per-dataset load outcomes of the current snapshot.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.Snapshot()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	type entry struct {
		Key    string `json:"key"`
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
		Rows   int    `json:"rows,omitempty"`
		Tables int    `json:"tables,omitempty"`
	}

	report := snap.Report
	entries := make([]entry, 0, len(report.Keys()))
	for _, key := range report.Keys() {
		o, _ := report.Outcome(key)
		e := entry{Key: key, Status: o.Status.String(), Error: o.Err}
		if o.Status == dataset.StatusLoaded {
			e.Tables = len(o.Tables)
			for _, t := range o.Tables {
				e.Rows += t.RowCount()
			}
		}
		entries = append(entries, e)
	}

	writeJSON(w, map[string]any{
		"snapshot_id": snap.ID.String(),
		"loaded_at":   snap.LoadedAt.Format(time.RFC3339),
		"datasets":    entries,
	})
}

// handleExportWorkbook streams the combined growth table as an xlsx download.
func (s *Server) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, escapeFilename(core.ExportWorkbookName)))

	if err := s.service.ExportWorkbook(w); err != nil {
		// Headers are already out; log rather than attempt a second response.
		logging.FromContext(r.Context()).Error("workbook export failed", "error", err)
	}
}

// handleExportCSV streams the combined growth table as a CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, escapeFilename(core.ExportCSVName)))

	if err := s.service.ExportCSV(w); err != nil {
		logging.FromContext(r.Context()).Error("csv export failed", "error", err)
	}
}

// handleReload rebuilds the snapshot from the data directory and swaps it in
// atomically. In-flight readers keep the snapshot they started with.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.Reload(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{
		"snapshot_id": snap.ID.String(),
		"loaded":      snap.Report.LoadedCount(),
		"requested":   len(snap.Report.Keys()),
		"problems":    snap.Report.Problems(),
	})
}
