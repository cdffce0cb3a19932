package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/kirillkom/file-organizer/internal/core/domain"
	"github.com/kirillkom/file-organizer/internal/core/ports"
	"github.com/kirillkom/file-organizer/internal/observability/metrics"
)

type Router struct {
	scanner       ports.BatchScanner
	reviewer      ports.ItemReviewer
	migrator      ports.Migrator
	registry      ports.TaxonomyRegistry
	metrics       *metrics.HTTPServerMetrics
	service       string
	defaultOutput string
}

func NewRouter(
	scanner ports.BatchScanner,
	reviewer ports.ItemReviewer,
	migrator ports.Migrator,
	registry ports.TaxonomyRegistry,
	serverMetrics *metrics.HTTPServerMetrics,
	service string,
	defaultOutput string,
) *Router {
	return &Router{
		scanner:       scanner,
		reviewer:      reviewer,
		migrator:      migrator,
		registry:      registry,
		metrics:       serverMetrics,
		service:       service,
		defaultOutput: defaultOutput,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/scan", rt.scan)
	mux.HandleFunc("/v1/classify", rt.startClassification)
	mux.HandleFunc("/v1/classify/status", rt.classificationStatus)
	mux.HandleFunc("/v1/items", rt.listItems)
	mux.HandleFunc("/v1/items/bulk-action", rt.bulkAction)
	mux.HandleFunc("/v1/items/", rt.itemByID)
	mux.HandleFunc("/v1/migrate", rt.migrate)
	mux.HandleFunc("/v1/taxonomy", rt.taxonomy)
	mux.HandleFunc("/v1/session", rt.session)

	handler := http.Handler(mux)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) scan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		InputPath  string `json:"input_path"`
		OutputPath string `json:"output_path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.InputPath) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "input_path is required"})
		return
	}
	if req.OutputPath == "" {
		req.OutputPath = rt.defaultOutput
	}

	summary, err := rt.scanner.Scan(r.Context(), req.InputPath, req.OutputPath)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordScan(rt.service, summary.FileCount)
	}
	writeJSON(w, http.StatusOK, summary)
}

func (rt *Router) startClassification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	enqueued, err := rt.scanner.StartClassification(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"enqueued": enqueued})
}

func (rt *Router) classificationStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	progress, err := rt.scanner.Progress(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (rt *Router) listItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	filter, err := parseItemFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	items, err := rt.reviewer.ListItems(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []domain.DocumentItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (rt *Router) itemByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/items/")
	if rest == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "item id is required"})
		return
	}

	if id, ok := strings.CutSuffix(rest, "/reject-move"); ok {
		rt.rejectAndMove(w, r, id)
		return
	}
	if strings.Contains(rest, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		item, err := rt.reviewer.GetItem(r.Context(), rest)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPatch:
		rt.updateItem(w, r, rest)
	default:
		writeMethodNotAllowed(w)
	}
}

func (rt *Router) updateItem(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		ProposedWorkspace *string `json:"proposed_workspace"`
		ProposedSubpath   *string `json:"proposed_subpath"`
		ProposedFilename  *string `json:"proposed_filename"`
		Status            *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	update := domain.ItemUpdate{
		ProposedWorkspace: req.ProposedWorkspace,
		ProposedSubpath:   req.ProposedSubpath,
		ProposedFilename:  req.ProposedFilename,
	}
	if req.Status != nil {
		status := domain.ItemStatus(*req.Status)
		update.Status = &status
	}

	item, err := rt.reviewer.UpdateItem(r.Context(), id, update)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordItemAction(rt.service, "update")
	}
	writeJSON(w, http.StatusOK, item)
}

func (rt *Router) rejectAndMove(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	item, err := rt.reviewer.RejectAndMove(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordItemAction(rt.service, "reject_move")
	}
	writeJSON(w, http.StatusOK, item)
}

func (rt *Router) bulkAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		IDs       []string `json:"ids"`
		Action    string   `json:"action"`
		Workspace string   `json:"workspace"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	var count int
	var err error
	switch req.Action {
	case "approve":
		count, err = rt.reviewer.BulkTransition(r.Context(), req.IDs, domain.StatusApproved)
	case "ignore":
		count, err = rt.reviewer.BulkTransition(r.Context(), req.IDs, domain.StatusIgnored)
	case "reject":
		count, err = rt.reviewer.BulkTransition(r.Context(), req.IDs, domain.StatusRejected)
	case "set_workspace":
		count, err = rt.reviewer.BulkSetWorkspace(r.Context(), req.IDs, req.Workspace)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown action"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordItemAction(rt.service, req.Action)
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": count})
}

func (rt *Router) migrate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		OutputPath string `json:"output_path"`
	}
	if r.Body != nil {
		// An empty body means the configured default output.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.OutputPath == "" {
		req.OutputPath = rt.defaultOutput
	}

	outcome, err := rt.migrator.Migrate(r.Context(), req.OutputPath)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordMigrationRun(rt.service, outcome.Migrated, outcome.Failed)
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (rt *Router) taxonomy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workspaces": rt.registry.All()})
}

func (rt *Router) session(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w)
		return
	}

	if err := rt.scanner.ClearSession(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func parseItemFilter(r *http.Request) (domain.ItemFilter, error) {
	q := r.URL.Query()
	filter := domain.ItemFilter{
		Status:    domain.ItemStatus(q.Get("status")),
		Workspace: q.Get("workspace"),
	}

	parseInt := func(key string) (*int, error) {
		raw := q.Get(key)
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, domain.WrapError(domain.ErrInvalidInput, "parse "+key, err)
		}
		return &v, nil
	}

	minConf, err := parseInt("min_confidence")
	if err != nil {
		return filter, err
	}
	maxConf, err := parseInt("max_confidence")
	if err != nil {
		return filter, err
	}
	filter.MinConfidence = minConf
	filter.MaxConfidence = maxConf

	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return filter, domain.WrapError(domain.ErrInvalidInput, "parse limit", err)
		}
		filter.Limit = v
	}
	if raw := q.Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return filter, domain.WrapError(domain.ErrInvalidInput, "parse offset", err)
		}
		filter.Offset = v
	}
	return filter, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
