package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pterm/pterm"

	"github.com/tosih/edc15p-tool/pkg/editor"
	"github.com/tosih/edc15p-tool/pkg/grid"
	"github.com/tosih/edc15p-tool/pkg/hints"
	"github.com/tosih/edc15p-tool/pkg/models"
)

//go:embed templates/*
var templates embed.FS

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CellResponse is one grid cell. Value is null for an absent cell.
type CellResponse struct {
	Value *float64              `json:"value"`
	Text  string                `json:"text"`
	Class models.Classification `json:"class"`
}

// RowResponse is one grid row in display order
type RowResponse struct {
	Name     string         `json:"name"`
	Unit     string         `json:"unit"`
	ReadOnly bool           `json:"readOnly"`
	Cells    []CellResponse `json:"cells"`
}

// GridResponse is the full grid
type GridResponse struct {
	RPM         []float64     `json:"rpm"`
	Rows        []RowResponse `json:"rows"`
	Fingerprint string        `json:"fingerprint"`
}

// ChangeMessage is a changed cell pushed to clients
type ChangeMessage struct {
	Row   string                `json:"row"`
	Col   int                   `json:"col"`
	RPM   float64               `json:"rpm"`
	Value *float64              `json:"value"`
	Text  string                `json:"text"`
	Class models.Classification `json:"class"`
}

// CellRequest edits one input cell
type CellRequest struct {
	Row   string `json:"row"`
	Col   int    `json:"col"`
	Value string `json:"value"`
}

// PasteRequest pastes tab separated text at (Row, Col)
type PasteRequest struct {
	Row  string `json:"row"`
	Col  int    `json:"col"`
	Text string `json:"text"`
}

// ResetRequest resets the grid; Scope is "values" or "full"
type ResetRequest struct {
	Scope string `json:"scope"`
}

// TableResponse is a calibration table for the chart view
type TableResponse struct {
	Name string      `json:"name"`
	Unit string      `json:"unit"`
	RPM  []float64   `json:"rpm"`
	MG   []float64   `json:"mg"`
	Data [][]float64 `json:"data"`
}

// Server serves the grid over HTTP. Every access to the model goes through
// mu.
type Server struct {
	mu      sync.Mutex
	model   *grid.Model
	pending []ChangeMessage
	port    int
	logger  *pterm.Logger
	hub     *hub
	reg     *prometheus.Registry
	metrics *metrics
}

// NewServer creates a server over m
func NewServer(m *grid.Model, port int, logger *pterm.Logger) *Server {
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		model:   m,
		port:    port,
		logger:  logger,
		reg:     reg,
		metrics: newMetrics(reg),
	}
	s.hub = newHub(logger, s.metrics)
	m.Subscribe(s.collect)
	return s
}

func (s *Server) collect(n grid.Notification) {
	s.pending = append(s.pending, changeMessage(s.model, n))
	s.metrics.cellsChanged.WithLabelValues(n.Row.String()).Inc()
}

// flush broadcasts the changes collected during the last mutation. Callers
// hold mu.
func (s *Server) flush() []ChangeMessage {
	batch := s.pending
	s.pending = nil
	if len(batch) > 0 {
		if payload, err := json.Marshal(batch); err == nil {
			s.hub.broadcast(payload)
		}
	}
	return batch
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/grid", s.handleGrid)
	mux.HandleFunc("/api/cell", s.handleCell)
	mux.HandleFunc("/api/paste", s.handlePaste)
	mux.HandleFunc("/api/reset", s.handleReset)
	mux.HandleFunc("/api/tables", s.handleTables)
	mux.HandleFunc("/api/hints/rpm", s.handleRPMHints)
	mux.HandleFunc("/api/hints/iq", s.handleIQHint)
	mux.HandleFunc("/ws", s.hub.serve(s.welcome))
	mux.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	return mux
}

// Start serves until ctx is cancelled
func (s *Server) Start(ctx context.Context, open bool) error {
	addr := fmt.Sprintf(":%d", s.port)
	url := fmt.Sprintf("http://localhost%s", addr)

	pterm.DefaultHeader.WithFullWidth().
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("🌐 EDC15P Web Editor Started")

	pterm.Info.Printf("Web interface at %s\n", url)
	pterm.Info.Println("Press Ctrl+C to stop the server")
	pterm.Println()

	if open {
		openBrowser(url)
	}

	server := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- server.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.closeAll()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	content, err := templates.ReadFile("templates/index.html")
	if err != nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(content)
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.model.Snapshot()
	s.mu.Unlock()

	etag := fmt.Sprintf(`"%016x"`, snap.Fingerprint())
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, gridResponse(snap))
}

func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	var req CellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	row, err := models.ParseRow(req.Row)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err = s.model.SetCell(row, req.Col, req.Value)
	batch := s.flush()
	s.mu.Unlock()

	if err != nil {
		s.metrics.edits.WithLabelValues("rejected").Inc()
		writeError(w, err)
		return
	}
	s.metrics.edits.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, nonNil(batch))
}

func (s *Server) handlePaste(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	var req PasteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	row, err := models.ParseRow(req.Row)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	edits := editor.ParsePaste(req.Text, row, req.Col, s.model.Columns())
	applied, err := s.model.ApplyBulk(edits)
	batch := s.flush()
	s.mu.Unlock()

	s.metrics.edits.WithLabelValues("ok").Add(float64(applied))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"applied": applied, "changes": nonNil(batch)})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	var scope grid.Scope
	switch req.Scope {
	case "values":
		scope = grid.ScopeValues
	case "full", "":
		scope = grid.ScopeFull
	default:
		http.Error(w, fmt.Sprintf("unknown scope %q", req.Scope), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err := s.model.Reset(scope)
	s.flush()
	snap := s.model.Snapshot()
	s.mu.Unlock()

	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gridResponse(snap))
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	var out []TableResponse
	for _, t := range s.model.Graph().Tables().All() {
		nx, ny := t.Dims()
		data := make([][]float64, nx)
		for i := range data {
			data[i] = make([]float64, ny)
			for j := range data[i] {
				data[i][j] = t.Cell(i, j)
			}
		}
		out = append(out, TableResponse{
			Name: t.Name(),
			Unit: t.Unit(),
			RPM:  t.XBreakpoints(),
			MG:   t.YBreakpoints(),
			Data: data,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRPMHints(w http.ResponseWriter, r *http.Request) {
	out := []hints.RPM{}
	for col := 0; col < s.model.Columns(); col++ {
		if h, ok := hints.ForRPM(s.model.RPM(col)); ok {
			out = append(out, h)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleIQHint(w http.ResponseWriter, r *http.Request) {
	v := models.ParseNumber(r.URL.Query().Get("value"))
	if !v.Valid {
		http.Error(w, "value must be a number", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, hints.ForIQ(v.Float64))
}

// welcome is the first message of a websocket connection
func (s *Server) welcome() []byte {
	s.mu.Lock()
	snap := s.model.Snapshot()
	s.mu.Unlock()
	payload, _ := json.Marshal(gridResponse(snap))
	return payload
}

func gridResponse(snap grid.Snapshot) GridResponse {
	resp := GridResponse{
		RPM:         snap.RPM,
		Fingerprint: strconv.FormatUint(snap.Fingerprint(), 16),
	}
	for _, row := range models.Rows {
		rr := RowResponse{Name: row.String(), Unit: row.Unit(), ReadOnly: !row.IsInput()}
		for col := range snap.RPM {
			rr.Cells = append(rr.Cells, cellResponse(row, snap.Get(row, col)))
		}
		resp.Rows = append(resp.Rows, rr)
	}
	return resp
}

func cellResponse(row models.Row, c grid.Cell) CellResponse {
	out := CellResponse{Class: c.Class}
	if c.Value.Valid {
		v := c.Value.Float64
		out.Value = &v
		if row.IsInput() {
			out.Text = strconv.FormatFloat(v, 'f', -1, 64)
		} else {
			out.Text = row.Format(v)
		}
	}
	return out
}

func changeMessage(m *grid.Model, n grid.Notification) ChangeMessage {
	c := cellResponse(n.Row, grid.Cell{Value: n.Value, Class: n.Class})
	return ChangeMessage{
		Row:   n.Row.String(),
		Col:   n.Col,
		RPM:   m.RPM(n.Col),
		Value: c.Value,
		Text:  c.Text,
		Class: c.Class,
	}
}

func nonNil(batch []ChangeMessage) []ChangeMessage {
	if batch == nil {
		return []ChangeMessage{}
	}
	return batch
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, grid.ErrReadOnlyRow):
		status = http.StatusForbidden
	case errors.Is(err, grid.ErrUnknownColumn), errors.Is(err, grid.ErrUnknownRow):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}
