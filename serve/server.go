// ABOUTME: Read-only LAN viewer: a chi-based HTTP server rendering backend data as HTML pages.
// ABOUTME: Falls back to the local sqlite snapshot when the backend is unreachable.
package serve

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/masserfx/kovoterm/client"
	"github.com/masserfx/kovoterm/diagram"
	"github.com/masserfx/kovoterm/dot"
	"github.com/masserfx/kovoterm/query"
	"github.com/masserfx/kovoterm/render"
	"github.com/masserfx/kovoterm/store"
)

// DiagramCacheTTL bounds how long a rendered SVG is reused before graphviz
// runs again.
const DiagramCacheTTL = 5 * time.Minute

// Server is the read-only web viewer. It never mutates backend state; every
// route is a GET.
type Server struct {
	api       *client.Client
	snap      *store.Snapshot
	cache     *query.Cache
	diagrams  *render.Cache
	templates *TemplateRenderer
	router    chi.Router
	addr      string
}

// Config holds the configuration for the viewer server.
type Config struct {
	Addr     string          // listen address (default: "127.0.0.1:4141")
	API      *client.Client  // backend API client, required
	Snapshot *store.Snapshot // optional offline snapshot store
	RenderFn render.RenderFunc
}

// NewServer creates a viewer Server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.API == nil {
		return nil, fmt.Errorf("API client must not be nil")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:4141"
	}
	if cfg.RenderFn == nil {
		cfg.RenderFn = render.Render
	}

	templates, err := NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("initializing templates: %w", err)
	}

	s := &Server{
		api:       cfg.API,
		snap:      cfg.Snapshot,
		cache:     query.NewCache(),
		diagrams:  render.NewCache(cfg.RenderFn, DiagramCacheTTL),
		templates: templates,
		addr:      cfg.Addr,
	}
	s.router = s.buildRouter()
	return s, nil
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the configured address with
// timeouts to prevent resource exhaustion from slow clients.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
	log.Printf("viewer listening addr=%s backend=%s", s.addr, s.api.BaseURL())
	return srv.ListenAndServe()
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleDashboard)
	r.Get("/health", s.handleHealth)
	r.Get("/inbox", s.handleInbox)
	r.Get("/materialy", s.handleMaterials)
	r.Get("/zakazky", s.handleOrders)
	r.Get("/report", s.handleReport)
	r.Get("/architektura", s.handleArchitecturePage)
	r.Get("/architektura.svg", s.handleArchitectureSVG)
	r.Get("/workflow.svg", s.handleWorkflowSVG)

	return r
}

// PageData carries the fields base.html needs on every page.
type PageData struct {
	Stale     bool
	FetchedAt time.Time
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "backend": s.api.BaseURL()})
}

// stageRow is a display row of the per-stage pipeline table, in stage order.
type stageRow struct {
	Name string
	client.StageStats
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.api.GetPipelineStats(ctx)
	if err != nil {
		s.renderError(w, "pipeline stats", err)
		return
	}
	report, err := s.api.GetReportSummary(ctx)
	if err != nil {
		s.renderError(w, "report summary", err)
		return
	}

	rows := make([]stageRow, 0, len(client.PipelineStages))
	for _, stage := range client.PipelineStages {
		rows = append(rows, stageRow{Name: stage, StageStats: stats.ByStage[stage]})
	}

	s.templates.Render(w, "dashboard.html", struct {
		PageData
		Stats  *client.PipelineStats
		Report *client.ReportSummary
		Stages []stageRow
	}{Stats: stats, Report: report, Stages: rows})
}

func (s *Server) handleInbox(w http.ResponseWriter, r *http.Request) {
	messages, stale, fetchedAt, err := listWithFallback(r.Context(), s.snap, "inbox",
		func(ctx context.Context) ([]client.InboxMessage, error) {
			return s.api.ListInboxMessages(ctx, r.URL.Query().Get("status"))
		})
	if err != nil {
		s.renderError(w, "inbox", err)
		return
	}

	s.templates.Render(w, "inbox.html", struct {
		PageData
		Messages []client.InboxMessage
	}{PageData{Stale: stale, FetchedAt: fetchedAt}, messages})
}

func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	prices, stale, fetchedAt, err := listWithFallback(r.Context(), s.snap, "materialy",
		func(ctx context.Context) ([]client.MaterialPrice, error) {
			return s.api.ListMaterialPrices(ctx, client.MaterialFilter{
				ActiveOnly: r.URL.Query().Get("vse") == "",
			})
		})
	if err != nil {
		s.renderError(w, "materials", err)
		return
	}

	s.templates.Render(w, "materials.html", struct {
		PageData
		Prices []client.MaterialPrice
	}{PageData{Stale: stale, FetchedAt: fetchedAt}, prices})
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	orders, stale, fetchedAt, err := listWithFallback(r.Context(), s.snap, "zakazky",
		func(ctx context.Context) ([]client.Order, error) {
			return s.api.ListOrders(ctx, r.URL.Query().Get("status"))
		})
	if err != nil {
		s.renderError(w, "orders", err)
		return
	}

	s.templates.Render(w, "orders.html", struct {
		PageData
		Orders []client.Order
	}{PageData{Stale: stale, FetchedAt: fetchedAt}, orders})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.api.GetReportSummary(r.Context())
	if err != nil {
		s.renderError(w, "report", err)
		return
	}

	s.templates.Render(w, "report.html", struct {
		PageData
		Report *client.ReportSummary
	}{Report: report})
}

func (s *Server) handleArchitecturePage(w http.ResponseWriter, r *http.Request) {
	layout := r.URL.Query().Get("layout")
	if layout == "" {
		layout = string(render.LayoutHierarchical)
	}

	s.templates.Render(w, "architecture.html", struct {
		PageData
		Layout  string
		Layouts []string
		Search  string
	}{Layout: layout, Layouts: render.LayoutNames(), Search: r.URL.Query().Get("q")})
}

func (s *Server) handleArchitectureSVG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	layout, err := render.ParseLayout(defaultString(q.Get("layout"), string(render.LayoutHierarchical)))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	graph, err := s.architectureGraph(ctx, q.Get("refresh") == "true")
	if err != nil {
		s.renderError(w, "architecture graph", err)
		return
	}

	g := diagram.BuildArchitecture(graph, diagram.Options{
		Categories: q["category"],
		Search:     q.Get("q"),
	})
	s.writeDiagram(ctx, w, g, layout)
}

func (s *Server) handleWorkflowSVG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	wf, err := s.workflowGraph(ctx)
	if err != nil {
		s.renderError(w, "workflow graph", err)
		return
	}

	s.writeDiagram(ctx, w, diagram.BuildWorkflow(wf), render.LayoutHierarchical)
}

// writeDiagram serializes and renders a built graph as SVG through the
// render cache.
func (s *Server) writeDiagram(ctx context.Context, w http.ResponseWriter, g *dot.Graph, layout render.Layout) {
	svg, err := s.diagrams.Render(ctx, dot.Serialize(g), layout, "svg")
	if err != nil {
		s.renderError(w, "diagram render", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

// architectureGraph fetches the backend's dependency graph through the query
// cache so page loads and SVG requests share one fetch.
func (s *Server) architectureGraph(ctx context.Context, refresh bool) (*client.ArchitectureGraph, error) {
	key := query.Key{"architektura"}
	fn := func(ctx context.Context) (any, error) {
		return s.api.GetArchitectureGraph(ctx, refresh)
	}

	var (
		v   any
		err error
	)
	if refresh {
		v, err = s.cache.Refresh(ctx, key, fn)
	} else {
		v, err = s.cache.Fetch(ctx, key, fn)
	}
	if err != nil {
		return nil, err
	}
	return v.(*client.ArchitectureGraph), nil
}

func (s *Server) workflowGraph(ctx context.Context) (*client.WorkflowGraph, error) {
	v, err := s.cache.Fetch(ctx, query.Key{"architektura", "workflow"}, func(ctx context.Context) (any, error) {
		return s.api.GetWorkflowGraph(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*client.WorkflowGraph), nil
}

// renderError logs the failure and returns a plain 502 to the browser. The
// viewer is read-only; there is nothing actionable to show beyond the message.
func (s *Server) renderError(w http.ResponseWriter, what string, err error) {
	log.Printf("viewer %s failed: %v", what, err)
	http.Error(w, fmt.Sprintf("backend error (%s): %v", what, err), http.StatusBadGateway)
}

// listWithFallback fetches a list from the backend and mirrors it into the
// snapshot store. When the backend call fails and a snapshot exists, the
// stored copy is served instead, marked stale.
func listWithFallback[T any](ctx context.Context, snap *store.Snapshot, entity string, fetch func(context.Context) ([]T, error)) ([]T, bool, time.Time, error) {
	list, err := fetch(ctx)
	if err == nil {
		if snap != nil {
			if saveErr := snap.SaveList(entity, list); saveErr != nil {
				log.Printf("snapshot save %s failed: %v", entity, saveErr)
			}
		}
		return list, false, time.Time{}, nil
	}

	if snap == nil {
		return nil, false, time.Time{}, err
	}

	var stored []T
	fetchedAt, loadErr := snap.LoadList(entity, &stored)
	if loadErr != nil {
		return nil, false, time.Time{}, err
	}
	log.Printf("backend fetch %s failed, serving snapshot from %s: %v", entity, fetchedAt.Format(time.RFC3339), err)
	return stored, true, fetchedAt, nil
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
