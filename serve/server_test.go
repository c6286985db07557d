// ABOUTME: Tests for the LAN viewer covering page rendering, snapshot fallback, and SVG routes.
// ABOUTME: Uses a fake backend over httptest and a counting fake renderer instead of graphviz.
package serve

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/masserfx/kovoterm/client"
	"github.com/masserfx/kovoterm/render"
	"github.com/masserfx/kovoterm/store"
)

// fakeBackend serves canned JSON for the routes the viewer reads.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("/materialy", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []client.MaterialPrice{
			{ID: "m1", Name: "S235 plech", Grade: "S235", UnitPrice: 28.5, Currency: "CZK", IsActive: true},
		})
	})
	mux.HandleFunc("/zakazky", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []client.Order{{ID: "z1", Number: "2026-041", Customer: "Strojírny Cheb", Status: "open"}})
	})
	mux.HandleFunc("/inbox", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []client.InboxMessage{{ID: "i1", Sender: "obchod@firma.cz", Subject: "Poptávka přírub", Status: "new"}})
	})
	mux.HandleFunc("/orchestrace/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, client.PipelineStats{
			TotalTasks: 7,
			DLQDepth:   2,
			ByStage:    map[string]client.StageStats{"ocr": {Running: 1, Failed: 1}},
		})
	})
	mux.HandleFunc("/reporting/summary", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, client.ReportSummary{
			OrdersOpen: 4, OrdersTotal: 12, RevenueMonth: 1234567.89, Currency: "CZK",
			MarkdownBody: "## Měsíční souhrn\n\n*dobré* čísla",
		})
	})
	mux.HandleFunc("/architektura", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, client.ArchitectureGraph{
			Nodes: []client.GraphNode{{ID: "api", Label: "API", Category: "service"}},
		})
	})
	mux.HandleFunc("/architektura/workflow", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, client.WorkflowGraph{
			Lanes: []string{"Obchod"},
			Nodes: []client.WorkflowNode{{ID: "n1", Label: "Poptávka", Lane: "Obchod"}},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type fakeRenderer struct {
	calls   int
	layouts []render.Layout
}

func (f *fakeRenderer) render(ctx context.Context, dotText string, layout render.Layout, format string) ([]byte, error) {
	f.calls++
	f.layouts = append(f.layouts, layout)
	return []byte("<svg>" + string(layout) + "</svg>"), nil
}

func newTestServer(t *testing.T, backend *httptest.Server, snap *store.Snapshot) (*Server, *fakeRenderer) {
	t.Helper()
	fr := &fakeRenderer{}
	s, err := NewServer(Config{
		API:      client.New(backend.URL, "test-token"),
		Snapshot: snap,
		RenderFn: fr.render,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return s, fr
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthReturnsJSON(t *testing.T) {
	s, _ := newTestServer(t, fakeBackend(t), nil)

	rec := get(t, s, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("health body not JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestDashboardRendersStatsAndStages(t *testing.T) {
	s, _ := newTestServer(t, fakeBackend(t), nil)

	rec := get(t, s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	html := rec.Body.String()
	for _, want := range []string{"úloh v pipeline", ">7<", ">2<", "ocr", "1 234 567,89 CZK"} {
		if !strings.Contains(html, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestMaterialsPageListsPrices(t *testing.T) {
	s, _ := newTestServer(t, fakeBackend(t), nil)

	rec := get(t, s, "/materialy")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	html := rec.Body.String()
	if !strings.Contains(html, "S235 plech") || !strings.Contains(html, "28,50 CZK") {
		t.Errorf("materials page missing expected rows:\n%s", html)
	}
	if strings.Contains(html, "Backend nedostupný") {
		t.Error("fresh page must not carry the stale banner")
	}
}

func TestReportPageRendersMarkdown(t *testing.T) {
	s, _ := newTestServer(t, fakeBackend(t), nil)

	rec := get(t, s, "/report")
	html := rec.Body.String()
	if !strings.Contains(html, "<h2") || !strings.Contains(html, "<em>dobré</em>") {
		t.Errorf("markdown body not rendered to HTML:\n%s", html)
	}
}

func TestOrdersFallsBackToSnapshotWhenBackendDies(t *testing.T) {
	backend := fakeBackend(t)
	snap, err := store.Open(filepath.Join(t.TempDir(), "snap.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer snap.Close()
	s, _ := newTestServer(t, backend, snap)

	// First request populates the snapshot.
	if rec := get(t, s, "/zakazky"); rec.Code != http.StatusOK {
		t.Fatalf("warm request failed: %d", rec.Code)
	}

	backend.Close()

	rec := get(t, s, "/zakazky")
	if rec.Code != http.StatusOK {
		t.Fatalf("fallback request failed: %d", rec.Code)
	}
	html := rec.Body.String()
	if !strings.Contains(html, "Strojírny Cheb") {
		t.Error("snapshot data missing from fallback page")
	}
	if !strings.Contains(html, "Backend nedostupný") {
		t.Error("fallback page must carry the stale banner")
	}
}

func TestOrdersWithoutSnapshotReturnsBadGateway(t *testing.T) {
	backend := fakeBackend(t)
	s, _ := newTestServer(t, backend, nil)
	backend.Close()

	if rec := get(t, s, "/zakazky"); rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502 without snapshot, got %d", rec.Code)
	}
}

func TestArchitectureSVGUsesRequestedLayout(t *testing.T) {
	s, fr := newTestServer(t, fakeBackend(t), nil)

	rec := get(t, s, "/architektura.svg?layout=circular")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("content type = %q", got)
	}
	if len(fr.layouts) != 1 || fr.layouts[0] != render.LayoutCircular {
		t.Errorf("renderer saw layouts %v", fr.layouts)
	}
}

func TestArchitectureSVGRejectsUnknownLayout(t *testing.T) {
	s, fr := newTestServer(t, fakeBackend(t), nil)

	if rec := get(t, s, "/architektura.svg?layout=spirala"); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if fr.calls != 0 {
		t.Errorf("renderer must not run for invalid layouts, got %d calls", fr.calls)
	}
}

func TestDiagramRenderIsCachedAcrossRequests(t *testing.T) {
	s, fr := newTestServer(t, fakeBackend(t), nil)

	get(t, s, "/workflow.svg")
	get(t, s, "/workflow.svg")
	if fr.calls != 1 {
		t.Errorf("expected 1 render for identical requests, got %d", fr.calls)
	}
}
