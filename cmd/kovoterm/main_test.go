// ABOUTME: Tests for the kovoterm CLI entrypoint covering flag parsing, mode dispatch,
// ABOUTME: list output, diagram rendering guards, and the loopback bind check.
package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/masserfx/kovoterm/client"
)

// --- parseFlags tests ---

func TestParseFlagsDefaults(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	t.Setenv("KOVOTERM_API_URL", "")
	t.Setenv("KOVOTERM_TOKEN", "")

	os.Args = []string{"kovoterm"}
	cfg := parseFlags()

	if cfg.mode != "" {
		t.Errorf("expected empty mode (dashboard), got %q", cfg.mode)
	}
	if cfg.bind != "" {
		t.Errorf("expected empty bind before fallbacks, got %q", cfg.bind)
	}
	if cfg.layout != "hierarchical" {
		t.Errorf("expected default layout hierarchical, got %q", cfg.layout)
	}
	if cfg.format != "svg" {
		t.Errorf("expected default format svg, got %q", cfg.format)
	}
	if cfg.jsonOut || cfg.offline || cfg.allMaterial || cfg.allowRemote {
		t.Error("expected all bool flags false by default")
	}
}

func TestParseFlagsReadEnvDefaults(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	t.Setenv("KOVOTERM_API_URL", "https://api.firma.cz")
	t.Setenv("KOVOTERM_TOKEN", "tajny-token")

	os.Args = []string{"kovoterm", "materialy"}
	cfg := parseFlags()

	if cfg.apiURL != "https://api.firma.cz" {
		t.Errorf("expected apiURL from environment, got %q", cfg.apiURL)
	}
	if cfg.token != "tajny-token" {
		t.Errorf("expected token from environment, got %q", cfg.token)
	}
}

func TestParseFlagsFlagBeatsEnv(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	t.Setenv("KOVOTERM_API_URL", "https://env.example.com")

	os.Args = []string{"kovoterm", "-api", "https://flag.example.com", "zakazky"}
	cfg := parseFlags()

	if cfg.apiURL != "https://flag.example.com" {
		t.Errorf("expected flag to win over env, got %q", cfg.apiURL)
	}
}

func TestParseFlagsModeAndArgs(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	t.Setenv("KOVOTERM_API_URL", "")
	t.Setenv("KOVOTERM_TOKEN", "")

	os.Args = []string{"kovoterm", "-json", "kalkulace", "ord-42"}
	cfg := parseFlags()

	if cfg.mode != "kalkulace" {
		t.Errorf("expected mode=kalkulace, got %q", cfg.mode)
	}
	if len(cfg.args) != 1 || cfg.args[0] != "ord-42" {
		t.Errorf("expected args=[ord-42], got %v", cfg.args)
	}
	if !cfg.jsonOut {
		t.Error("expected -json to be parsed before the mode")
	}
}

// --- run dispatch tests ---

func TestRunUnknownModeIsUsageError(t *testing.T) {
	cfg := config{mode: "bogus"}
	if code := run(cfg); code != 2 {
		t.Errorf("expected exit code 2 for unknown mode, got %d", code)
	}
}

func TestRunListRequiresBackendURL(t *testing.T) {
	cfg := config{mode: "materialy"}
	if code := run(cfg); code != 1 {
		t.Errorf("expected exit code 1 without a backend URL, got %d", code)
	}
}

func TestRunKalkulaceRequiresOrderID(t *testing.T) {
	cfg := config{mode: "kalkulace", apiURL: "http://localhost:9", token: "t"}
	if code := run(cfg); code != 2 {
		t.Errorf("expected exit code 2 without an order id, got %d", code)
	}
}

func TestRunPresentRequiresDeckFile(t *testing.T) {
	cfg := config{mode: "present"}
	if code := run(cfg); code != 2 {
		t.Errorf("expected exit code 2 without a deck file, got %d", code)
	}
}

// --- list mode tests ---

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything written.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestRunListMaterialyJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/materialy") {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode([]client.MaterialPrice{
			{ID: "m1", Name: "S235 plech", Grade: "S235", UnitPrice: 28.5, Currency: "CZK", IsActive: true},
		})
	}))
	defer srv.Close()

	t.Setenv("KOVOTERM_DATA_DIR", t.TempDir())

	cfg := config{mode: "materialy", apiURL: srv.URL, token: "t", jsonOut: true}
	var code int
	out := captureStdout(t, func() { code = runList(cfg) })

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out, "S235 plech") {
		t.Errorf("expected material name in JSON output, got: %s", out)
	}
}

func TestRunListMaterialySnapshotRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]client.MaterialPrice{
			{ID: "m1", Name: "S355 tyč", Grade: "S355", UnitPrice: 31.5, Currency: "CZK", IsActive: true},
		})
	}))
	defer srv.Close()

	t.Setenv("KOVOTERM_DATA_DIR", t.TempDir())

	// Online listing persists the snapshot.
	online := config{mode: "materialy", apiURL: srv.URL, token: "t"}
	captureStdout(t, func() {
		if code := runList(online); code != 0 {
			t.Errorf("online listing failed with code %d", code)
		}
	})
	srv.Close()

	// Offline listing serves the stored copy with the backend gone.
	offline := config{mode: "materialy", offline: true}
	var code int
	out := captureStdout(t, func() { code = runList(offline) })

	if code != 0 {
		t.Fatalf("expected offline listing to succeed, got code %d", code)
	}
	if !strings.Contains(out, "S355 tyč") {
		t.Errorf("expected snapshotted material in offline output, got: %s", out)
	}
}

func TestRunListOfflineUnsupportedEntity(t *testing.T) {
	t.Setenv("KOVOTERM_DATA_DIR", t.TempDir())

	cfg := config{mode: "inbox", offline: true}
	if code := runList(cfg); code != 2 {
		t.Errorf("expected exit code 2 for unsnapshotted entity, got %d", code)
	}
}

func TestRunListBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "interní chyba", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := config{mode: "zakazky", apiURL: srv.URL, token: "t"}
	captureStdout(t, func() {
		if code := runList(cfg); code != 1 {
			t.Errorf("expected exit code 1 on backend failure, got %d", code)
		}
	})
}

func TestRunStatsPrintsStageRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orchestrace/stats" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(client.PipelineStats{
			TotalTasks: 7,
			DLQDepth:   2,
			ByStage:    map[string]client.StageStats{"ocr": {Running: 1}},
		})
	}))
	defer srv.Close()

	cfg := config{mode: "stats", apiURL: srv.URL, token: "t"}
	var code int
	out := captureStdout(t, func() { code = runList(cfg) })

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out, "celkem úloh: 7, DLQ: 2") {
		t.Errorf("expected totals line, got: %s", out)
	}
	if strings.Index(out, "ingest") > strings.Index(out, "ocr") {
		t.Error("stages must print in pipeline order")
	}
}

// --- dlq mode tests ---

func TestRunDLQRetryPostsToBackend(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config{mode: "dlq", apiURL: srv.URL, token: "t", args: []string{"retry", "d1"}}
	var code int
	out := captureStdout(t, func() { code = runDLQ(cfg) })

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if gotPath != "POST /orchestrace/dlq/d1/retry" {
		t.Errorf("unexpected backend call %q", gotPath)
	}
	if !strings.Contains(out, "retry d1 ok") {
		t.Errorf("expected confirmation line, got: %s", out)
	}
}

func TestRunDLQUnknownVerb(t *testing.T) {
	cfg := config{mode: "dlq", apiURL: "http://localhost:9", token: "t", args: []string{"requeue", "d1"}}
	if code := runDLQ(cfg); code != 2 {
		t.Errorf("expected exit code 2 for unknown dlq verb, got %d", code)
	}
}

// --- pipeline mode tests ---

func TestRunPipelineTestEmailPostsToBackend(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(client.ProcessingTask{ID: "t1", Stage: "ingest", Status: "pending"})
	}))
	defer srv.Close()

	cfg := config{
		mode: "pipeline", apiURL: srv.URL, token: "t",
		args: []string{"test-email", "jan@firma.cz", "Poptávka", "ocel", "S235"},
	}
	var code int
	out := captureStdout(t, func() { code = runPipeline(cfg) })

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if gotPath != "POST /orchestrace/test-email" {
		t.Errorf("unexpected backend call %q", gotPath)
	}
	if gotPayload["sender"] != "jan@firma.cz" || gotPayload["body"] != "ocel S235" {
		t.Errorf("unexpected payload: %v", gotPayload)
	}
	if !strings.Contains(out, "úloha t1 zařazena") {
		t.Errorf("expected confirmation line, got: %s", out)
	}
}

func TestRunPipelineBatchUploadPostsAllIDs(t *testing.T) {
	var gotPayload map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orchestrace/batch-upload" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode([]client.ProcessingTask{
			{ID: "t1", Stage: "ingest", Status: "pending"},
			{ID: "t2", Stage: "ingest", Status: "pending"},
		})
	}))
	defer srv.Close()

	cfg := config{mode: "pipeline", apiURL: srv.URL, token: "t", args: []string{"batch-upload", "msg-1", "msg-2"}}
	var code int
	out := captureStdout(t, func() { code = runPipeline(cfg) })

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if len(gotPayload["message_ids"]) != 2 || gotPayload["message_ids"][1] != "msg-2" {
		t.Errorf("unexpected payload: %v", gotPayload)
	}
	if !strings.Contains(out, "celkem 2 úloh") {
		t.Errorf("expected summary line, got: %s", out)
	}
}

func TestRunPipelineUsageErrors(t *testing.T) {
	cases := map[string][]string{
		"no verb":        nil,
		"unknown verb":   {"requeue"},
		"missing fields": {"test-email", "jan@firma.cz"},
		"no ids":         {"batch-upload"},
	}
	for name, args := range cases {
		cfg := config{mode: "pipeline", apiURL: "http://localhost:9", token: "t", args: args}
		if code := runPipeline(cfg); code != 2 {
			t.Errorf("%s: expected exit code 2, got %d", name, code)
		}
	}
}

// --- dokumenty mode tests ---

func TestRunDocumentsUploadSendsMultipart(t *testing.T) {
	var gotName, gotCategory, gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/dokumenty" {
			http.NotFound(w, r)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotName, gotContent = header.Filename, string(data)
		gotCategory = r.FormValue("category")
		json.NewEncoder(w).Encode(client.Document{ID: "doc-1", Name: header.Filename, Size: int64(len(data))})
	}))
	defer srv.Close()

	path := t.TempDir() + "/nabidka.pdf"
	if err := os.WriteFile(path, []byte("obsah nabídky"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config{mode: "dokumenty", apiURL: srv.URL, token: "t", category: "nabídky", args: []string{"upload", path}}
	var code int
	out := captureStdout(t, func() { code = runDocuments(cfg) })

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if gotName != "nabidka.pdf" || gotCategory != "nabídky" || gotContent != "obsah nabídky" {
		t.Errorf("upload mangled: name=%q category=%q content=%q", gotName, gotCategory, gotContent)
	}
	if !strings.Contains(out, "uloženo doc-1") {
		t.Errorf("expected confirmation line, got: %s", out)
	}
}

func TestRunDocumentsDownloadWritesOutputFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dokumenty/doc-7/download" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("%PDF-1.4 obsah"))
	}))
	defer srv.Close()

	outFile := t.TempDir() + "/nabidka.pdf"
	cfg := config{mode: "dokumenty", apiURL: srv.URL, token: "t", output: outFile, args: []string{"download", "doc-7"}}
	if code := runDocuments(cfg); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if string(data) != "%PDF-1.4 obsah" {
		t.Errorf("downloaded content mangled: %q", data)
	}
}

func TestRunDocumentsUnknownVerb(t *testing.T) {
	cfg := config{mode: "dokumenty", apiURL: "http://localhost:9", token: "t", args: []string{"rename", "doc-1"}}
	if code := runDocuments(cfg); code != 2 {
		t.Errorf("expected exit code 2 for unknown dokumenty verb, got %d", code)
	}
}

// --- diagram mode tests ---

func TestRunDiagramRejectsUnknownLayout(t *testing.T) {
	cfg := config{mode: "diagram", apiURL: "http://localhost:9", token: "t", layout: "spiral", format: "svg"}
	if code := runDiagram(cfg); code != 2 {
		t.Errorf("expected exit code 2 for unknown layout, got %d", code)
	}
}

func TestRunDiagramRejectsUnknownGraph(t *testing.T) {
	cfg := config{
		mode: "diagram", apiURL: "http://localhost:9", token: "t",
		layout: "hierarchical", format: "svg",
		args: []string{"orgchart"},
	}
	if code := runDiagram(cfg); code != 2 {
		t.Errorf("expected exit code 2 for unknown diagram, got %d", code)
	}
}

func TestRunDiagramDotFormatWritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/architektura" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(client.ArchitectureGraph{
			Nodes: []client.GraphNode{
				{ID: "api", Label: "API", Category: "backend"},
				{ID: "db", Label: "DB", Category: "database"},
			},
			Edges: []client.GraphEdge{{From: "api", To: "db"}},
		})
	}))
	defer srv.Close()

	outFile := t.TempDir() + "/arch.dot"
	cfg := config{
		mode: "diagram", apiURL: srv.URL, token: "t",
		layout: "hierarchical", format: "dot", output: outFile,
	}

	if code := runDiagram(cfg); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "digraph") || !strings.Contains(text, "api -> db") {
		t.Errorf("unexpected DOT output: %s", text)
	}
}

// --- serve mode tests ---

func TestRunServeRefusesNonLoopbackBind(t *testing.T) {
	cfg := config{mode: "serve", apiURL: "http://localhost:9", token: "t", bind: "0.0.0.0:4141"}
	if code := runServe(cfg); code != 2 {
		t.Errorf("expected exit code 2 for non-loopback bind, got %d", code)
	}
}

func TestIsLoopback(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:4141", true},
		{"localhost:4141", true},
		{"[::1]:4141", true},
		{"0.0.0.0:4141", false},
		{"192.168.1.10:4141", false},
		{"not-an-address", false},
	}
	for _, tc := range tests {
		if got := isLoopback(tc.addr); got != tc.want {
			t.Errorf("isLoopback(%q) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}

// --- helper tests ---

func TestSplitComma(t *testing.T) {
	if got := splitComma(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}

	got := splitComma("backend, database,,frontend ")
	want := []string{"backend", "database", "frontend"}
	if len(got) != len(want) {
		t.Fatalf("splitComma = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitComma[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewAPIClientRequiresURL(t *testing.T) {
	if _, err := newAPIClient(config{}); err == nil {
		t.Error("expected error without a backend URL")
	}

	api, err := newAPIClient(config{apiURL: "https://api.firma.cz/", token: "t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.BaseURL() != "https://api.firma.cz" {
		t.Errorf("expected trimmed base URL, got %q", api.BaseURL())
	}
}
