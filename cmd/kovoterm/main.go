// ABOUTME: CLI entrypoint for kovoterm with dashboard, list, diagram, serve, and present modes.
// ABOUTME: Wires the backend client, query cache, live listener, snapshot store, and signal handling.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/masserfx/kovoterm/client"
	"github.com/masserfx/kovoterm/diagram"
	"github.com/masserfx/kovoterm/dot"
	"github.com/masserfx/kovoterm/live"
	"github.com/masserfx/kovoterm/present"
	"github.com/masserfx/kovoterm/query"
	"github.com/masserfx/kovoterm/render"
	"github.com/masserfx/kovoterm/serve"
	"github.com/masserfx/kovoterm/store"
	"github.com/masserfx/kovoterm/tui"
)

var version = "dev"

// config holds all CLI configuration parsed from flags, environment variables,
// and positional arguments.
type config struct {
	apiURL      string
	token       string
	dataDir     string
	bind        string
	layout      string
	format      string
	category    string
	search      string
	output      string
	refresh     bool
	jsonOut     bool
	offline     bool
	allMaterial bool
	allowRemote bool
	showVersion bool
	mode        string
	args        []string
}

func main() {
	loadDotEnv(".env")

	cfg := parseFlags()

	if path, err := defaultConfigPath(); err == nil {
		fc, err := loadFileConfig(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		cfg.applyFallbacks(fc)
	} else {
		cfg.applyFallbacks(fileConfig{})
	}

	if cfg.showVersion {
		fmt.Printf("kovoterm %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and returns a populated config.
// Flags win over environment variables; the first positional argument
// selects the mode.
func parseFlags() config {
	var cfg config

	fs := flag.NewFlagSet("kovoterm", flag.ContinueOnError)
	fs.StringVar(&cfg.apiURL, "api", os.Getenv("KOVOTERM_API_URL"), "Backend base URL")
	fs.StringVar(&cfg.token, "token", os.Getenv("KOVOTERM_TOKEN"), "Bearer token")
	fs.StringVar(&cfg.dataDir, "data-dir", "", "Snapshot directory (default: $XDG_DATA_HOME/kovoterm)")
	fs.StringVar(&cfg.bind, "bind", "", "Listen address for serve mode (default: 127.0.0.1:4141)")
	fs.StringVar(&cfg.layout, "layout", "hierarchical", "Diagram layout: force, circular, concentric, hierarchical, grid")
	fs.StringVar(&cfg.format, "format", "svg", "Diagram output format: svg, png, dot")
	fs.StringVar(&cfg.category, "category", "", "Comma-separated diagram categories to keep")
	fs.StringVar(&cfg.search, "search", "", "Fade diagram nodes not matching the term")
	fs.StringVar(&cfg.output, "output", "", "Output file (diagram) or directory (present)")
	fs.BoolVar(&cfg.refresh, "refresh", false, "Ask the backend to rebuild the architecture graph")
	fs.BoolVar(&cfg.jsonOut, "json", false, "Emit JSON instead of columns")
	fs.BoolVar(&cfg.offline, "offline", false, "Serve list commands from the local snapshot")
	fs.BoolVar(&cfg.allMaterial, "all", false, "Include inactive material prices")
	fs.BoolVar(&cfg.allowRemote, "allow-remote", false, "Permit binding to a non-loopback address")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if fs.NArg() > 0 {
		cfg.mode = fs.Arg(0)
		cfg.args = fs.Args()[1:]
	}

	return cfg
}

// run dispatches to the appropriate mode based on the config.
// Returns an exit code: 0 for success, 1 for failure, 2 for usage errors.
func run(cfg config) int {
	switch cfg.mode {
	case "", "dashboard":
		return runDashboard(cfg)
	case "materialy", "zakazky", "inbox", "kalkulace", "stats", "report":
		return runList(cfg)
	case "dokumenty":
		return runDocuments(cfg)
	case "pipeline":
		return runPipeline(cfg)
	case "dlq":
		return runDLQ(cfg)
	case "diagram":
		return runDiagram(cfg)
	case "serve":
		return runServe(cfg)
	case "present":
		return runPresent(cfg)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n\n", cfg.mode)
		printHelp(os.Stderr, version)
		return 2
	}
}

// newAPIClient builds the backend client, failing fast when no base URL is
// configured. An empty token is allowed; the backend's 401 surfaces normally.
func newAPIClient(cfg config) (*client.Client, error) {
	if cfg.apiURL == "" {
		return nil, errors.New("no backend URL configured; set KOVOTERM_API_URL or pass -api")
	}
	if cfg.token == "" {
		fmt.Fprintln(os.Stderr, "warning: no bearer token; requests will be unauthenticated")
	}
	return client.New(cfg.apiURL, cfg.token), nil
}

// openSnapshot opens the sqlite snapshot store under the data directory,
// creating the directory if needed.
func openSnapshot(cfg config) (*store.Snapshot, error) {
	dataDir, err := resolveDataDir(cfg.dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return store.Open(filepath.Join(dataDir, "snapshot.db"))
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	return ctx, cancel
}

// runDashboard starts the interactive Bubble Tea dashboard: query cache,
// live WebSocket listener, and the tabbed panel UI.
func runDashboard(cfg config) int {
	api, err := newAPIClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventLog := live.NewLog(live.DefaultMaxHistory)
	model := tui.NewAppModel(api, query.NewCache(), eventLog)

	p := tea.NewProgram(model, tea.WithAltScreen())

	// Wire the event bridge so WebSocket events reach the TUI.
	bridge := tui.NewEventBridge(p.Send)

	// The live feed is best effort: a failed dial leaves the dashboard in
	// polling-only mode with the status bar showing offline.
	wsURL, err := api.WebSocketURL()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	} else if listener, err := live.Dial(ctx, wsURL, eventLog, bridge.HandleEvent); err == nil {
		defer listener.Close()
		go func() {
			<-listener.Done()
			bridge.NotifyClosed()
		}()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

// runList fetches one entity listing and prints it as columns or JSON.
// With -offline the local snapshot is read instead of the backend.
func runList(cfg config) int {
	ctx, cancel := signalContext()
	defer cancel()

	if cfg.offline {
		return runListOffline(cfg)
	}

	api, err := newAPIClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	var (
		data    any
		listErr error
	)
	switch cfg.mode {
	case "materialy":
		var prices []client.MaterialPrice
		prices, listErr = api.ListMaterialPrices(ctx, client.MaterialFilter{ActiveOnly: !cfg.allMaterial})
		data = prices
		if listErr == nil {
			saveSnapshot(cfg, func(snap *store.Snapshot) error {
				return snap.SaveMaterialPrices(prices)
			})
		}
	case "zakazky":
		var orders []client.Order
		orders, listErr = api.ListOrders(ctx, "")
		data = orders
		if listErr == nil {
			saveSnapshot(cfg, func(snap *store.Snapshot) error {
				return snap.SaveList("zakazky", orders)
			})
		}
	case "inbox":
		var messages []client.InboxMessage
		messages, listErr = api.ListInboxMessages(ctx, "")
		data = messages
	case "dokumenty":
		var docs []client.Document
		docs, listErr = api.ListDocuments(ctx, "")
		data = docs
	case "kalkulace":
		if len(cfg.args) == 0 {
			fmt.Fprintln(os.Stderr, "error: kalkulace requires an order id")
			return 2
		}
		var calcs []client.Calculation
		calcs, listErr = api.ListCalculations(ctx, cfg.args[0])
		data = calcs
	case "stats":
		var stats *client.PipelineStats
		stats, listErr = api.GetPipelineStats(ctx)
		data = stats
	case "report":
		var report *client.ReportSummary
		report, listErr = api.GetReportSummary(ctx)
		data = report
	}

	if listErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", listErr)
		return 1
	}

	return printListing(cfg, data)
}

// runListOffline reads the requested entity from the local snapshot.
func runListOffline(cfg config) int {
	snap, err := openSnapshot(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer snap.Close()

	var data any
	switch cfg.mode {
	case "materialy":
		prices, err := snap.LoadMaterialPrices(!cfg.allMaterial)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		data = prices
	case "zakazky":
		var orders []client.Order
		if _, err := snap.LoadList("zakazky", &orders); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		data = orders
	default:
		fmt.Fprintf(os.Stderr, "error: %s is not snapshotted; run without -offline\n", cfg.mode)
		return 2
	}

	return printListing(cfg, data)
}

// saveSnapshot persists freshly fetched data so -offline has something to
// serve later. Failures are warnings; the listing already succeeded.
func saveSnapshot(cfg config, save func(*store.Snapshot) error) {
	snap, err := openSnapshot(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: snapshot unavailable: %v\n", err)
		return
	}
	defer snap.Close()
	if err := save(snap); err != nil {
		fmt.Fprintf(os.Stderr, "warning: snapshot not updated: %v\n", err)
	}
}

// printJSON writes any value to stdout as indented JSON.
func printJSON(data any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// printListing writes the listing to stdout as indented JSON or as columns.
func printListing(cfg config, data any) int {
	if cfg.jsonOut {
		return printJSON(data)
	}

	switch list := data.(type) {
	case []client.MaterialPrice:
		for _, p := range list {
			active := " "
			if p.IsActive {
				active = "*"
			}
			fmt.Printf("%s %-36s %-10s %10.2f %s\n", active, p.Name, p.Grade, p.UnitPrice, p.Currency)
		}
	case []client.Order:
		for _, o := range list {
			fmt.Printf("%-12s %-28s %-12s %s\n", o.Number, o.Customer, o.Status, o.Note)
		}
	case []client.InboxMessage:
		for _, msg := range list {
			fmt.Printf("%-28s %-40s %-14s %s\n", msg.Sender, msg.Subject, msg.Classification, msg.Status)
		}
	case []client.Document:
		for _, d := range list {
			fmt.Printf("%-40s %-14s %8d B\n", d.Name, d.Category, d.Size)
		}
	case []client.Calculation:
		for _, c := range list {
			fmt.Printf("%-28s %-12s %12.2f  marže %.1f%%\n", c.Name, c.Status, c.TotalPrice, c.Margin)
		}
	case []client.DLQEntry:
		for _, e := range list {
			fmt.Printf("%-28s %-12s pokusů %d  %s\n", e.ID, e.Stage, e.Attempts, e.Error)
		}
	case *client.PipelineStats:
		for _, stage := range client.PipelineStages {
			s := list.ByStage[stage]
			fmt.Printf("%-12s čeká %3d  běží %3d  hotovo %3d  chyb %3d\n",
				stage, s.Pending, s.Running, s.Completed, s.Failed)
		}
		fmt.Printf("celkem úloh: %d, DLQ: %d\n", list.TotalTasks, list.DLQDepth)
	case *client.ReportSummary:
		fmt.Printf("zakázky: %d otevřených z %d\n", list.OrdersOpen, list.OrdersTotal)
		fmt.Printf("inbox: %d nových\n", list.InboxNew)
		fmt.Printf("tržby za měsíc: %.2f %s\n", list.RevenueMonth, list.Currency)
	}
	return 0
}

// runDocuments lists document metadata or transfers document binaries.
// Without a verb it behaves like the other listing commands.
func runDocuments(cfg config) int {
	if len(cfg.args) == 0 {
		return runList(cfg)
	}

	api, err := newAPIClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	verb := cfg.args[0]
	if len(cfg.args) != 2 {
		fmt.Fprintln(os.Stderr, "error: usage: kovoterm dokumenty [upload <soubor> | download <id> | delete <id>]")
		return 2
	}

	switch verb {
	case "upload":
		f, err := os.Open(cfg.args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		defer f.Close()

		doc, err := api.UploadDocument(ctx, filepath.Base(cfg.args[1]), cfg.category, f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		if cfg.jsonOut {
			return printJSON(doc)
		}
		fmt.Printf("uloženo %s (%s, %d B)\n", doc.ID, doc.Name, doc.Size)
		return 0

	case "download":
		var w io.Writer = os.Stdout
		if cfg.output != "" {
			f, err := os.Create(cfg.output)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				return 1
			}
			defer f.Close()
			w = f
		}
		if err := api.DownloadDocument(ctx, cfg.args[1], w); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		if cfg.output != "" {
			fmt.Fprintf(os.Stderr, "wrote %s\n", cfg.output)
		}
		return 0

	case "delete":
		if err := api.DeleteDocument(ctx, cfg.args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Printf("delete %s ok\n", cfg.args[1])
		return 0

	default:
		fmt.Fprintf(os.Stderr, "error: unknown dokumenty action %q (want upload, download, or delete)\n", verb)
		return 2
	}
}

// runPipeline triggers orchestration runs: a synthetic test email or a batch
// re-submission of inbox messages. Both return the created tasks.
func runPipeline(cfg config) int {
	if len(cfg.args) == 0 {
		fmt.Fprintln(os.Stderr, "error: usage: kovoterm pipeline [test-email <od> <předmět> [text] | batch-upload <id>...]")
		return 2
	}

	api, err := newAPIClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	switch verb := cfg.args[0]; verb {
	case "test-email":
		if len(cfg.args) < 3 {
			fmt.Fprintln(os.Stderr, "error: usage: kovoterm pipeline test-email <od> <předmět> [text]")
			return 2
		}
		body := strings.Join(cfg.args[3:], " ")
		task, err := api.SubmitTestEmail(ctx, cfg.args[1], cfg.args[2], body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		if cfg.jsonOut {
			return printJSON(task)
		}
		fmt.Printf("úloha %s zařazena (%s/%s)\n", task.ID, task.Stage, task.Status)
		return 0

	case "batch-upload":
		ids := cfg.args[1:]
		if len(ids) == 0 {
			fmt.Fprintln(os.Stderr, "error: batch-upload requires at least one inbox message id")
			return 2
		}
		tasks, err := api.BatchUpload(ctx, ids)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		if cfg.jsonOut {
			return printJSON(tasks)
		}
		for _, task := range tasks {
			fmt.Printf("úloha %s zařazena (%s/%s)\n", task.ID, task.Stage, task.Status)
		}
		fmt.Printf("celkem %d úloh\n", len(tasks))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "error: unknown pipeline action %q (want test-email or batch-upload)\n", verb)
		return 2
	}
}

// runDLQ lists the dead letter queue or triggers an operator action on one
// entry. Retry semantics are entirely server-side; this is an opaque call.
func runDLQ(cfg config) int {
	api, err := newAPIClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	if len(cfg.args) == 0 {
		entries, err := api.ListDLQ(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return printListing(cfg, entries)
	}

	if len(cfg.args) != 2 {
		fmt.Fprintln(os.Stderr, "error: usage: kovoterm dlq [retry|resolve <id>]")
		return 2
	}

	verb, id := cfg.args[0], cfg.args[1]
	switch verb {
	case "retry":
		err = api.RetryDLQEntry(ctx, id)
	case "resolve":
		err = api.ResolveDLQEntry(ctx, id)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown dlq action %q (want retry or resolve)\n", verb)
		return 2
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Printf("%s %s ok\n", verb, id)
	return 0
}

// runDiagram fetches the architecture or workflow graph, builds the DOT
// document, and either prints it or pipes it through graphviz.
func runDiagram(cfg config) int {
	api, err := newAPIClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	layout, err := render.ParseLayout(cfg.layout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	ctx, cancel := signalContext()
	defer cancel()

	what := "architektura"
	if len(cfg.args) > 0 {
		what = cfg.args[0]
	}

	var g *dot.Graph
	switch what {
	case "architektura":
		arch, err := api.GetArchitectureGraph(ctx, cfg.refresh)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		g = diagram.BuildArchitecture(arch, diagram.Options{
			Categories: splitComma(cfg.category),
			Search:     cfg.search,
		})
	case "workflow":
		wf, err := api.GetWorkflowGraph(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		g = diagram.BuildWorkflow(wf)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown diagram %q (want architektura or workflow)\n", what)
		return 2
	}

	dotText := dot.Serialize(g)

	var out []byte
	if cfg.format == "dot" {
		out = []byte(dotText)
	} else {
		out, err = render.Render(ctx, dotText, layout, cfg.format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}

	if cfg.output == "" {
		os.Stdout.Write(out)
		return 0
	}
	if err := os.WriteFile(cfg.output, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", cfg.output, len(out))
	return 0
}

// runServe starts the read-only LAN web viewer.
func runServe(cfg config) int {
	if !cfg.allowRemote && !isLoopback(cfg.bind) {
		fmt.Fprintf(os.Stderr, "error: %s is not a loopback address; pass -allow-remote to expose the viewer\n", cfg.bind)
		return 2
	}

	api, err := newAPIClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	// The snapshot store backs the stale-data fallback; the viewer still
	// works without it.
	snap, err := openSnapshot(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: snapshot unavailable: %v\n", err)
		snap = nil
	} else {
		defer snap.Close()
	}

	viewer, err := serve.NewServer(serve.Config{
		Addr:     cfg.bind,
		API:      api,
		Snapshot: snap,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	httpServer := &http.Server{
		Addr:    cfg.bind,
		Handler: viewer,
	}

	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	fmt.Fprintf(os.Stderr, "listening on %s\n", cfg.bind)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

// runPresent renders a slide deck into numbered PNG frames and prints the
// ffmpeg invocation that assembles them into a video.
func runPresent(cfg config) int {
	if len(cfg.args) == 0 {
		fmt.Fprintln(os.Stderr, "error: present requires a deck file")
		return 2
	}

	deck, err := present.LoadDeck(cfg.args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	outDir := cfg.output
	if outDir == "" {
		outDir = "frames"
	}

	err = deck.RenderAll(outDir, func(frame, total int) {
		if frame%30 == 0 || frame == total-1 {
			fmt.Fprintf(os.Stderr, "\rframe %d/%d", frame+1, total)
		}
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Printf("Rendered %d frames to %s\n", deck.TotalFrames(), outDir)
	fmt.Printf("Assemble with:\n  %s\n", deck.FFmpegHint(outDir))
	return 0
}

// isLoopback reports whether addr binds only to a loopback interface.
func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// splitComma splits a comma-separated flag value, dropping empty parts.
func splitComma(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
