// ABOUTME: Help display for the kovoterm CLI with grouped flags, examples, and environment status.
// ABOUTME: Provides printHelp for usage output and envStatus for backend credential detection.
package main

import (
	"fmt"
	"io"
	"os"
)

const kovotermASCII = `
  _                     _
 | | _______   _____   | |_ ___ _ __ _ __ ___
 | |/ / _ \ \ / / _ \  | __/ _ \ '__| '_ ' _ \
 |   < (_) \ V / (_) | | ||  __/ |  | | | | | |
 |_|\_\___/ \_/ \___/   \__\___|_|  |_| |_| |_|
`

// printHelp writes a formatted help message to w, including usage patterns,
// grouped flags, examples, environment status, and a docs link.
func printHelp(w io.Writer, ver string) {
	fmt.Fprint(w, kovotermASCII)
	fmt.Fprintf(w, "kovoterm %s — terminal cockpit for the manufacturing backend\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  kovoterm                              Open the interactive dashboard")
	fmt.Fprintln(w, "  kovoterm materialy|zakazky|inbox|dokumenty")
	fmt.Fprintln(w, "                                        List records (plain text or -json)")
	fmt.Fprintln(w, "  kovoterm kalkulace <order-id>         List calculations for an order")
	fmt.Fprintln(w, "  kovoterm dokumenty upload <file>      Upload a document (-category tags it)")
	fmt.Fprintln(w, "  kovoterm dokumenty download <id>      Download a document (-output or stdout)")
	fmt.Fprintln(w, "  kovoterm stats|report                 Pipeline stats / aggregate report")
	fmt.Fprintln(w, "  kovoterm pipeline test-email <od> <předmět> [text]")
	fmt.Fprintln(w, "                                        Run the pipeline on a synthetic email")
	fmt.Fprintln(w, "  kovoterm pipeline batch-upload <id>...")
	fmt.Fprintln(w, "                                        Re-submit inbox messages to the pipeline")
	fmt.Fprintln(w, "  kovoterm dlq [retry|resolve <id>]     Inspect or act on the dead letter queue")
	fmt.Fprintln(w, "  kovoterm diagram [architektura|workflow]")
	fmt.Fprintln(w, "                                        Render a system diagram via graphviz")
	fmt.Fprintln(w, "  kovoterm serve                        Start the read-only LAN web viewer")
	fmt.Fprintln(w, "  kovoterm present <deck.yaml>          Render a slide deck to PNG frames")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Connection Flags:")
	fmt.Fprintln(w, "  -api <url>            Backend base URL (default: $KOVOTERM_API_URL)")
	fmt.Fprintln(w, "  -token <token>        Bearer token (default: $KOVOTERM_TOKEN)")
	fmt.Fprintln(w, "  -data-dir <dir>       Snapshot directory (default: $XDG_DATA_HOME/kovoterm)")
	fmt.Fprintln(w, "  -offline              Serve list commands from the local snapshot")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "List Flags:")
	fmt.Fprintln(w, "  -json                 Emit JSON instead of columns")
	fmt.Fprintln(w, "  -all                  Include inactive material prices")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Diagram Flags:")
	fmt.Fprintln(w, "  -layout <name>        force, circular, concentric, hierarchical, grid (default: hierarchical)")
	fmt.Fprintln(w, "  -format <fmt>         svg, png, or dot (default: svg)")
	fmt.Fprintln(w, "  -category <list>      Comma-separated categories to keep")
	fmt.Fprintln(w, "  -search <term>        Fade nodes not matching the term")
	fmt.Fprintln(w, "  -refresh              Ask the backend to rebuild the graph")
	fmt.Fprintln(w, "  -output <file>        Write to a file instead of stdout")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Serve Flags:")
	fmt.Fprintln(w, "  -bind <addr>          Listen address (default: 127.0.0.1:4141)")
	fmt.Fprintln(w, "  -allow-remote         Permit binding to a non-loopback address")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  kovoterm")
	fmt.Fprintln(w, "  kovoterm materialy -json")
	fmt.Fprintln(w, "  kovoterm zakazky -offline")
	fmt.Fprintln(w, "  kovoterm dokumenty upload nabidka.pdf -category nabídky")
	fmt.Fprintln(w, "  kovoterm pipeline test-email jan@firma.cz \"Poptávka\"")
	fmt.Fprintln(w, "  kovoterm diagram architektura -layout circular -output arch.svg")
	fmt.Fprintln(w, "  kovoterm serve -bind 0.0.0.0:4141 -allow-remote")
	fmt.Fprintln(w, "  kovoterm present decks/q3.yaml -output frames/")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  KOVOTERM_API_URL      %s\n", envStatus("KOVOTERM_API_URL"))
	fmt.Fprintf(w, "  KOVOTERM_TOKEN        %s\n", envStatus("KOVOTERM_TOKEN"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Both are required for any command that talks to the backend.")
	fmt.Fprintln(w, "  Optional config file: ~/.config/kovoterm/config.yaml")
	fmt.Fprintln(w, "  (api_url, token, bind, data_dir; flags and env win over the file)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Docs: https://github.com/masserfx/kovoterm")
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
