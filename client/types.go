// ABOUTME: DTO types mirroring the backend's record shapes for inbox, pipeline, orders, and catalog entities.
// ABOUTME: All entities are backend-owned; these structs hold transient decoded copies only.
package client

import "time"

// Inbox message lifecycle states as the backend reports them.
const (
	InboxStatusNew        = "new"
	InboxStatusClassified = "classified"
	InboxStatusAssigned   = "assigned"
	InboxStatusArchived   = "archived"
)

// PipelineStages lists the backend's document-processing stages in order.
// Purely labels on this side; the backend owns the flow.
var PipelineStages = []string{
	"ingest", "classify", "parse", "ocr", "analyze", "orchestrate", "calculate", "offer",
}

// InboxMessage is an incoming email record. Mutated only by the backend;
// kovoterm reads and displays.
type InboxMessage struct {
	ID             string    `json:"id"`
	Sender         string    `json:"sender"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	Classification string    `json:"classification"`
	Confidence     float64   `json:"confidence"`
	Status         string    `json:"status"`
	ReceivedAt     time.Time `json:"received_at"`
}

// ProcessingTask is a pipeline execution record for one inbox message.
type ProcessingTask struct {
	ID             string    `json:"id"`
	InboxMessageID string    `json:"inbox_message_id"`
	Stage          string    `json:"stage"`
	Status         string    `json:"status"`
	RetryCount     int       `json:"retry_count"`
	Error          string    `json:"error,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DLQEntry is a dead-letter record for a task that exhausted its retries.
// Retry semantics live entirely server-side; this side only triggers actions.
type DLQEntry struct {
	ID       string    `json:"id"`
	TaskID   string    `json:"task_id"`
	Stage    string    `json:"stage"`
	Error    string    `json:"error"`
	Attempts int       `json:"attempts"`
	FailedAt time.Time `json:"failed_at"`
}

// StageStats holds per-stage task counts for the pipeline dashboard.
type StageStats struct {
	Pending   int `json:"pending"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// PipelineStats is the orchestration observability summary.
type PipelineStats struct {
	TotalTasks int                   `json:"total_tasks"`
	DLQDepth   int                   `json:"dlq_depth"`
	ByStage    map[string]StageStats `json:"by_stage"`
}

// Order is a customer order (zakázka).
type Order struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Customer  string    `json:"customer"`
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Cost types for calculation line items.
const (
	CostTypeMaterial    = "material"
	CostTypeLabor       = "labor"
	CostTypeCooperation = "cooperation"
	CostTypeOverhead    = "overhead"
)

// CalculationItem is one line of a cost calculation. Item-level fields are
// editable here; derived totals are computed server-side.
type CalculationItem struct {
	ID            string  `json:"id"`
	CalculationID string  `json:"calculation_id"`
	CostType      string  `json:"cost_type"`
	Description   string  `json:"description"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	UnitPrice     float64 `json:"unit_price"`
	MaterialGrade string  `json:"material_grade,omitempty"`
	HoursEstimate float64 `json:"hours_estimate,omitempty"`
	LineTotal     float64 `json:"line_total"` // server-computed, display only
}

// Calculation is a cost calculation attached to an order. TotalPrice and
// Margin are server-computed; the client never derives them.
type Calculation struct {
	ID         string            `json:"id"`
	OrderID    string            `json:"order_id"`
	Name       string            `json:"name"`
	Status     string            `json:"status"`
	TotalPrice float64           `json:"total_price"`
	Margin     float64           `json:"margin"`
	UpdatedAt  time.Time         `json:"updated_at"`
	Items      []CalculationItem `json:"items,omitempty"`
}

// MaterialPrice is a priced catalog entry with a validity window. Full CRUD
// is exposed; overlap rules (if any) are the backend's business.
type MaterialPrice struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Grade     string    `json:"grade"`
	Form      string    `json:"form"`
	Dimension string    `json:"dimension"`
	UnitPrice float64   `json:"unit_price"`
	Currency  string    `json:"currency"`
	ValidFrom time.Time `json:"valid_from"`
	ValidTo   time.Time `json:"valid_to"`
	IsActive  bool      `json:"is_active"`
}

// Document is an uploaded file's metadata. Binary content is fetched through
// a separate download URL and never held beyond the transfer.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Size      int64     `json:"size"`
	OrderID   string    `json:"order_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GraphNode is a node of the precomputed architecture visualization.
type GraphNode struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Category    string `json:"category"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// GraphEdge connects two architecture nodes.
type GraphEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// ArchitectureGraph is the precomputed dependency graph served by the backend.
type ArchitectureGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// WorkflowNode is a step in the fixed swimlane workflow view.
type WorkflowNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Lane  string `json:"lane"`
	Stage string `json:"stage,omitempty"`
}

// WorkflowEdge connects two workflow steps.
type WorkflowEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// WorkflowGraph is the fixed swimlane layout served by the backend.
type WorkflowGraph struct {
	Lanes []string       `json:"lanes"`
	Nodes []WorkflowNode `json:"nodes"`
	Edges []WorkflowEdge `json:"edges"`
}

// ReportSummary is the aggregate dashboard report.
type ReportSummary struct {
	OrdersOpen   int     `json:"orders_open"`
	OrdersTotal  int     `json:"orders_total"`
	InboxNew     int     `json:"inbox_new"`
	RevenueMonth float64 `json:"revenue_month"`
	Currency     string  `json:"currency"`
	MarkdownBody string  `json:"markdown_body,omitempty"`
	GeneratedAt  string  `json:"generated_at,omitempty"`
}
