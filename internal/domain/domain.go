package domain

// Mode selects which payload a project carries. Immutable after init.
type Mode string

const (
	ModeLinear Mode = "linear"
	ModeDAG    Mode = "dag"
	ModeDebate Mode = "debate"
)

// ValidMode reports whether m is one of the three execution modes.
func ValidMode(m Mode) bool {
	switch m {
	case ModeLinear, ModeDAG, ModeDebate:
		return true
	}
	return false
}

// Status is the lifecycle state of a stage or task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
)

// Statuses lists the valid values in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusDone, StatusFailed, StatusSkipped}

// ValidStatus reports whether s is one of the five statuses.
func ValidStatus(s Status) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Phase is a debate round phase. Phases only move forward:
// initial -> cross-review -> synthesis.
type Phase string

const (
	PhaseInitial     Phase = "initial"
	PhaseCrossReview Phase = "cross-review"
	PhaseSynthesis   Phase = "synthesis"
)

// Project is the persisted record: identity plus exactly one
// mode-specific payload. Timestamps are UTC RFC3339 strings at second
// precision.
type Project struct {
	Name      string       `json:"name"`
	Mode      Mode         `json:"mode"`
	Goal      string       `json:"goal,omitempty"`
	Workspace string       `json:"workspace,omitempty"`
	CreatedAt string       `json:"created_at" format:"date-time"`
	Linear    *LinearState `json:"linear,omitempty"`
	DAG       *DAGState    `json:"dag,omitempty"`
	Debate    *DebateState `json:"debate,omitempty"`
}

// LinearState holds an ordered pipeline and a forward-only cursor
// pointing at the next stage to execute.
type LinearState struct {
	Stages       []Stage `json:"stages"`
	CurrentStage int     `json:"current_stage"`
}

// DAGState holds tasks related only by their dependency sets.
type DAGState struct {
	Tasks []Task `json:"tasks"`
}

// DebateState holds the question, registered debaters, and round
// history. Only the last round is mutable.
type DebateState struct {
	Question string    `json:"question"`
	Debaters []Debater `json:"debaters"`
	Rounds   []Round   `json:"rounds"`
}

type Stage struct {
	ID          string `json:"id"`
	Agent       string `json:"agent"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status"`
	Result      string `json:"result,omitempty"`
	AssignedAt  string `json:"assigned_at,omitempty" format:"date-time"`
	CompletedAt string `json:"completed_at,omitempty" format:"date-time"`
}

type Task struct {
	ID           string   `json:"id"`
	Agent        string   `json:"agent"`
	Description  string   `json:"description,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Status       Status   `json:"status"`
	Result       string   `json:"result,omitempty"`
	AssignedAt   string   `json:"assigned_at,omitempty" format:"date-time"`
	CompletedAt  string   `json:"completed_at,omitempty" format:"date-time"`
}

// Debater is immutable once added; there is no removal operation.
type Debater struct {
	ID          string `json:"id"`
	Agent       string `json:"agent"`
	Perspective string `json:"perspective,omitempty"`
	AddedAt     string `json:"added_at" format:"date-time"`
}

type Round struct {
	Number    int        `json:"round_number"`
	Phase     Phase      `json:"phase"`
	StartedAt string     `json:"started_at" format:"date-time"`
	Responses []Response `json:"responses"`
}

// Response captures the phase active at submission time; it is never
// recomputed when the round advances.
type Response struct {
	ID          string `json:"id"`
	DebaterID   string `json:"debater_id"`
	Content     string `json:"content"`
	Phase       Phase  `json:"phase"`
	SubmittedAt string `json:"submitted_at" format:"date-time"`
}

// NewStage returns a pending stage. Agent defaults to the stage id.
func NewStage(id, agent, desc string) Stage {
	if agent == "" {
		agent = id
	}
	return Stage{ID: id, Agent: agent, Description: desc, Status: StatusPending}
}

// NewTask returns a pending task. Agent defaults to the task id.
func NewTask(id, agent, desc string, deps []string) Task {
	if agent == "" {
		agent = id
	}
	return Task{ID: id, Agent: agent, Description: desc, Dependencies: deps, Status: StatusPending}
}

// NewDebater returns a debater record. Agent defaults to the debater id.
func NewDebater(id, agent, perspective, addedAt string) Debater {
	if agent == "" {
		agent = id
	}
	return Debater{ID: id, Agent: agent, Perspective: perspective, AddedAt: addedAt}
}

// Event is one journal entry; every mutating command appends one.
type Event struct {
	ID      int64  `json:"id"`
	TS      string `json:"ts" format:"date-time"`
	Type    string `json:"type"`
	Project string `json:"project,omitempty"`
	Entity  string `json:"entity,omitempty"`
	Payload string `json:"payload_json"`
}
