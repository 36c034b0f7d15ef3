// Package engine is the coordination core: project construction, the
// stage/task status state machine, the dependency-graph resolver, and
// the debate phase controller. Operations mutate an in-memory project
// record and return a result descriptor; loading and persisting the
// record is the caller's job. No operation leaves the record partially
// mutated on failure.
package engine

import (
	"strings"
	"time"

	"teamtasks/internal/domain"
)

// Engine evaluates operations against project records. Now is
// injectable for deterministic timestamps in tests.
type Engine struct {
	Now func() time.Time
}

func New() Engine {
	return Engine{Now: time.Now}
}

func (e Engine) now() string {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return now().UTC().Format(time.RFC3339)
}

// InitOptions are parameters for creating a project record.
type InitOptions struct {
	Name      string
	Mode      domain.Mode
	Goal      string
	Workspace string
	Pipeline  []string // linear mode stage ids, in execution order
}

// InitProject builds a fresh project record with the payload shape
// matching its mode.
func (e Engine) InitProject(opts InitOptions) (domain.Project, error) {
	if opts.Name == "" {
		return domain.Project{}, validationf("project name is required")
	}
	if !domain.ValidMode(opts.Mode) {
		return domain.Project{}, validationf("unknown mode %q", opts.Mode)
	}
	p := domain.Project{
		Name:      opts.Name,
		Mode:      opts.Mode,
		Goal:      opts.Goal,
		Workspace: opts.Workspace,
		CreatedAt: e.now(),
	}
	switch opts.Mode {
	case domain.ModeLinear:
		var stages []domain.Stage
		for _, id := range opts.Pipeline {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			stages = append(stages, domain.NewStage(id, "", ""))
		}
		if len(stages) == 0 {
			return domain.Project{}, validationf("linear mode requires a pipeline of stage ids")
		}
		for i, s := range stages {
			for _, prev := range stages[:i] {
				if prev.ID == s.ID {
					return domain.Project{}, validationf("duplicate stage id %q", s.ID)
				}
			}
		}
		p.Linear = &domain.LinearState{Stages: stages, CurrentStage: 0}
	case domain.ModeDAG:
		p.DAG = &domain.DAGState{Tasks: []domain.Task{}}
	case domain.ModeDebate:
		p.Debate = &domain.DebateState{
			Question: opts.Goal,
			Debaters: []domain.Debater{},
			Rounds:   []domain.Round{},
		}
	}
	return p, nil
}

// AddTask appends a task to a dag project. Cycle detection runs on the
// proposed post-add state; on a cycle the add is rolled back entirely
// and a CycleError carrying the offending edges is returned.
func (e Engine) AddTask(p *domain.Project, task domain.Task) error {
	if p.Mode != domain.ModeDAG || p.DAG == nil {
		return validationf("add is for dag mode; project %q is %s", p.Name, p.Mode)
	}
	if task.ID == "" {
		return validationf("task id is required")
	}
	for _, t := range p.DAG.Tasks {
		if t.ID == task.ID {
			return validationf("duplicate task id %q", task.ID)
		}
	}
	p.DAG.Tasks = append(p.DAG.Tasks, task)
	if edges := DetectCycles(p.DAG.Tasks); len(edges) > 0 {
		p.DAG.Tasks = p.DAG.Tasks[:len(p.DAG.Tasks)-1]
		return &CycleError{Edges: edges}
	}
	return nil
}

// AddDebater registers a debate participant. Debaters are append-only.
func (e Engine) AddDebater(p *domain.Project, id, agent, perspective string) (domain.Debater, error) {
	if p.Mode != domain.ModeDebate || p.Debate == nil {
		return domain.Debater{}, validationf("add-debater is for debate mode; project %q is %s", p.Name, p.Mode)
	}
	if id == "" {
		return domain.Debater{}, validationf("debater id is required")
	}
	for _, d := range p.Debate.Debaters {
		if d.ID == id {
			return domain.Debater{}, validationf("duplicate debater id %q", id)
		}
	}
	d := domain.NewDebater(id, agent, perspective, e.now())
	p.Debate.Debaters = append(p.Debate.Debaters, d)
	return d, nil
}

// NextStage returns the stage at the linear cursor, or nil when every
// stage has completed.
func (e Engine) NextStage(p *domain.Project) (*domain.Stage, error) {
	if p.Mode != domain.ModeLinear || p.Linear == nil {
		return nil, validationf("next is for linear mode; project %q is %s", p.Name, p.Mode)
	}
	if p.Linear.CurrentStage >= len(p.Linear.Stages) {
		return nil, nil
	}
	return &p.Linear.Stages[p.Linear.CurrentStage], nil
}

// StatusChange describes the side effects of a status transition.
// AdvancedTo names the stage the linear cursor moved onto, if any.
// Unlocked is the full dag ready set after a transition to done; it is
// not diffed against the previous ready set, so tasks that were
// already ready reappear in it.
type StatusChange struct {
	ID         string   `json:"id"`
	Status     string   `json:"status"`
	AdvancedTo string   `json:"advanced_to,omitempty"`
	Unlocked   []string `json:"unlocked,omitempty"`
}

// SetStatus applies a status transition to the stage or task with the
// given id. Any status may be set to any other; side effects are
// timestamps, linear auto-advance, and dag unlock notification.
func (e Engine) SetStatus(p *domain.Project, targetID string, status domain.Status) (StatusChange, error) {
	if !domain.ValidStatus(status) {
		return StatusChange{}, validationf("invalid status %q", status)
	}
	change := StatusChange{ID: targetID, Status: string(status)}
	switch p.Mode {
	case domain.ModeLinear:
		if p.Linear == nil {
			return StatusChange{}, validationf("project %q has no linear state", p.Name)
		}
		stages := p.Linear.Stages
		idx := -1
		for i := range stages {
			if stages[i].ID == targetID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return StatusChange{}, &NotFoundError{Kind: "stage", ID: targetID}
		}
		s := &stages[idx]
		s.Status = status
		switch status {
		case domain.StatusInProgress:
			s.AssignedAt = e.now()
		case domain.StatusDone, domain.StatusFailed, domain.StatusSkipped:
			s.CompletedAt = e.now()
		}
		if status == domain.StatusDone && idx == p.Linear.CurrentStage {
			p.Linear.CurrentStage = idx + 1
			if idx+1 < len(stages) {
				change.AdvancedTo = stages[idx+1].ID
			}
		}
	case domain.ModeDAG:
		if p.DAG == nil {
			return StatusChange{}, validationf("project %q has no dag state", p.Name)
		}
		tasks := p.DAG.Tasks
		idx := -1
		for i := range tasks {
			if tasks[i].ID == targetID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return StatusChange{}, &NotFoundError{Kind: "task", ID: targetID}
		}
		t := &tasks[idx]
		t.Status = status
		switch status {
		case domain.StatusInProgress:
			t.AssignedAt = e.now()
		case domain.StatusDone, domain.StatusFailed, domain.StatusSkipped:
			t.CompletedAt = e.now()
		}
		if status == domain.StatusDone {
			for _, r := range ReadyTasks(tasks) {
				change.Unlocked = append(change.Unlocked, r.ID)
			}
		}
	default:
		return StatusChange{}, validationf("update not supported in %s mode", p.Mode)
	}
	return change, nil
}

// RecordResult stores result text on a stage or task. A result implies
// work has started, so a pending item is promoted to in-progress and
// stamped.
func (e Engine) RecordResult(p *domain.Project, targetID, text string) error {
	switch p.Mode {
	case domain.ModeLinear:
		if p.Linear == nil {
			return validationf("project %q has no linear state", p.Name)
		}
		for i := range p.Linear.Stages {
			s := &p.Linear.Stages[i]
			if s.ID != targetID {
				continue
			}
			s.Result = text
			if s.Status == domain.StatusPending {
				s.Status = domain.StatusInProgress
				s.AssignedAt = e.now()
			}
			return nil
		}
		return &NotFoundError{Kind: "stage", ID: targetID}
	case domain.ModeDAG:
		if p.DAG == nil {
			return validationf("project %q has no dag state", p.Name)
		}
		for i := range p.DAG.Tasks {
			t := &p.DAG.Tasks[i]
			if t.ID != targetID {
				continue
			}
			t.Result = text
			if t.Status == domain.StatusPending {
				t.Status = domain.StatusInProgress
				t.AssignedAt = e.now()
			}
			return nil
		}
		return &NotFoundError{Kind: "task", ID: targetID}
	default:
		return validationf("result not supported in %s mode", p.Mode)
	}
}

// Reset clears execution state but not structure: statuses return to
// pending, results and timestamps empty, the linear cursor to zero.
// Debate projects drop all rounds and keep their debaters.
func (e Engine) Reset(p *domain.Project) {
	switch p.Mode {
	case domain.ModeLinear:
		if p.Linear == nil {
			return
		}
		for i := range p.Linear.Stages {
			resetStage(&p.Linear.Stages[i])
		}
		p.Linear.CurrentStage = 0
	case domain.ModeDAG:
		if p.DAG == nil {
			return
		}
		for i := range p.DAG.Tasks {
			resetTask(&p.DAG.Tasks[i])
		}
	case domain.ModeDebate:
		if p.Debate == nil {
			return
		}
		p.Debate.Rounds = []domain.Round{}
	}
}

func resetStage(s *domain.Stage) {
	s.Status = domain.StatusPending
	s.Result = ""
	s.AssignedAt = ""
	s.CompletedAt = ""
}

func resetTask(t *domain.Task) {
	t.Status = domain.StatusPending
	t.Result = ""
	t.AssignedAt = ""
	t.CompletedAt = ""
}

// Items returns the stages or tasks of a project as a uniform view for
// display. Debate projects have none.
type Item struct {
	ID          string
	Agent       string
	Description string
	Status      domain.Status
	Result      string
	AssignedAt  string
	CompletedAt string
}

func Items(p *domain.Project) []Item {
	var items []Item
	switch p.Mode {
	case domain.ModeLinear:
		if p.Linear == nil {
			return nil
		}
		for _, s := range p.Linear.Stages {
			items = append(items, Item{s.ID, s.Agent, s.Description, s.Status, s.Result, s.AssignedAt, s.CompletedAt})
		}
	case domain.ModeDAG:
		if p.DAG == nil {
			return nil
		}
		for _, t := range p.DAG.Tasks {
			items = append(items, Item{t.ID, t.Agent, t.Description, t.Status, t.Result, t.AssignedAt, t.CompletedAt})
		}
	}
	return items
}
