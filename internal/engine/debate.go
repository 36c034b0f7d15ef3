package engine

import (
	"fmt"

	"github.com/google/uuid"

	"teamtasks/internal/domain"
)

// PreviewLen bounds response excerpts in cross-review prompts. The
// stored content is always the full text.
const PreviewLen = 200

// StartRound appends a new round in phase initial and returns its
// 1-based number. Starting a round never requires the previous one to
// have reached synthesis.
func (e Engine) StartRound(p *domain.Project) (int, error) {
	if p.Mode != domain.ModeDebate || p.Debate == nil {
		return 0, validationf("round is for debate mode; project %q is %s", p.Name, p.Mode)
	}
	r := domain.Round{
		Number:    len(p.Debate.Rounds) + 1,
		Phase:     domain.PhaseInitial,
		StartedAt: e.now(),
		Responses: []domain.Response{},
	}
	p.Debate.Rounds = append(p.Debate.Rounds, r)
	return r.Number, nil
}

func currentRound(p *domain.Project) (*domain.Round, error) {
	if p.Mode != domain.ModeDebate || p.Debate == nil {
		return nil, validationf("round is for debate mode; project %q is %s", p.Name, p.Mode)
	}
	rounds := p.Debate.Rounds
	if len(rounds) == 0 {
		return nil, &StateError{Reason: "no active round; start one first"}
	}
	return &rounds[len(rounds)-1], nil
}

// SubmitResponse appends a response to the current round, tagged with
// the round's phase at submission time. The debater id is recorded as
// given; it is not checked against the register, and a debater may
// respond more than once per phase.
func (e Engine) SubmitResponse(p *domain.Project, debaterID, content string) (domain.Response, error) {
	if debaterID == "" {
		return domain.Response{}, validationf("debater id is required")
	}
	round, err := currentRound(p)
	if err != nil {
		return domain.Response{}, err
	}
	resp := domain.Response{
		ID:          uuid.New().String(),
		DebaterID:   debaterID,
		Content:     content,
		Phase:       round.Phase,
		SubmittedAt: e.now(),
	}
	round.Responses = append(round.Responses, resp)
	return resp, nil
}

// ReviewEntry is one peer response excerpt inside a review prompt.
type ReviewEntry struct {
	DebaterID string `json:"debater_id"`
	Preview   string `json:"preview"`
}

// ReviewPrompt collects, for one debater, the initial-phase responses
// authored by everyone else.
type ReviewPrompt struct {
	DebaterID string        `json:"debater_id"`
	Entries   []ReviewEntry `json:"entries"`
}

// AdvanceToCrossReview moves the current round into cross-review and
// returns a prompt per registered debater holding the other debaters'
// initial responses, previews truncated to PreviewLen. Debaters with
// no peer input get no prompt. Phases only move forward, so a round
// already in cross-review or synthesis rejects the transition.
func (e Engine) AdvanceToCrossReview(p *domain.Project) ([]ReviewPrompt, error) {
	round, err := currentRound(p)
	if err != nil {
		return nil, err
	}
	if round.Phase != domain.PhaseInitial {
		return nil, &StateError{Reason: fmt.Sprintf("round %d is in %s; cross-review only follows initial", round.Number, round.Phase)}
	}
	round.Phase = domain.PhaseCrossReview
	var initial []domain.Response
	for _, r := range round.Responses {
		if r.Phase == domain.PhaseInitial {
			initial = append(initial, r)
		}
	}
	var prompts []ReviewPrompt
	for _, d := range p.Debate.Debaters {
		var entries []ReviewEntry
		for _, r := range initial {
			if r.DebaterID == d.ID {
				continue
			}
			entries = append(entries, ReviewEntry{DebaterID: r.DebaterID, Preview: preview(r.Content, PreviewLen)})
		}
		if len(entries) > 0 {
			prompts = append(prompts, ReviewPrompt{DebaterID: d.ID, Entries: entries})
		}
	}
	return prompts, nil
}

// SynthesisSummary reports the round's responses partitioned by the
// phase they were captured in.
type SynthesisSummary struct {
	RoundNumber  int `json:"round_number"`
	InitialCount int `json:"initial_count"`
	ReviewCount  int `json:"review_count"`
}

// AdvanceToSynthesis moves the current round into synthesis and counts
// responses by their captured phase. Synthesis is terminal; re-entry
// is rejected.
func (e Engine) AdvanceToSynthesis(p *domain.Project) (SynthesisSummary, error) {
	round, err := currentRound(p)
	if err != nil {
		return SynthesisSummary{}, err
	}
	if round.Phase == domain.PhaseSynthesis {
		return SynthesisSummary{}, &StateError{Reason: fmt.Sprintf("round %d is already in synthesis", round.Number)}
	}
	round.Phase = domain.PhaseSynthesis
	sum := SynthesisSummary{RoundNumber: round.Number}
	for _, r := range round.Responses {
		switch r.Phase {
		case domain.PhaseInitial:
			sum.InitialCount++
		case domain.PhaseCrossReview:
			sum.ReviewCount++
		}
	}
	return sum, nil
}

// DebaterStanding marks whether a debater has responded at least once
// in the round's current phase.
type DebaterStanding struct {
	DebaterID string `json:"debater_id"`
	Responded bool   `json:"responded"`
}

// RoundSummary describes the current round for display.
type RoundSummary struct {
	RoundNumber int               `json:"round_number"`
	Phase       domain.Phase      `json:"phase"`
	Standings   []DebaterStanding `json:"standings"`
}

// RoundStatus reports the current round's phase and, per registered
// debater, a presence check against responses tagged with that phase.
func (e Engine) RoundStatus(p *domain.Project) (RoundSummary, error) {
	round, err := currentRound(p)
	if err != nil {
		return RoundSummary{}, err
	}
	responded := map[string]bool{}
	for _, r := range round.Responses {
		if r.Phase == round.Phase {
			responded[r.DebaterID] = true
		}
	}
	sum := RoundSummary{RoundNumber: round.Number, Phase: round.Phase}
	for _, d := range p.Debate.Debaters {
		sum.Standings = append(sum.Standings, DebaterStanding{DebaterID: d.ID, Responded: responded[d.ID]})
	}
	return sum, nil
}

// preview truncates to n characters, not bytes, so multi-byte runes
// are never split.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
