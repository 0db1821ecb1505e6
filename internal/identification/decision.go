package identification

import (
	"time"

	"reelsync/internal/catalog"
)

// DecisionKind enumerates the outcomes of a matching pass.
type DecisionKind int

const (
	// DecisionNeedsExplicitIdentifier means no candidate can be chosen from the
	// search results; the caller must supply a TMDB or IMDb reference.
	DecisionNeedsExplicitIdentifier DecisionKind = iota
	// DecisionAccepted links the candidate without human confirmation.
	DecisionAccepted
	// DecisionNeedsManualChoice hands the ranked list to a reviewer.
	DecisionNeedsManualChoice
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionAccepted:
		return "accepted"
	case DecisionNeedsManualChoice:
		return "needs_manual_choice"
	default:
		return "needs_explicit_identifier"
	}
}

// Decision reasons, logged as decision_reason.
const (
	ReasonNoCandidates          = "no_candidates"
	ReasonSingleResult          = "single_result"
	ReasonSingleResultGateFail  = "single_result_gate_failed"
	ReasonDecisiveMargin        = "decisive_margin"
	ReasonPopularConfidence     = "popular_confidence"
	ReasonConsistencyGateFailed = "consistency_gate_failed"
	ReasonAmbiguous             = "ambiguous"
	ReasonExplicitRequested     = "explicit_requested"
)

// Decision is the terminal output of Decide.
type Decision struct {
	Kind     DecisionKind
	Accepted *catalog.Candidate
	Ranked   []ScoredCandidate
	Reason   string
}

// Thresholds tunes the auto-accept rules.
type Thresholds struct {
	DecisiveScore   float64
	DecisiveMargin  float64
	PopularScore    float64
	PopularVotes    int64
	TitleSimilarity float64
	// DisableConsistencyGate restores the superseded permissive policy that
	// accepted on score rules alone. Only the identify diagnostics use it.
	DisableConsistencyGate bool
}

// DefaultThresholds returns the production auto-accept thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DecisiveScore:   0.85,
		DecisiveMargin:  0.20,
		PopularScore:    0.75,
		PopularVotes:    2000,
		TitleSimilarity: 0.85,
	}
}

// DecideOptions carries the context a decision depends on besides the ranking.
type DecideOptions struct {
	// Now anchors the future-release check; zero means time.Now().
	Now time.Time
	// ResultCount is the raw provider hit count before ranking truncation.
	ResultCount int
	Thresholds  Thresholds
}

// Decide applies the auto-accept policy to ranked candidates. Rules run in order
// and the first match wins; every auto-accept must also pass the consistency gate.
func Decide(ranked []ScoredCandidate, query string, opts DecideOptions) Decision {
	if opts.ResultCount == 0 || len(ranked) == 0 {
		return Decision{Kind: DecisionNeedsExplicitIdentifier, Reason: ReasonNoCandidates}
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	th := opts.Thresholds
	best := ranked[0]

	if opts.ResultCount == 1 {
		if !passesGate(best.Candidate, query, now, th) {
			return manualChoice(ranked, ReasonSingleResultGateFail)
		}
		return accepted(best, ranked, ReasonSingleResult)
	}

	second := 0.0
	if len(ranked) > 1 {
		second = ranked[1].Score
	}

	reason := ""
	switch {
	case best.Score >= th.DecisiveScore && best.Score-second >= th.DecisiveMargin:
		reason = ReasonDecisiveMargin
	case best.Score >= th.PopularScore && best.VoteCount >= th.PopularVotes:
		reason = ReasonPopularConfidence
	}
	if reason == "" {
		return manualChoice(ranked, ReasonAmbiguous)
	}
	if !passesGate(best.Candidate, query, now, th) {
		return manualChoice(ranked, ReasonConsistencyGateFailed)
	}
	return accepted(best, ranked, reason)
}

// ExplicitDecision is the outcome when a reviewer asks to type a reference
// instead of picking from the list.
func ExplicitDecision(ranked []ScoredCandidate) Decision {
	return Decision{Kind: DecisionNeedsExplicitIdentifier, Ranked: ranked, Reason: ReasonExplicitRequested}
}

// PassesConsistencyGate reports whether an auto-accept candidate is already
// released and its title closely matches the query.
func PassesConsistencyGate(candidate catalog.Candidate, query string, now time.Time, th Thresholds) bool {
	if release, ok := candidate.ReleaseTime(); ok && release.After(now) {
		return false
	}
	return titleSimilarity(candidate, query) >= th.TitleSimilarity
}

func passesGate(candidate catalog.Candidate, query string, now time.Time, th Thresholds) bool {
	if th.DisableConsistencyGate {
		return true
	}
	return PassesConsistencyGate(candidate, query, now, th)
}

func accepted(best ScoredCandidate, ranked []ScoredCandidate, reason string) Decision {
	c := best.Candidate
	return Decision{Kind: DecisionAccepted, Accepted: &c, Ranked: ranked, Reason: reason}
}

func manualChoice(ranked []ScoredCandidate, reason string) Decision {
	return Decision{Kind: DecisionNeedsManualChoice, Ranked: ranked, Reason: reason}
}
