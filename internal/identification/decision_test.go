package identification

import (
	"testing"
	"time"

	"reelsync/internal/catalog"
)

var decisionNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func scored(id int64, title, release string, score float64, votes int64) ScoredCandidate {
	return ScoredCandidate{
		Candidate: catalog.Candidate{ID: id, Title: title, ReleaseDate: release, VoteCount: votes},
		Score:     score,
	}
}

func decide(ranked []ScoredCandidate, query string, resultCount int, th Thresholds) Decision {
	return Decide(ranked, query, DecideOptions{Now: decisionNow, ResultCount: resultCount, Thresholds: th})
}

func TestDecideNoCandidates(t *testing.T) {
	d := decide(nil, "Inception", 0, DefaultThresholds())
	if d.Kind != DecisionNeedsExplicitIdentifier || d.Reason != ReasonNoCandidates {
		t.Fatalf("unexpected decision %v/%s", d.Kind, d.Reason)
	}
}

func TestDecideDecisiveMarginAccepts(t *testing.T) {
	ranked := []ScoredCandidate{
		scored(27205, "Inception", "2010-07-15", 0.90, 100),
		scored(64956, "Inception: The Cobol Job", "2010-12-07", 0.60, 10),
	}
	d := decide(ranked, "Inception", 2, DefaultThresholds())
	if d.Kind != DecisionAccepted {
		t.Fatalf("expected accepted, got %v (%s)", d.Kind, d.Reason)
	}
	if d.Reason != ReasonDecisiveMargin {
		t.Fatalf("unexpected reason %s", d.Reason)
	}
	if d.Accepted == nil || d.Accepted.ID != 27205 {
		t.Fatalf("unexpected accepted candidate %+v", d.Accepted)
	}
}

func TestDecideCloseScoresNeedManualChoice(t *testing.T) {
	ranked := []ScoredCandidate{
		scored(1, "Heat", "1995-12-15", 0.80, 100),
		scored(2, "Heat", "1986-03-14", 0.78, 50),
	}
	d := decide(ranked, "Heat", 2, DefaultThresholds())
	if d.Kind != DecisionNeedsManualChoice {
		t.Fatalf("expected manual choice, got %v (%s)", d.Kind, d.Reason)
	}
	if len(d.Ranked) != 2 || d.Ranked[0].ID != 1 {
		t.Fatal("expected ranked list with suggested default first")
	}
	if d.Accepted != nil {
		t.Fatal("manual choice must not carry an accepted candidate")
	}
}

func TestDecidePopularConfidenceAccepts(t *testing.T) {
	ranked := []ScoredCandidate{
		scored(1, "Heat", "1995-12-15", 0.80, 7000),
		scored(2, "Heat", "1986-03-14", 0.78, 50),
	}
	d := decide(ranked, "Heat", 2, DefaultThresholds())
	if d.Kind != DecisionAccepted || d.Reason != ReasonPopularConfidence {
		t.Fatalf("expected popular acceptance, got %v (%s)", d.Kind, d.Reason)
	}
}

func TestDecideSingleFutureDissimilarCandidateIsNotAccepted(t *testing.T) {
	query := "Abcde"
	ranked := []ScoredCandidate{scored(9, "Abfghijklm", "2027-05-01", 0.40, 0)}
	if sim := Similarity(NormalizeStrict(query), NormalizeStrict(ranked[0].Title)); sim >= 0.85 {
		t.Fatalf("fixture similarity too high: %v", sim)
	}
	d := decide(ranked, query, 1, DefaultThresholds())
	if d.Kind == DecisionAccepted {
		t.Fatal("single future dissimilar candidate must not be auto-accepted")
	}
	if d.Reason != ReasonSingleResultGateFail {
		t.Fatalf("unexpected reason %s", d.Reason)
	}
}

func TestDecideSingleResultAcceptsRegardlessOfScore(t *testing.T) {
	ranked := []ScoredCandidate{scored(9, "Amélie", "2001-04-25", 0.10, 0)}
	d := decide(ranked, "Amelie", 1, DefaultThresholds())
	if d.Kind != DecisionAccepted || d.Reason != ReasonSingleResult {
		t.Fatalf("expected single result acceptance, got %v (%s)", d.Kind, d.Reason)
	}
}

func TestDecideGateRejectsFutureRelease(t *testing.T) {
	ranked := []ScoredCandidate{
		scored(1, "Avatar", "2028-12-18", 0.95, 9000),
		scored(2, "Avatar", "2009-12-15", 0.40, 30000),
	}
	d := decide(ranked, "Avatar", 2, DefaultThresholds())
	if d.Kind != DecisionNeedsManualChoice || d.Reason != ReasonConsistencyGateFailed {
		t.Fatalf("expected gate failure, got %v (%s)", d.Kind, d.Reason)
	}
}

func TestDecideGateRejectsDissimilarTitle(t *testing.T) {
	ranked := []ScoredCandidate{
		scored(1, "Interstellar", "2014-11-05", 0.95, 9000),
		scored(2, "Inception", "2010-07-15", 0.40, 30000),
	}
	d := decide(ranked, "Inception", 2, DefaultThresholds())
	if d.Kind != DecisionNeedsManualChoice || d.Reason != ReasonConsistencyGateFailed {
		t.Fatalf("expected gate failure, got %v (%s)", d.Kind, d.Reason)
	}
}

func TestDecideGateIgnoresMalformedReleaseDate(t *testing.T) {
	ranked := []ScoredCandidate{
		scored(1, "Inception", "soon", 0.95, 9000),
		scored(2, "Heat", "", 0.10, 0),
	}
	d := decide(ranked, "Inception", 2, DefaultThresholds())
	if d.Kind != DecisionAccepted {
		t.Fatalf("malformed date should count as absent, got %v (%s)", d.Kind, d.Reason)
	}
}

func TestDecidePermissiveSkipsGate(t *testing.T) {
	th := DefaultThresholds()
	th.DisableConsistencyGate = true
	ranked := []ScoredCandidate{
		scored(1, "Interstellar", "2014-11-05", 0.95, 9000),
		scored(2, "Inception", "2010-07-15", 0.40, 30000),
	}
	d := decide(ranked, "Inception", 2, th)
	if d.Kind != DecisionAccepted {
		t.Fatalf("permissive policy should accept, got %v (%s)", d.Kind, d.Reason)
	}
}

func TestDecideZeroNowUsesClock(t *testing.T) {
	ranked := []ScoredCandidate{scored(1, "Inception", "2010-07-15", 0.1, 0)}
	d := Decide(ranked, "Inception", DecideOptions{ResultCount: 1, Thresholds: DefaultThresholds()})
	if d.Kind != DecisionAccepted {
		t.Fatalf("expected acceptance with wall clock, got %v (%s)", d.Kind, d.Reason)
	}
}

func TestExplicitDecision(t *testing.T) {
	d := ExplicitDecision([]ScoredCandidate{scored(1, "Heat", "", 1, 0)})
	if d.Kind != DecisionNeedsExplicitIdentifier || d.Reason != ReasonExplicitRequested || len(d.Ranked) != 1 {
		t.Fatalf("unexpected explicit decision %+v", d)
	}
}
