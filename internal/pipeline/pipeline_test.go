package pipeline

import (
	"errors"
	"testing"

	"hireflow/internal/hiring"
	"hireflow/internal/interview"
)

func TestDecideApplicationBands(t *testing.T) {
	th := DefaultThresholds()

	cases := []struct {
		score   float64
		status  hiring.Status
		notice  Notice
		flagged bool
	}{
		{90, hiring.StatusShortlisted, NoticeInterviewInvite, false},
		{75, hiring.StatusShortlisted, NoticeInterviewInvite, false},
		{74.9, hiring.StatusApplied, NoticeUnderReview, true},
		{50, hiring.StatusApplied, NoticeUnderReview, true},
		{49.9, hiring.StatusRejected, NoticeRejection, false},
		{0, hiring.StatusRejected, NoticeRejection, false},
	}
	for _, tc := range cases {
		d := DecideApplication(tc.score, th)
		if d.Status != tc.status || d.Notice != tc.notice || d.Flagged != tc.flagged {
			t.Fatalf("DecideApplication(%f) = %+v, want status=%s notice=%s flagged=%v",
				tc.score, d, tc.status, tc.notice, tc.flagged)
		}
		if d.Reason == "" {
			t.Fatalf("DecideApplication(%f) has empty reason", tc.score)
		}
	}
}

func TestDecideApplicationCustomThresholds(t *testing.T) {
	th := Thresholds{AutoReject: 30, Shortlist: 60, HRQualify: 80}

	if d := DecideApplication(65, th); d.Status != hiring.StatusShortlisted {
		t.Fatalf("expected shortlist at 65 with threshold 60, got %s", d.Status)
	}
	if d := DecideApplication(40, th); d.Status != hiring.StatusApplied || !d.Flagged {
		t.Fatalf("expected review band at 40, got %+v", d)
	}
}

func TestDecideInterview(t *testing.T) {
	th := DefaultThresholds()

	if d := DecideInterview(&interview.PhaseSummary{OverallScore: 82}, th); d.Status != hiring.StatusHRInterviewScheduled || d.Notice != NoticeHRInvite {
		t.Fatalf("expected HR round at 82, got %+v", d)
	}

	d := DecideInterview(&interview.PhaseSummary{OverallScore: 79.9}, th)
	if d.Status != hiring.StatusRejected {
		t.Fatalf("expected rejection below threshold, got %+v", d)
	}
	if d.Reason != "interview score below HR threshold" {
		t.Fatalf("unexpected reason: %q", d.Reason)
	}
	if d.Flagged {
		t.Fatalf("expected unflagged decision without fallback evaluations, got %+v", d)
	}
}

func TestDecideInterviewFlagsFallbackSummaries(t *testing.T) {
	th := DefaultThresholds()

	d := DecideInterview(&interview.PhaseSummary{OverallScore: 85, FallbackCount: 2}, th)
	if d.Status != hiring.StatusHRInterviewScheduled || !d.Flagged {
		t.Fatalf("expected flagged HR decision, got %+v", d)
	}

	d = DecideInterview(&interview.PhaseSummary{OverallScore: 40, FallbackCount: 1}, th)
	if d.Status != hiring.StatusRejected || !d.Flagged {
		t.Fatalf("expected flagged rejection, got %+v", d)
	}
}

func TestCanTransition(t *testing.T) {
	legal := [][2]hiring.Status{
		{hiring.StatusApplied, hiring.StatusShortlisted},
		{hiring.StatusShortlisted, hiring.StatusInterviewPending},
		{hiring.StatusInterviewPending, hiring.StatusInterviewCompleted},
		{hiring.StatusInterviewCompleted, hiring.StatusHRInterviewScheduled},
		{hiring.StatusHRInterviewScheduled, hiring.StatusOfferSent},
		{hiring.StatusOfferSent, hiring.StatusOfferAccepted},
		{hiring.StatusOfferAccepted, hiring.StatusOnboarding},
		{hiring.StatusApplied, hiring.StatusRejected},
		{hiring.StatusInterviewCompleted, hiring.StatusRejected},
		{hiring.StatusApplied, hiring.StatusApplied},
	}
	for _, pair := range legal {
		if !CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s legal", pair[0], pair[1])
		}
	}

	illegal := [][2]hiring.Status{
		{hiring.StatusApplied, hiring.StatusOfferSent},
		{hiring.StatusShortlisted, hiring.StatusApplied},
		{hiring.StatusRejected, hiring.StatusApplied},
		{hiring.StatusRejected, hiring.StatusRejected},
		{hiring.StatusOnboarding, hiring.StatusRejected},
		{hiring.StatusInterviewCompleted, hiring.StatusInterviewPending},
	}
	for _, pair := range illegal {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s illegal", pair[0], pair[1])
		}
	}
}

func TestAdvanceRejectsIllegalMove(t *testing.T) {
	c := &hiring.Candidate{ID: "C1", Status: hiring.StatusApplied, StatusReason: "initial"}

	err := Advance(c, hiring.StatusOfferSent, "skip ahead")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if c.Status != hiring.StatusApplied || c.StatusReason != "initial" {
		t.Fatalf("expected candidate untouched, got %+v", c)
	}

	if err := Advance(c, hiring.StatusShortlisted, "manual shortlist"); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if c.Status != hiring.StatusShortlisted || c.StatusReason != "manual shortlist" {
		t.Fatalf("expected advanced candidate, got %+v", c)
	}
}

func TestApplyMutatesCandidate(t *testing.T) {
	th := DefaultThresholds()
	c := &hiring.Candidate{ID: "C1", Status: hiring.StatusApplied, MatchScore: 81}

	d := Apply(c, th)
	if c.Status != hiring.StatusShortlisted || d.Notice != NoticeInterviewInvite {
		t.Fatalf("expected shortlist, got %+v / %+v", c, d)
	}

	mid := &hiring.Candidate{ID: "C2", Status: hiring.StatusApplied, MatchScore: 60}
	Apply(mid, th)
	if mid.Status != hiring.StatusApplied || !mid.ReviewFlagged {
		t.Fatalf("expected flagged mid-band candidate, got %+v", mid)
	}
}
