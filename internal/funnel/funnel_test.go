package funnel

import (
	"context"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"hireflow/internal/hiring"
	"hireflow/internal/interview"
	"hireflow/internal/matching"
	"hireflow/internal/notify"
	"hireflow/internal/pipeline"
)

type memCandidates struct {
	byID map[string]*hiring.Candidate
}

func (m *memCandidates) Put(c *hiring.Candidate) error {
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *memCandidates) Get(id string) (*hiring.Candidate, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, interview.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCandidates) ListByStatus(status hiring.Status) ([]*hiring.Candidate, error) {
	var out []*hiring.Candidate
	for _, c := range m.byID {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

type memJobs struct {
	byID map[string]*hiring.JobRequirements
}

func (m *memJobs) Put(req *hiring.JobRequirements) error {
	m.byID[req.ID] = req
	return nil
}

func (m *memJobs) Get(id string) (*hiring.JobRequirements, error) {
	req, ok := m.byID[id]
	if !ok {
		return nil, interview.ErrNotFound
	}
	return req, nil
}

type memSessions struct {
	byToken map[string]*interview.Session
}

func (m *memSessions) Get(token string) (*interview.Session, error) {
	s, ok := m.byToken[token]
	if !ok {
		return nil, interview.ErrNotFound
	}
	return s, nil
}

func (m *memSessions) Put(s *interview.Session) error {
	m.byToken[s.Token] = s
	return nil
}

func (m *memSessions) All() ([]*interview.Session, error) {
	out := make([]*interview.Session, 0, len(m.byToken))
	for _, s := range m.byToken {
		out = append(out, s)
	}
	return out, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (r *recordingNotifier) Send(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	r.sent = append(r.sent, msg)
	r.mu.Unlock()
	return nil
}

type fixture struct {
	funnel     *Funnel
	candidates *memCandidates
	sessions   *memSessions
	notifier   *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()
	candidates := &memCandidates{byID: map[string]*hiring.Candidate{}}
	jobs := &memJobs{byID: map[string]*hiring.JobRequirements{}}
	sessions := &memSessions{byToken: map[string]*interview.Session{}}
	notifier := &recordingNotifier{}

	interviews := interview.NewService(sessions, nil, nil, log,
		interview.WithBaseURL("https://hire.example.com"))

	f := New(candidates, jobs, matching.New(nil, log), interviews, notifier,
		pipeline.DefaultThresholds(), log)
	return &fixture{funnel: f, candidates: candidates, sessions: sessions, notifier: notifier}
}

func strongCandidate() *hiring.Candidate {
	return &hiring.Candidate{
		Name:            "Ada Example",
		Email:           "ada@example.com",
		Skills:          []string{"Python", "SQL", "AWS"},
		ExperienceYears: 8,
		Education:       "Masters in Computer Science",
		CultureFitScore: 90,
		NoticePeriod:    15,
	}
}

func weakCandidate() *hiring.Candidate {
	return &hiring.Candidate{
		Name:            "Newbie Example",
		Email:           "newbie@example.com",
		Skills:          []string{"Excel"},
		ExperienceYears: 0,
		Education:       "High school",
		NoticePeriod:    90,
	}
}

func midCandidate() *hiring.Candidate {
	return &hiring.Candidate{
		Name:            "Mid Example",
		Email:           "mid@example.com",
		Skills:          []string{"Python", "SQL"},
		ExperienceYears: 2,
		Education:       "Bachelor of Science",
		NoticePeriod:    45,
	}
}

func backendJob() *hiring.JobRequirements {
	return &hiring.JobRequirements{
		ID:                 "JOB-1",
		Title:              "Backend Engineer",
		MustHave:           []string{"Python", "SQL", "AWS"},
		NiceToHave:         []string{"Docker"},
		ExperienceRequired: 3,
	}
}

func TestProcessApplicationShortlistsStrongCandidate(t *testing.T) {
	fx := newFixture(t)
	job := backendJob()
	if err := fx.funnel.RegisterJob(job); err != nil {
		t.Fatalf("RegisterJob: %v", err)
	}

	result, err := fx.funnel.ProcessApplication(context.Background(), strongCandidate(), job)
	if err != nil {
		t.Fatalf("ProcessApplication: %v", err)
	}

	c := result.Candidate
	if c.Status != hiring.StatusInterviewPending {
		t.Fatalf("expected InterviewPending, got %s", c.Status)
	}
	if c.Priority != hiring.PriorityHigh {
		t.Fatalf("expected High priority, got %s", c.Priority)
	}
	if result.InterviewLink == "" || !strings.HasPrefix(result.InterviewLink, "https://hire.example.com/interview/") {
		t.Fatalf("expected interview link, got %q", result.InterviewLink)
	}
	if len(fx.sessions.byToken) != 1 {
		t.Fatalf("expected one session created, got %d", len(fx.sessions.byToken))
	}

	stored, err := fx.candidates.Get(c.ID)
	if err != nil {
		t.Fatalf("candidate not persisted: %v", err)
	}
	if stored.Status != hiring.StatusInterviewPending {
		t.Fatalf("persisted status %s", stored.Status)
	}
}

func TestProcessApplicationRejectsWeakCandidate(t *testing.T) {
	fx := newFixture(t)
	job := backendJob()

	result, err := fx.funnel.ProcessApplication(context.Background(), weakCandidate(), job)
	if err != nil {
		t.Fatalf("ProcessApplication: %v", err)
	}

	if result.Candidate.Status != hiring.StatusRejected {
		t.Fatalf("expected Rejected, got %s", result.Candidate.Status)
	}
	if len(fx.sessions.byToken) != 0 {
		t.Fatalf("expected no session for rejected candidate")
	}
	if len(result.Match.MissingSkills) == 0 {
		t.Fatalf("expected missing skills recorded")
	}
}

func TestProcessApplicationFlagsMidBand(t *testing.T) {
	fx := newFixture(t)
	job := backendJob()

	result, err := fx.funnel.ProcessApplication(context.Background(), midCandidate(), job)
	if err != nil {
		t.Fatalf("ProcessApplication: %v", err)
	}

	if result.Candidate.Status != hiring.StatusApplied || !result.Candidate.ReviewFlagged {
		t.Fatalf("expected flagged Applied candidate, got %+v", result.Candidate)
	}
}

func TestPriorityFollowsConfiguredThresholds(t *testing.T) {
	log := zap.NewNop()
	candidates := &memCandidates{byID: map[string]*hiring.Candidate{}}
	jobs := &memJobs{byID: map[string]*hiring.JobRequirements{}}
	sessions := &memSessions{byToken: map[string]*interview.Session{}}
	interviews := interview.NewService(sessions, nil, nil, log)

	f := New(candidates, jobs, matching.New(nil, log), interviews, &recordingNotifier{},
		pipeline.Thresholds{AutoReject: 30, Shortlist: 50, HRQualify: 80}, log)

	result, err := f.ProcessApplication(context.Background(), midCandidate(), backendJob())
	if err != nil {
		t.Fatalf("ProcessApplication: %v", err)
	}

	// With the shortlist threshold lowered the same score must both
	// shortlist the candidate and label them High priority.
	if result.Candidate.Status != hiring.StatusInterviewPending {
		t.Fatalf("expected InterviewPending with lowered threshold, got %s", result.Candidate.Status)
	}
	if result.Candidate.Priority != hiring.PriorityHigh {
		t.Fatalf("expected priority to follow configured thresholds, got %s", result.Candidate.Priority)
	}
}

func TestProcessApplicationRequiresContactInfo(t *testing.T) {
	fx := newFixture(t)
	if _, err := fx.funnel.ProcessApplication(context.Background(), &hiring.Candidate{Name: "No Email"}, backendJob()); err == nil {
		t.Fatalf("expected error for candidate without email")
	}
}

func TestReviewApprovalSchedulesInterview(t *testing.T) {
	fx := newFixture(t)
	job := backendJob()
	if err := fx.funnel.RegisterJob(job); err != nil {
		t.Fatalf("RegisterJob: %v", err)
	}

	result, err := fx.funnel.ProcessApplication(context.Background(), midCandidate(), job)
	if err != nil {
		t.Fatalf("ProcessApplication: %v", err)
	}
	if result.Candidate.Status != hiring.StatusApplied {
		t.Fatalf("fixture candidate not in review band: %s", result.Candidate.Status)
	}

	approved, err := fx.funnel.Review(context.Background(), result.Candidate.ID, true)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if approved.Status != hiring.StatusInterviewPending {
		t.Fatalf("expected InterviewPending after approval, got %s", approved.Status)
	}
	if approved.ReviewFlagged {
		t.Fatalf("expected review flag cleared")
	}
	if len(fx.sessions.byToken) != 1 {
		t.Fatalf("expected session created on approval")
	}
}

func TestReviewDenialRejects(t *testing.T) {
	fx := newFixture(t)
	job := backendJob()
	if err := fx.funnel.RegisterJob(job); err != nil {
		t.Fatalf("RegisterJob: %v", err)
	}

	result, err := fx.funnel.ProcessApplication(context.Background(), midCandidate(), job)
	if err != nil {
		t.Fatalf("ProcessApplication: %v", err)
	}

	rejected, err := fx.funnel.Review(context.Background(), result.Candidate.ID, false)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if rejected.Status != hiring.StatusRejected {
		t.Fatalf("expected Rejected after denial, got %s", rejected.Status)
	}

	if _, err := fx.funnel.Review(context.Background(), result.Candidate.ID, true); err == nil {
		t.Fatalf("expected error reviewing a decided candidate")
	}
}

func TestCompleteInterviewDecidesCandidate(t *testing.T) {
	fx := newFixture(t)
	job := backendJob()
	if err := fx.funnel.RegisterJob(job); err != nil {
		t.Fatalf("RegisterJob: %v", err)
	}

	result, err := fx.funnel.ProcessApplication(context.Background(), strongCandidate(), job)
	if err != nil {
		t.Fatalf("ProcessApplication: %v", err)
	}

	var token string
	for tok := range fx.sessions.byToken {
		token = tok
	}

	outcome, err := fx.funnel.CompleteInterview(context.Background(), token)
	if err != nil {
		t.Fatalf("CompleteInterview: %v", err)
	}
	if outcome.Session.Status != interview.StatusCompleted {
		t.Fatalf("expected completed session")
	}

	c, err := fx.candidates.Get(result.Candidate.ID)
	if err != nil {
		t.Fatalf("Get candidate: %v", err)
	}
	if c.InterviewScores == nil {
		t.Fatalf("expected interview scores on candidate")
	}
	// No answers were submitted, so the reasoning-free summary scores zero
	// and the candidate is rejected below the HR threshold.
	if c.Status != hiring.StatusRejected {
		t.Fatalf("expected Rejected, got %s", c.Status)
	}
	if c.StatusReason != "interview score below HR threshold" {
		t.Fatalf("unexpected reason %q", c.StatusReason)
	}
}

func TestCompleteInterviewIdempotent(t *testing.T) {
	fx := newFixture(t)
	job := backendJob()
	if _, err := fx.funnel.ProcessApplication(context.Background(), strongCandidate(), job); err != nil {
		t.Fatalf("ProcessApplication: %v", err)
	}

	var token string
	for tok := range fx.sessions.byToken {
		token = tok
	}

	first, err := fx.funnel.CompleteInterview(context.Background(), token)
	if err != nil {
		t.Fatalf("CompleteInterview: %v", err)
	}
	second, err := fx.funnel.CompleteInterview(context.Background(), token)
	if err != nil {
		t.Fatalf("second CompleteInterview: %v", err)
	}
	if second.Session.Summary.OverallScore != first.Session.Summary.OverallScore {
		t.Fatalf("expected stable summary across repeat completion")
	}
	if second.Decision.Status != first.Decision.Status {
		t.Fatalf("expected stable decision across repeat completion")
	}
}

func TestRegisterJobAssignsID(t *testing.T) {
	fx := newFixture(t)
	req := &hiring.JobRequirements{Title: "Data Engineer", MustHave: []string{"SQL"}}
	if err := fx.funnel.RegisterJob(req); err != nil {
		t.Fatalf("RegisterJob: %v", err)
	}
	if !strings.HasPrefix(req.ID, "JOB-") || len(req.ID) != len("JOB-")+8 {
		t.Fatalf("unexpected job id %q", req.ID)
	}
	if err := fx.funnel.RegisterJob(&hiring.JobRequirements{}); err == nil {
		t.Fatalf("expected error for job without title")
	}
}
