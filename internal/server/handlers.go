package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hireflow/internal/hiring"
	"hireflow/internal/interview"
)

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req hiring.JobRequirements
	if !s.decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		s.respond(w, http.StatusBadRequest, errorBody{Error: "title is required"})
		return
	}
	if err := s.funnel.RegisterJob(&req); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, req)
}

type applicationRequest struct {
	JobID     string           `json:"job_id"`
	Candidate hiring.Candidate `json:"candidate"`
}

type applicationResponse struct {
	CandidateID   string   `json:"candidate_id"`
	Status        string   `json:"status"`
	Priority      string   `json:"priority"`
	MatchScore    float64  `json:"match_score"`
	MissingSkills []string `json:"missing_skills,omitempty"`
	InterviewLink string   `json:"interview_link,omitempty"`
}

func (s *Server) handleApplication(w http.ResponseWriter, r *http.Request) {
	var req applicationRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Candidate.Name == "" || req.Candidate.Email == "" {
		s.respond(w, http.StatusBadRequest, errorBody{Error: "candidate name and email are required"})
		return
	}

	job, err := s.funnel.Job(req.JobID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	result, err := s.funnel.ProcessApplication(r.Context(), &req.Candidate, job)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusCreated, applicationResponse{
		CandidateID:   result.Candidate.ID,
		Status:        string(result.Candidate.Status),
		Priority:      string(result.Candidate.Priority),
		MatchScore:    result.Candidate.MatchScore,
		MissingSkills: result.Candidate.MissingSkills,
		InterviewLink: result.InterviewLink,
	})
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	var (
		candidates []*hiring.Candidate
		err        error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		candidates, err = s.candidates.ListByStatus(hiring.Status(status))
	} else {
		candidates, err = s.candidates.List()
	}
	if err != nil {
		s.respondError(w, err)
		return
	}
	if candidates == nil {
		candidates = []*hiring.Candidate{}
	}
	s.respond(w, http.StatusOK, candidates)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	c, err := s.candidates.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, c)
}

// sessionView is the candidate-facing session shape. Evaluations and the
// summary are for reviewers and never leave the server through this view.
type sessionView struct {
	SessionID     string                `json:"session_id"`
	CandidateName string                `json:"candidate_name"`
	JobTitle      string                `json:"job_title"`
	Status        interview.Status      `json:"status"`
	Questions     interview.QuestionSet `json:"questions"`
	AnsweredIDs   []string              `json:"answered_question_ids"`
	CodingDone    bool                  `json:"coding_submitted"`
	ExpiresAt     time.Time             `json:"expires_at"`
}

func newSessionView(sess *interview.Session) sessionView {
	answered := make([]string, 0, len(sess.Responses))
	for qid := range sess.Responses {
		answered = append(answered, qid)
	}
	return sessionView{
		SessionID:     sess.SessionID,
		CandidateName: sess.CandidateName,
		JobTitle:      sess.JobTitle,
		Status:        sess.Status,
		Questions:     sess.Questions,
		AnsweredIDs:   answered,
		CodingDone:    sess.Coding != nil,
		ExpiresAt:     sess.ExpiresAt,
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.interviews.Get(chi.URLParam(r, "token"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, newSessionView(sess))
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.interviews.Start(chi.URLParam(r, "token"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, newSessionView(sess))
}

type responseRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

func (s *Server) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	var req responseRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.QuestionID == "" {
		s.respond(w, http.StatusBadRequest, errorBody{Error: "question_id is required"})
		return
	}

	sess, err := s.interviews.SubmitResponse(chi.URLParam(r, "token"), req.QuestionID, req.Answer)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, newSessionView(sess))
}

type codingRequest struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
}

type codingResponse struct {
	sessionView
	Verdict *interview.CodingVerdict `json:"verdict"`
}

func (s *Server) handleSubmitCoding(w http.ResponseWriter, r *http.Request) {
	var req codingRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Code == "" {
		s.respond(w, http.StatusBadRequest, errorBody{Error: "code is required"})
		return
	}

	sess, err := s.interviews.SubmitCoding(r.Context(), chi.URLParam(r, "token"), req.Code, req.Language)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, codingResponse{
		sessionView: newSessionView(sess),
		Verdict:     sess.Coding.Verdict,
	})
}

type completionResponse struct {
	SessionID      string  `json:"session_id"`
	Status         string  `json:"status"`
	OverallScore   float64 `json:"overall_score"`
	Recommendation string  `json:"recommendation"`
	NextStage      string  `json:"next_stage"`
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.funnel.CompleteInterview(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, completionResponse{
		SessionID:      outcome.Session.SessionID,
		Status:         string(outcome.Session.Status),
		OverallScore:   outcome.Session.Summary.OverallScore,
		Recommendation: outcome.Session.Summary.Recommendation,
		NextStage:      string(outcome.Decision.Status),
	})
}
