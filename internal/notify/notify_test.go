package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"hireflow/internal/hiring"
	"hireflow/internal/pipeline"
)

func testCandidate() *hiring.Candidate {
	return &hiring.Candidate{ID: "C1", Name: "Ada Example", Email: "ada@example.com"}
}

func TestComposeInterviewInviteEmbedsLink(t *testing.T) {
	link := "https://hire.example.com/interview/abc123"
	msg, ok := Compose(testCandidate(), pipeline.NoticeInterviewInvite, link)
	if !ok {
		t.Fatalf("expected a message")
	}
	if msg.To != "ada@example.com" {
		t.Fatalf("unexpected recipient %q", msg.To)
	}
	if !strings.Contains(msg.Body, link) {
		t.Fatalf("expected body to contain interview link")
	}
	if !strings.Contains(msg.Body, "Ada Example") {
		t.Fatalf("expected body to address candidate by name")
	}
}

func TestComposePerNotice(t *testing.T) {
	for _, notice := range []pipeline.Notice{
		pipeline.NoticeRejection,
		pipeline.NoticeUnderReview,
		pipeline.NoticeHRInvite,
	} {
		msg, ok := Compose(testCandidate(), notice, "")
		if !ok || msg.Subject == "" || msg.Body == "" {
			t.Fatalf("expected complete message for %q, got %+v", notice, msg)
		}
	}
}

func TestComposeSkipsWhenNothingToSend(t *testing.T) {
	if _, ok := Compose(testCandidate(), pipeline.NoticeNone, ""); ok {
		t.Fatalf("expected no message for empty notice")
	}
	noEmail := &hiring.Candidate{ID: "C2", Name: "No Email"}
	if _, ok := Compose(noEmail, pipeline.NoticeRejection, ""); ok {
		t.Fatalf("expected no message without an email address")
	}
}

type failingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (f *failingNotifier) Send(_ context.Context, _ Message) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return errors.New("smtp down")
}

func TestDispatchSwallowsDeliveryFailure(t *testing.T) {
	n := &failingNotifier{}
	Dispatch(n, zap.NewNop(), Message{To: "ada@example.com", Subject: "x"})

	deadline := time.Now().Add(time.Second)
	for {
		n.mu.Lock()
		calls := n.calls
		n.mu.Unlock()
		if calls == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected delivery attempted, got %d calls", calls)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSMTPConfigEnabled(t *testing.T) {
	if (SMTPConfig{}).Enabled() {
		t.Fatalf("empty config must be disabled")
	}
	if !(SMTPConfig{Host: "smtp.example.com", From: "jobs@example.com"}).Enabled() {
		t.Fatalf("host+from must enable smtp")
	}
}

func TestNewSMTPResolvesPasswordFile(t *testing.T) {
	t.Setenv("SMTP_PASSWORD", "")

	path := filepath.Join(t.TempDir(), "smtp-password")
	if err := os.WriteFile(path, []byte("s3cret\n"), 0o600); err != nil {
		t.Fatalf("write password file: %v", err)
	}

	s := NewSMTP(SMTPConfig{
		Host:         "smtp.example.com",
		From:         "jobs@example.com",
		PasswordFile: path,
	})
	if s.dialer.Password != "s3cret" {
		t.Fatalf("expected password read from file, got %q", s.dialer.Password)
	}

	inline := NewSMTP(SMTPConfig{
		Host:     "smtp.example.com",
		From:     "jobs@example.com",
		Password: "inline",
	})
	if inline.dialer.Password != "inline" {
		t.Fatalf("expected inline password kept, got %q", inline.dialer.Password)
	}
}
