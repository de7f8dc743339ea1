// Package notify delivers candidate-facing messages for funnel decisions.
// Delivery is fire-and-forget: a dead mail server must never fail the
// decision that triggered the message.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hireflow/internal/hiring"
	"hireflow/internal/pipeline"
)

// Message is one outbound candidate notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Notifier delivers a message to a candidate.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Compose builds the message for a funnel decision. The second return is
// false when the decision carries no candidate-facing message.
func Compose(c *hiring.Candidate, notice pipeline.Notice, link string) (Message, bool) {
	if c.Email == "" || notice == pipeline.NoticeNone {
		return Message{}, false
	}

	switch notice {
	case pipeline.NoticeInterviewInvite:
		return Message{
			To:      c.Email,
			Subject: "Interview Invitation - Next Steps",
			Body: fmt.Sprintf(
				"Hi %s,\n\nCongratulations! Your application has been shortlisted.\n\n"+
					"Please complete your interview using the link below. The link is valid for 7 days.\n\n%s\n\n"+
					"Best regards,\nThe Hiring Team",
				c.Name, link),
		}, true
	case pipeline.NoticeHRInvite:
		return Message{
			To:      c.Email,
			Subject: "Great News - HR Interview Scheduled",
			Body: fmt.Sprintf(
				"Hi %s,\n\nYou passed the technical interview round. Our HR team will reach out "+
					"shortly to schedule the final conversation.\n\nBest regards,\nThe Hiring Team",
				c.Name),
		}, true
	case pipeline.NoticeUnderReview:
		return Message{
			To:      c.Email,
			Subject: "Application Received - Under Review",
			Body: fmt.Sprintf(
				"Hi %s,\n\nThank you for applying. Your application is being reviewed by our team "+
					"and we will get back to you soon.\n\nBest regards,\nThe Hiring Team",
				c.Name),
		}, true
	case pipeline.NoticeRejection:
		return Message{
			To:      c.Email,
			Subject: "Update on Your Application",
			Body: fmt.Sprintf(
				"Hi %s,\n\nThank you for your interest and the time you invested. After careful "+
					"consideration we have decided not to move forward at this time.\n\n"+
					"We encourage you to apply for future openings.\n\nBest regards,\nThe Hiring Team",
				c.Name),
		}, true
	default:
		return Message{}, false
	}
}

// Log is a Notifier that only records the message. It is the default for
// deployments without SMTP configured.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Send(_ context.Context, msg Message) error {
	l.Logger.Info("notification (not delivered, smtp disabled)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

// Dispatch sends the message on a background goroutine and logs delivery
// failures. Decisions never wait on delivery.
func Dispatch(n Notifier, log *zap.Logger, msg Message) {
	go func() {
		if err := n.Send(context.Background(), msg); err != nil {
			log.Warn("notification delivery failed",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}()
}
