// Package notify drafts candidate emails with a language model and sends them
// over a mail transport.
package notify

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/recruiter/internal/ai"
	"github.com/spigell/recruiter/internal/apperr"
	"github.com/spigell/recruiter/internal/sanitize"
)

// Subject is used for every outbound candidate email.
const Subject = "Update on your job application"

var emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)

// Message is a drafted email ready for delivery.
type Message struct {
	Kind        string
	From        string
	To          string
	Subject     string
	Body        string
	Instruction string
	// FallbackRecipient is set when no address was found in the instruction
	// and the message is addressed to the sender instead.
	FallbackRecipient bool
}

// Transport delivers a message over an authenticated mail channel.
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}

type Notifier struct {
	completer ai.Completer
	transport Transport
	sender    string
	logger    *zap.Logger
}

func New(completer ai.Completer, transport Transport, sender string, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		completer: completer,
		transport: transport,
		sender:    strings.TrimSpace(sender),
		logger:    logger,
	}
}

// Recipient returns the first email-shaped substring of the instruction, or
// the sender address when there is none.
func (n *Notifier) Recipient(instruction string) (string, bool) {
	if match := emailPattern.FindString(instruction); match != "" {
		return match, false
	}
	return n.sender, true
}

// Draft asks the model to write the email body without sending anything.
func (n *Notifier) Draft(ctx context.Context, req Request) (*Message, error) {
	if req == nil {
		return nil, errors.New("notification request is required")
	}

	instruction := req.Instruction()
	body, err := n.completer.Complete(ctx, ai.UserPrompt(instruction))
	if err != nil {
		return nil, fmt.Errorf("draft %s email: %w", req.Kind(), err)
	}

	to, fallback := n.Recipient(instruction)
	if fallback {
		n.logger.Warn("no recipient address in notification instruction, addressing the sender",
			zap.String("kind", req.Kind()),
			zap.String("recipient", to),
		)
	}

	return &Message{
		Kind:              req.Kind(),
		From:              n.sender,
		To:                to,
		Subject:           Subject,
		Body:              sanitize.Clean(body),
		Instruction:       instruction,
		FallbackRecipient: fallback,
	}, nil
}

// Deliver sends a drafted message. Transport errors are not retried.
func (n *Notifier) Deliver(ctx context.Context, msg *Message) error {
	if msg == nil {
		return errors.New("message is required")
	}
	if n.transport == nil {
		return apperr.New(apperr.KindDeliveryFailed, "deliver", "mail transport is not configured", nil)
	}

	if err := n.transport.Send(ctx, msg); err != nil {
		n.logger.Error("sending email failed",
			zap.String("kind", msg.Kind),
			zap.String("to", msg.To),
			zap.Error(err),
		)
		return apperr.New(apperr.KindDeliveryFailed, "deliver", fmt.Sprintf("send %s email to %s", msg.Kind, msg.To), err)
	}

	n.logger.Info("email sent",
		zap.String("kind", msg.Kind),
		zap.String("to", msg.To),
	)
	return nil
}

// Notify drafts and delivers in one step.
func (n *Notifier) Notify(ctx context.Context, req Request) (*Message, error) {
	msg, err := n.Draft(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := n.Deliver(ctx, msg); err != nil {
		return msg, err
	}
	return msg, nil
}
