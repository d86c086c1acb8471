package contact

import (
	"context"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
	"github.com/angelmondragon/jhumka-storefront/pkg/metrics"
	"github.com/angelmondragon/jhumka-storefront/pkg/validation"
	"github.com/go-playground/validator/v10"
)

const formName = "contact"

var validate = validation.New()

// Message is a contact form submission.
type Message struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email_shape"`
	Message string `json:"message" validate:"required"`
}

func (m Message) Normalize() Message {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Message = strings.TrimSpace(m.Message)
	return m
}

func (m Message) Validate() error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}
	details, ok := validation.FieldErrors(err, messageFor)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "contact form is invalid")
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "contact form is invalid").WithDetails(details)
}

func messageFor(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		return "Name is required."
	case "email":
		if fe.Tag() == "required" {
			return "Email is required."
		}
		return "Email is invalid."
	case "message":
		return "Message is required."
	}
	return "This field is required"
}

// Acknowledgement confirms a message was received.
type Acknowledgement struct {
	ReceivedAt time.Time `json:"received_at"`
	Message    string    `json:"message"`
}

type Service struct {
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
	now     func() time.Time
}

func NewService(logg *logger.Logger, m *metrics.StorefrontMetrics) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{logg: logg, metrics: m, now: time.Now}
}

// Submit validates and logs the message. Nothing is sent or stored.
func (s *Service) Submit(ctx context.Context, msg Message) (Acknowledgement, error) {
	msg = msg.Normalize()
	if err := msg.Validate(); err != nil {
		s.metrics.ObserveSubmission(formName, err)
		return Acknowledgement{}, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"contact_name":    msg.Name,
		"contact_email":   msg.Email,
		"contact_message": msg.Message,
	}), "contact.message_received")
	s.metrics.ObserveSubmission(formName, nil)
	return Acknowledgement{
		ReceivedAt: s.now().UTC(),
		Message:    "Your message has been sent successfully. We'll get back to you soon.",
	}, nil
}
