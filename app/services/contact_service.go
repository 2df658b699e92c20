package services

import (
	"context"
	"strings"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/events"
	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/app/repositories"
	"github.com/chiquebutik/butik/pkg/event"
	"github.com/chiquebutik/butik/pkg/validate"
)

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ContactService struct {
	contacts *repositories.ContactRepository
	events   *event.Bus
}

func NewContactService(contacts *repositories.ContactRepository, bus *event.Bus) *ContactService {
	return &ContactService{contacts: contacts, events: bus}
}

// Submit stores a contact form message and schedules the owner and
// customer emails. Mail delivery never fails the submission.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*models.ContactMessage, error) {
	msg := models.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Subject == "" || msg.Message == "" {
		return nil, errs.E(errs.InvalidArgument, "Alla fält är obligatoriska")
	}
	if validate.Var(msg.Email, "email") != nil {
		return nil, errs.E(errs.InvalidArgument, "Ogiltig email-adress")
	}

	if err := s.contacts.CreateMessage(ctx, &msg); err != nil {
		return nil, errs.Wrap(errs.Internal, err, "could not store message")
	}

	s.events.Fire(ctx, events.ContactReceived, events.ContactReceivedPayload{MessageID: msg.ID})
	return &msg, nil
}

func (s *ContactService) Info(ctx context.Context) (*models.ContactInfo, error) {
	return s.contacts.LatestInfo(ctx)
}
