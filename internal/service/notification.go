package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"sharespot-backend/internal/domain"
	"sharespot-backend/internal/repository"
)

type notificationService struct {
	userRepo repository.UserRepository
	host     string
	port     int
	username string
	password string
	from     string
}

func NewNotificationService(userRepo repository.UserRepository, host string, port int, username, password, from string) NotificationService {
	return &notificationService{
		userRepo: userRepo,
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *notificationService) NotifyBookingExpired(ctx context.Context, b *domain.Booking, reason domain.ReasonType) error {
	taker, err := s.userRepo.GetByID(ctx, b.TakerID)
	if err != nil {
		return fmt.Errorf("load taker %d: %w", b.TakerID, err)
	}

	var detail string
	switch reason {
	case domain.ReasonNoAction:
		detail = "no action was taken on it in time"
	case domain.ReasonNoValidation:
		detail = "it was never validated after acceptance"
	case domain.ReasonNoPayment:
		detail = "the payment was never completed"
	default:
		detail = "it could not be completed in time"
	}

	subject := fmt.Sprintf("Your booking #%d has expired", b.ID)
	body := fmt.Sprintf("Hello %s,\n\nYour booking #%d has been cancelled because %s. Any authorized payment will be released back to you automatically.\n\nBest regards,\nThe Sharespot Team",
		taker.Name, b.ID, detail)
	return s.send(taker.Email, subject, body)
}

func (s *notificationService) NotifyBookingCancelled(ctx context.Context, b *domain.Booking, c *domain.Cancellation) error {
	taker, err := s.userRepo.GetByID(ctx, b.TakerID)
	if err != nil {
		return fmt.Errorf("load taker %d: %w", b.TakerID, err)
	}

	subject := fmt.Sprintf("Your booking #%d has been cancelled", b.ID)
	body := fmt.Sprintf("Hello %s,\n\nYour booking #%d has been cancelled (reason: %s).", taker.Name, b.ID, c.ReasonType)
	if c.ReasonType.Reversible() && b.PaidDate != nil {
		body += "\n\nYour payment will be refunded automatically."
	}
	body += "\n\nBest regards,\nThe Sharespot Team"
	return s.send(taker.Email, subject, body)
}

func (s *notificationService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}
