package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendDonationClaimed(toEmail, donorName, foodName, charityName, pickupTime string) error
	SendDonationReceived(toEmail, donorName, foodName, charityName string) error
	SendAccountVerified(toEmail, name string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderName, frontendURL string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		frontendURL: frontendURL,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, toEmail, err)
	}
	return nil
}

func (s *emailService) SendDonationClaimed(toEmail, donorName, foodName, charityName, pickupTime string) error {
	pickup := ""
	if pickupTime != "" {
		pickup = fmt.Sprintf("<p>Planned pickup: <strong>%s</strong></p>", html.EscapeString(pickupTime))
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your donation was claimed</h2>
			<p>Hi %s,</p>
			<p><strong>%s</strong> has claimed your donation of <strong>%s</strong>.</p>
			%s
			<p><a href="%s/donations/my">View your donations</a></p>
		</div>
	`, html.EscapeString(donorName), html.EscapeString(charityName), html.EscapeString(foodName), pickup, s.frontendURL)

	return s.send(toEmail, "Your donation has been claimed", body)
}

func (s *emailService) SendDonationReceived(toEmail, donorName, foodName, charityName string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Donation received</h2>
			<p>Hi %s,</p>
			<p><strong>%s</strong> confirmed receipt of <strong>%s</strong>. Thank you for reducing food waste!</p>
		</div>
	`, html.EscapeString(donorName), html.EscapeString(charityName), html.EscapeString(foodName))

	return s.send(toEmail, "Your donation was received", body)
}

func (s *emailService) SendAccountVerified(toEmail, name string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your account is verified</h2>
			<p>Hi %s,</p>
			<p>An administrator verified your account. You now have full access.</p>
			<p><a href="%s/login">Sign in</a></p>
		</div>
	`, html.EscapeString(name), s.frontendURL)

	return s.send(toEmail, "Your account has been verified", body)
}

// NopEmailService drops every message. Used when SMTP is not configured.
type NopEmailService struct{}

func (NopEmailService) SendDonationClaimed(string, string, string, string, string) error { return nil }
func (NopEmailService) SendDonationReceived(string, string, string, string) error        { return nil }
func (NopEmailService) SendAccountVerified(string, string) error                         { return nil }
