package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendExamReport(toEmail, traineeName string, pass bool, totalScore int, reportURL string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendExamReport(toEmail, traineeName string, pass bool, totalScore int, reportURL string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Exam Session Result")

	verdict := "FAIL"
	color := "#D32F2F"
	if pass {
		verdict = "PASS"
		color = "#4CAF50"
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Exam result for %s</h2>
			<h1 style="color: %s;">%s — %d/100</h1>
			<p>The full evaluation report is available here:</p>
			<p><a href="%s">%s</a></p>
		</div>
	`, traineeName, color, verdict, totalScore, reportURL, reportURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send exam report to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Exam report sent to %s\n", toEmail)
	return nil
}
