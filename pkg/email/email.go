// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"

	"automatehub_backend/pkg/retry"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
	policy    retry.Policy
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type WelcomeEmailData struct {
	Name string
}

type OrderConfirmationData struct {
	Name            string
	OrderID         string
	AutomationCount int
	OrderTotal      string
}

type SubscriptionEmailData struct {
	Name            string
	AutomationLimit int
	PeriodEnd       time.Time
	IsRenewal       bool
}

type SubscriptionCancelledData struct {
	Name      string
	PeriodEnd time.Time
}

type SubscriptionExpiryWarningData struct {
	Name       string
	DaysLeft   int
	ExpiryDate time.Time
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "AutomateHub <noreply@automatehub.io>",
		templates: templates,
		policy:    retry.Policy{MaxAttempts: 3, Backoff: retry.ExponentialBackoff(time.Second)},
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	// Email is a side path; bounded retries, then the caller just logs.
	return s.policy.Do(func() error {
		return s.postEmail(jsonData, to)
	})
}

func (s *EmailService) postEmail(jsonData []byte, to string) error {
	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	log.Printf("Email sent to %s", to)
	return nil
}

// Email sending methods
func (s *EmailService) SendWelcomeEmail(email, name string) error {
	data := WelcomeEmailData{
		Name: name,
	}
	return s.sendTemplateEmail(email, "Welcome to AutomateHub! 🎉", "welcome.html", data)
}

func (s *EmailService) SendOrderConfirmationEmail(email, name, orderID string, automationCount int, orderTotal string) error {
	data := OrderConfirmationData{
		Name:            name,
		OrderID:         orderID,
		AutomationCount: automationCount,
		OrderTotal:      orderTotal,
	}
	return s.sendTemplateEmail(email, "We've Received Your Order 📦", "order_confirmation.html", data)
}

func (s *EmailService) SendSubscriptionStartedEmail(email, name string, automationLimit int, periodEnd time.Time, isRenewal bool) error {
	data := SubscriptionEmailData{
		Name:            name,
		AutomationLimit: automationLimit,
		PeriodEnd:       periodEnd,
		IsRenewal:       isRenewal,
	}

	subject := "Your AutomateHub Subscription Is Live! 🎉"
	if isRenewal {
		subject = "Your AutomateHub Subscription Has Been Renewed 🔄"
	}

	return s.sendTemplateEmail(email, subject, "subscription_started.html", data)
}

func (s *EmailService) SendSubscriptionCancelledEmail(email, name string, periodEnd time.Time) error {
	data := SubscriptionCancelledData{
		Name:      name,
		PeriodEnd: periodEnd,
	}
	return s.sendTemplateEmail(email, "Your Subscription Has Been Cancelled", "subscription_cancelled.html", data)
}

func (s *EmailService) SendSubscriptionExpiryWarning(email, name string, expiryDate time.Time, daysLeft int) error {
	data := SubscriptionExpiryWarningData{
		Name:       name,
		DaysLeft:   daysLeft,
		ExpiryDate: expiryDate,
	}
	return s.sendTemplateEmail(
		email,
		fmt.Sprintf("Your Subscription Renews in %d Days ⚠️", daysLeft),
		"subscription_expiry_warning.html",
		data,
	)
}
