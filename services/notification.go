package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"fintrack-backend/config"
	"fintrack-backend/models"
)

type NotificationService struct{}

// The service is stateless, so a single instance is shared; handlers
// call it from goroutines.
var notifService = &NotificationService{}

func GetNotificationService() *NotificationService {
	return notifService
}

// ============================================================
// PUSH NOTIFICATIONS via FCM
// ============================================================

type FCMMessage struct {
	To           string            `json:"to"`
	Notification FCMNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type FCMNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound"`
}

func (ns *NotificationService) sendPush(fcmToken string, title string, body string, data map[string]string) {
	if fcmToken == "" || config.AppConfig.FCMServerKey == "" {
		return
	}

	msg := FCMMessage{
		To: fcmToken,
		Notification: FCMNotification{
			Title: title,
			Body:  body,
			Sound: "default",
		},
		Data: data,
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		log.Printf("❌ FCM marshal error: %v", err)
		return
	}

	req, err := http.NewRequest("POST", "https://fcm.googleapis.com/fcm/send", bytes.NewBuffer(jsonData))
	if err != nil {
		log.Printf("❌ FCM request error: %v", err)
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+config.AppConfig.FCMServerKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("❌ FCM send error: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		log.Printf("⚠️  FCM returned status: %d", resp.StatusCode)
	}
}

// ============================================================
// EMAIL NOTIFICATIONS via SendGrid
// ============================================================

type SendGridEmail struct {
	Personalizations []SGPersonalization `json:"personalizations"`
	From             SGEmail             `json:"from"`
	Subject          string              `json:"subject"`
	Content          []SGContent         `json:"content"`
}

type SGPersonalization struct {
	To []SGEmail `json:"to"`
}

type SGEmail struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type SGContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (ns *NotificationService) sendEmail(toEmail string, toName string, subject string, htmlBody string) {
	if config.AppConfig.SendGridAPIKey == "" {
		log.Printf("⚠️  SendGrid API key not set, skipping email to %s", toEmail)
		return
	}

	email := SendGridEmail{
		Personalizations: []SGPersonalization{
			{
				To: []SGEmail{{Email: toEmail, Name: toName}},
			},
		},
		From:    SGEmail{Email: config.AppConfig.SendGridFrom, Name: config.AppConfig.AppName},
		Subject: subject,
		Content: []SGContent{
			{Type: "text/html", Value: htmlBody},
		},
	}

	jsonData, err := json.Marshal(email)
	if err != nil {
		log.Printf("❌ Email marshal error: %v", err)
		return
	}

	req, err := http.NewRequest("POST", "https://api.sendgrid.com/v3/mail/send", bytes.NewBuffer(jsonData))
	if err != nil {
		log.Printf("❌ Email request error: %v", err)
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+config.AppConfig.SendGridAPIKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("❌ Email send error: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("⚠️  SendGrid returned status: %d", resp.StatusCode)
	}
}

// ============================================================
// NOTIFICATION EVENTS
// ============================================================

// NotifyOverdueDebts reminds the lender about a borrower's overdue debts.
// Fired best-effort from a goroutine when a ledger read surfaces them.
func (ns *NotificationService) NotifyOverdueDebts(user models.User, borrower models.Borrower, overdue []models.Debt) {
	if len(overdue) == 0 {
		return
	}

	reasons := make([]string, 0, len(overdue))
	for _, d := range overdue {
		reasons = append(reasons, fmt.Sprintf("%q (%s lent on %s)", d.Reason, d.Principal.StringFixed(2), d.Date.Format("2 Jan 2006")))
	}

	title := fmt.Sprintf("%s has overdue debts", borrower.Name)
	body := fmt.Sprintf("%d debt(s) past due: %s", len(overdue), strings.Join(reasons, ", "))

	ns.sendPush(user.FCMToken, title, body, map[string]string{
		"type":        "debt_overdue",
		"borrower_id": borrower.ID.String(),
	})

	htmlBody := fmt.Sprintf(
		"<h2>Overdue reminder</h2><p>Hi %s,</p><p>%s still owes you on:</p><ul><li>%s</li></ul>",
		user.Name, borrower.Name, strings.Join(reasons, "</li><li>"))
	ns.sendEmail(user.Email, user.Name, title, htmlBody)
}
