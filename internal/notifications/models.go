package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeBookingConfirmed  NotificationType = "BOOKING_CONFIRMED"
	NotificationTypeOwnerBookingAdded NotificationType = "OWNER_BOOKING_ADDED"
	NotificationTypeHostRequestStatus NotificationType = "HOST_REQUEST_STATUS"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// EmailNotification is the message that travels through Kafka to the email
// workers. TemplateData carries the per-type fields the templates render.
type EmailNotification struct {
	ID             uuid.UUID              `json:"id"`
	Type           NotificationType       `json:"type"`
	RecipientEmail string                 `json:"recipient_email"`
	Subject        string                 `json:"subject"`
	TemplateData   map[string]interface{} `json:"template_data"`

	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	MaxRetries int                `json:"max_retries"`
	LastError  *string            `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

func NewEmailNotification(notType NotificationType, recipientEmail, subject string, data map[string]interface{}) *EmailNotification {
	if data == nil {
		data = map[string]interface{}{}
	}
	return &EmailNotification{
		ID:             uuid.New(),
		Type:           notType,
		RecipientEmail: recipientEmail,
		Subject:        subject,
		TemplateData:   data,
		Status:         NotificationStatusPending,
		MaxRetries:     3,
		CreatedAt:      time.Now(),
	}
}

func (n *EmailNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func FromJSON(data []byte) (*EmailNotification, error) {
	var n EmailNotification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// PartitionKey keeps all mail for one recipient on one partition so retries
// and follow-ups stay ordered.
func (n *EmailNotification) PartitionKey() string {
	return n.RecipientEmail
}
