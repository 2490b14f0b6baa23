package models

import "time"

// Message is a contact message left through the public form.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Sender      string    `gorm:"not null" json:"sender"`
	SenderEmail string    `gorm:"not null;index" json:"sender_email"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
	Timestamp   time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}
