package model

import "time"

// Message is a direct message between two platform users.
type Message struct {
	UUIDBase
	SenderID   uint       `gorm:"index;not null" json:"senderId"`
	ReceiverID uint       `gorm:"index;not null" json:"receiverId"`
	Subject    *string    `gorm:"size:255" json:"subject,omitempty"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageWithNames carries both parties' display names, joined at query time.
type MessageWithNames struct {
	Message
	SenderName   string `gorm:"column:sender_name" json:"senderName"`
	ReceiverName string `gorm:"column:receiver_name" json:"receiverName"`
}
