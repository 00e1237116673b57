package model

import "time"

type EventType string

const (
	EventQuiz     EventType = "quiz"
	EventHomework EventType = "homework"
	EventExam     EventType = "exam"
	EventReminder EventType = "reminder"
	EventOther    EventType = "other"
)

// CalendarEvent is a personal schedule entry; events are only ever visible to
// the user who created them.
type CalendarEvent struct {
	UUIDBase
	UserID      uint       `gorm:"index;not null" json:"userId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	EventType   EventType  `gorm:"size:16;default:'other'" json:"eventType"`
	StartDate   time.Time  `gorm:"index;not null" json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	IsCompleted bool       `gorm:"default:false" json:"isCompleted"`
}

func (CalendarEvent) TableName() string {
	return "calendar_events"
}
