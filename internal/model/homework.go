package model

import "encoding/json"

// HomeworkReview is a piece of work a student submits for review. AIFeedback
// is written by an out-of-process review pipeline; Grade and TeacherFeedback
// by a teacher.
type HomeworkReview struct {
	UUIDBase
	StudentID        uint            `gorm:"index;not null" json:"studentId"`
	Title            string          `gorm:"size:255;not null" json:"title"`
	Content          string          `gorm:"type:text;not null" json:"content"`
	ContextDocuments json.RawMessage `gorm:"type:json" json:"contextDocuments,omitempty"`
	AIFeedback       json.RawMessage `gorm:"type:json" json:"aiFeedback,omitempty"`
	Grade            *string         `gorm:"size:16" json:"grade,omitempty"`
	TeacherFeedback  *string         `gorm:"type:text" json:"teacherFeedback,omitempty"`
}

func (HomeworkReview) TableName() string {
	return "homework_reviews"
}
