package model

import (
	"encoding/json"
	"time"
)

// Quiz is a student- or teacher-authored question set. Content holds the
// questions as JSON ([]QuizQuestion); shared quizzes are readable by everyone.
type Quiz struct {
	UUIDBase
	CreatorID   uint            `gorm:"index;not null" json:"creatorId"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Content     json.RawMessage `gorm:"type:json" json:"content"`
	IsShared    bool            `gorm:"default:false" json:"isShared"`
	ShareLink   *string         `gorm:"size:255" json:"shareLink,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   *string  `json:"explanation,omitempty"`
}

// QuizResult is one graded attempt. Answers maps question IDs to the chosen
// option index.
type QuizResult struct {
	UUIDBase
	QuizID         string          `gorm:"size:36;index;not null" json:"quizId"`
	UserID         uint            `gorm:"index;not null" json:"userId"`
	Score          int             `gorm:"not null" json:"score"`
	TotalQuestions int             `gorm:"not null" json:"totalQuestions"`
	Answers        json.RawMessage `gorm:"type:json" json:"answers"`
	CompletedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP(3)" json:"completedAt"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
