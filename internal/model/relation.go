package model

import "time"

// ParentStudentRelation grants a parent read access to one student's data.
type ParentStudentRelation struct {
	BaseModel
	ParentID  uint `gorm:"not null;uniqueIndex:idx_parent_student" json:"parentId"`
	StudentID uint `gorm:"not null;uniqueIndex:idx_parent_student" json:"studentId"`
}

func (ParentStudentRelation) TableName() string {
	return "parent_student_relations"
}

// StudentLinkingCode is a short-lived single-use code a student hands to a
// parent to establish a relation without sharing account credentials.
type StudentLinkingCode struct {
	UUIDBase
	StudentID          uint       `gorm:"not null;index" json:"studentId"`
	Code               string     `gorm:"size:8;uniqueIndex;not null" json:"code"`
	InstitutionalEmail *string    `gorm:"size:100" json:"institutionalEmail,omitempty"`
	ClassroomEmail     *string    `gorm:"size:100" json:"classroomEmail,omitempty"`
	IsUsed             bool       `gorm:"default:false" json:"isUsed"`
	ExpiresAt          time.Time  `gorm:"not null" json:"expiresAt"`
	UsedAt             *time.Time `json:"usedAt,omitempty"`
	UsedBy             *uint      `json:"usedBy,omitempty"`
}

func (StudentLinkingCode) TableName() string {
	return "student_linking_codes"
}
