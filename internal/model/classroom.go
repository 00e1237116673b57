package model

import "time"

// The classroom_* tables are a local mirror of the external classroom
// provider, populated by an out-of-process sync worker. This service only
// reads them; record IDs are the provider's own.

type ClassroomCredential struct {
	UUIDBase
	UserID       uint      `gorm:"uniqueIndex;not null" json:"userId"`
	AccessToken  string    `gorm:"size:2048;not null" json:"-"`
	RefreshToken string    `gorm:"size:2048" json:"-"`
	Scope        string    `gorm:"size:512" json:"scope"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func (ClassroomCredential) TableName() string {
	return "classroom_credentials"
}

type ClassroomCourse struct {
	ID            string     `gorm:"primaryKey;size:64" json:"id"`
	StudentID     uint       `gorm:"index;not null" json:"studentId"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	Section       *string    `gorm:"size:255" json:"section,omitempty"`
	Room          *string    `gorm:"size:100" json:"room,omitempty"`
	CourseState   *string    `gorm:"size:32" json:"courseState,omitempty"`
	AlternateLink *string    `gorm:"size:512" json:"alternateLink,omitempty"`
	SyncedAt      *time.Time `json:"syncedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (ClassroomCourse) TableName() string {
	return "classroom_courses"
}

type ClassroomCoursework struct {
	ID            string     `gorm:"primaryKey;size:64" json:"id"`
	CourseID      string     `gorm:"size:64;index;not null" json:"courseId"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Description   *string    `gorm:"type:text" json:"description,omitempty"`
	WorkType      *string    `gorm:"size:32" json:"workType,omitempty"`
	DueDate       *time.Time `gorm:"index" json:"dueDate,omitempty"`
	MaxPoints     *float64   `json:"maxPoints,omitempty"`
	AlternateLink *string    `gorm:"size:512" json:"alternateLink,omitempty"`
	SyncedAt      *time.Time `json:"syncedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (ClassroomCoursework) TableName() string {
	return "classroom_coursework"
}

// SubmissionState is the provider's closed state set.
type SubmissionState string

const (
	SubmissionNew       SubmissionState = "NEW"
	SubmissionCreated   SubmissionState = "CREATED"
	SubmissionTurnedIn  SubmissionState = "TURNED_IN"
	SubmissionReturned  SubmissionState = "RETURNED"
	SubmissionReclaimed SubmissionState = "RECLAIMED_BY_STUDENT"
)

// Completed means the work was handed in or handed back.
func (s SubmissionState) Completed() bool {
	return s == SubmissionTurnedIn || s == SubmissionReturned
}

// Pending means the student has not submitted yet.
func (s SubmissionState) Pending() bool {
	return s == SubmissionNew || s == SubmissionCreated
}

type ClassroomSubmission struct {
	ID            string          `gorm:"primaryKey;size:64" json:"id"`
	CourseworkID  string          `gorm:"size:64;index;not null" json:"courseworkId"`
	StudentID     uint            `gorm:"index;not null" json:"studentId"`
	State         SubmissionState `gorm:"size:32" json:"state"`
	Late          bool            `gorm:"default:false" json:"late"`
	DraftGrade    *float64        `json:"draftGrade,omitempty"`
	AssignedGrade *float64        `json:"assignedGrade,omitempty"`
	UpdateTime    *time.Time      `json:"updateTime,omitempty"`
	SyncedAt      *time.Time      `json:"syncedAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (ClassroomSubmission) TableName() string {
	return "classroom_submissions"
}

// CourseworkWithCourse carries the parent course's display fields alongside
// the coursework row, joined at query time.
type CourseworkWithCourse struct {
	ClassroomCoursework
	CourseName    string  `gorm:"column:course_name" json:"courseName"`
	CourseSection *string `gorm:"column:course_section" json:"courseSection,omitempty"`
}

// SubmissionWithCoursework carries the parent coursework's display fields
// alongside the submission row, joined at query time.
type SubmissionWithCoursework struct {
	ClassroomSubmission
	CourseworkTitle     string     `gorm:"column:coursework_title" json:"courseworkTitle"`
	CourseworkDueDate   *time.Time `gorm:"column:coursework_due_date" json:"courseworkDueDate,omitempty"`
	CourseworkMaxPoints *float64   `gorm:"column:coursework_max_points" json:"courseworkMaxPoints,omitempty"`
	CourseID            string     `gorm:"column:course_id" json:"courseId"`
}

type SyncStatus string

const (
	SyncStarted   SyncStatus = "started"
	SyncCompleted SyncStatus = "completed"
	SyncFailed    SyncStatus = "failed"
)

// SyncLog records one run of the out-of-scope mirror synchronization worker.
type SyncLog struct {
	UUIDBase
	UserID           uint       `gorm:"index;not null" json:"userId"`
	SyncType         string     `gorm:"size:32;not null" json:"syncType"`
	Status           SyncStatus `gorm:"size:16;default:'started'" json:"status"`
	RecordsProcessed int        `gorm:"default:0" json:"recordsProcessed"`
	ErrorMessage     *string    `gorm:"type:text" json:"errorMessage,omitempty"`
	StartedAt        time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

func (SyncLog) TableName() string {
	return "sync_logs"
}
