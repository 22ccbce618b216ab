package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	AnalysisCompleted AnalysisStatus = "completed"
)

// Analysis is the persisted record of one completed pipeline run. Only
// completed runs are stored; validation and extraction failures never
// write a row.
type Analysis struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobDescription    string         `gorm:"type:text" json:"job_description"`
	ResumeFilename    string         `gorm:"type:text" json:"resume_filename"`
	ResumeExcerpt     string         `gorm:"type:text" json:"resume_excerpt"`
	ResumeCharCount   int            `json:"resume_character_count"`
	SimilaritySummary string         `gorm:"type:text" json:"similarity_summary"`
	GapSummary        string         `gorm:"type:text" json:"gap_summary"`
	CombinedSummary   string         `gorm:"type:text" json:"combined_summary"`
	StageResults      string         `gorm:"type:jsonb" json:"-"`
	Status            AnalysisStatus `gorm:"not null;default:'completed'" json:"status"`
	CreatedAt         time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Analysis) TableName() string {
	return "analyses"
}
