package models

import (
	"time"

	"github.com/google/uuid"
)

// SkillDocument is an uploaded evidence file supporting a specific level
// assertion for one employee-skill record. Voiding (soft delete) keeps the
// row and file; hard delete removes both.
type SkillDocument struct {
	ID               uuid.UUID  `json:"id"`
	EmployeeSkillID  int64      `json:"employee_skill_id"`
	EmployeeID       int64      `json:"employee_id"`
	SkillID          int64      `json:"skill_id"`
	Level            int        `json:"level"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"original_filename"`
	Path             string     `json:"path"`
	UploadedBy       int64      `json:"uploaded_by"`
	UploadedAt       time.Time  `json:"uploaded_at"`
	IsDeleted        bool       `json:"is_deleted,omitempty"`
	DeletedBy        *int64     `json:"deleted_by,omitempty"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
}

// SkillDocumentItem is a document enriched with actor display names,
// resolved at read time (soft-deleted users included).
type SkillDocumentItem struct {
	SkillDocument
	UploadedByName string  `json:"uploaded_by_name"`
	DeletedByName  *string `json:"deleted_by_name,omitempty"`
}

// SkillDocumentGroup presents all evidence for one certification event:
// documents sharing (employee_skill_id, skill_id, level) form one group.
type SkillDocumentGroup struct {
	EmployeeSkillID int64               `json:"employee_skill_id"`
	SkillID         int64               `json:"skill_id"`
	SkillName       string              `json:"skill_name"`
	Level           int                 `json:"level"`
	Items           []SkillDocumentItem `json:"items"`
}
