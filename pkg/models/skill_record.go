package models

import "time"

// Skill level bounds and the reporting convention for "certified".
const (
	MinLevel       = 0
	MaxLevel       = 4
	CertifiedLevel = 2
)

// ValidLevel reports whether level is within the allowed range.
func ValidLevel(level int) bool {
	return level >= MinLevel && level <= MaxLevel
}

// EmployeeSkill is the authoritative certification state for one
// (employee, skill) pair. Uniqueness on the pair is enforced by the schema.
// Level changes on an existing record move by exactly one step per update.
type EmployeeSkill struct {
	ID         int64      `json:"id"`
	EmployeeID int64      `json:"employee_id"`
	SkillID    int64      `json:"skill_id"`
	Level      int        `json:"level"`
	UpdatedBy  int64      `json:"updated_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// Certified reports whether the record meets the reporting convention.
func (es *EmployeeSkill) Certified() bool {
	return es.Level >= CertifiedLevel
}

// EmployeeSkillView is a record joined with its skill and parent operation.
type EmployeeSkillView struct {
	EmployeeSkill
	SkillName     string `json:"skill_name"`
	OperationID   int64  `json:"operation_id"`
	OperationName string `json:"operation_name"`
	IsCritical    bool   `json:"is_critical"`
}

// AreaSkillRow is one row of the per-area training matrix: a record joined
// with employee identity plus shift and class context.
type AreaSkillRow struct {
	EmployeeSkillView
	EmployeeName string `json:"employee_name"`
	EmployeeCode string `json:"employee_code"`
	ShiftID      int64  `json:"shift_id"`
	ShiftName    string `json:"shift_name"`
	ClassID      int64  `json:"class_id"`
	ClassName    string `json:"class_name"`
}
