package models

import "time"

// Area is an organizational unit. Operations belong to areas, and employees
// are assigned to exactly one area.
type Area struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	SupervisorID *int64     `json:"supervisor_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Operation is a unit of work within an area. Critical operations mark
// their skills as mandatory for training-coverage reporting.
type Operation struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	AreaID     int64      `json:"area_id"`
	IsCritical bool       `json:"is_critical"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// Skill is a certifiable ability tied to one operation.
type Skill struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	OperationID int64      `json:"operation_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// SkillDetail is a skill with its operation and area resolved by explicit
// joins. Read endpoints return this instead of making clients chase IDs.
type SkillDetail struct {
	Skill
	OperationName string `json:"operation_name"`
	IsCritical    bool   `json:"is_critical"`
	AreaID        int64  `json:"area_id"`
	AreaName      string `json:"area_name"`
}
