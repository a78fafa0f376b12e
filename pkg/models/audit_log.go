package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded across the system.
const (
	AuditActionCreate       = "create"
	AuditActionUpdate       = "update"
	AuditActionDelete       = "delete"
	AuditActionRestore      = "restore"
	AuditActionUpdateLevel  = "update_level"
	AuditActionUploadDocs   = "upload_skill_documents"
	AuditActionVoidDoc      = "void_skill_document"
	AuditActionHardDelete   = "hard_delete_skill_document"
	AuditActionLogin        = "login"
	AuditActionLogout       = "logout"
)

// Audit modules.
const (
	AuditModuleEmployees      = "employees"
	AuditModuleSkills         = "skills"
	AuditModuleAreas          = "areas"
	AuditModuleOperations     = "operations"
	AuditModuleEmployeeSkills = "employee_skills"
	AuditModuleSkillDocuments = "employee_skill_documents"
	AuditModuleAuth           = "auth"
)

// AuditLogEntry is an immutable, append-only record of a state-changing
// action. ActorName is denormalized at write time so history stays
// meaningful after the actor is renamed or removed. No update or delete
// path exists for this entity.
type AuditLogEntry struct {
	ID          uuid.UUID `json:"id"`
	ActorID     int64     `json:"actor_id"`
	ActorName   string    `json:"actor_name"`
	Action      string    `json:"action"`
	Module      string    `json:"module"`
	Description string    `json:"description"`
	IP          string    `json:"ip"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditLogFilter narrows audit queries. Zero values mean "no filter".
// From/Until are inclusive; date-only values are expanded by the service
// to the start and end of the day.
type AuditLogFilter struct {
	Module  string
	ActorID int64
	Action  string
	From    time.Time
	Until   time.Time
	Search  string
	Limit   int
}
