package models

import "time"

// Employee is a tracked worker. The tombstone timestamp is retained and
// returned on list endpoints so audits can see removed employees.
type Employee struct {
	ID           int64      `json:"id"`
	EmployeeCode string     `json:"employee_code"`
	FullName     string     `json:"full_name"`
	HireDate     time.Time  `json:"hire_date"`
	PhotoURL     *string    `json:"photo_url,omitempty"`
	ShiftID      int64      `json:"shift_id"`
	PositionID   int64      `json:"position_id"`
	AreaID       int64      `json:"area_id"`
	ClassID      int64      `json:"class_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// EmployeeDetail is an employee with referenced names resolved.
type EmployeeDetail struct {
	Employee
	ShiftName    string `json:"shift_name"`
	PositionName string `json:"position_name"`
	AreaName     string `json:"area_name"`
	ClassName    string `json:"class_name"`
}

// EmployeeInput carries the writable employee fields.
type EmployeeInput struct {
	EmployeeCode string    `json:"employee_code"`
	FullName     string    `json:"full_name"`
	HireDate     time.Time `json:"hire_date"`
	PhotoURL     *string   `json:"photo_url,omitempty"`
	ShiftID      int64     `json:"shift_id"`
	PositionID   int64     `json:"position_id"`
	AreaID       int64     `json:"area_id"`
	ClassID      int64     `json:"class_id"`
}

// User is an operator account that performs mutations. Soft-deleted users
// are still resolvable for audit display.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Role         string     `json:"role"`
	PasswordHash string     `json:"-"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// DisplayName returns the short "First Last" form used when denormalizing
// actor names into documents and audit entries.
func (u *User) DisplayName() string {
	name := firstWord(u.FirstName)
	if last := firstWord(u.LastName); last != "" {
		if name != "" {
			name += " "
		}
		name += last
	}
	if name == "" {
		return u.Username
	}
	return name
}

func firstWord(s string) string {
	start := 0
	for start < len(s) && s[start] == ' ' {
		start++
	}
	end := start
	for end < len(s) && s[end] != ' ' {
		end++
	}
	return s[start:end]
}
