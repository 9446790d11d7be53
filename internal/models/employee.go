package models

import "time"

// Employment status values. The compliance autopilot only ever looks at
// active employees; the rest exist for the directory endpoints.
const (
	EmploymentActive     = "active"
	EmploymentInactive   = "inactive"
	EmploymentTerminated = "terminated"
)

// Employee represents an employee record in the database.
// The autopilot treats this as a read-only view: it never writes back.
type Employee struct {
	ID               string     `json:"id"`
	TenantID         string     `json:"tenantId"`
	EmployeeNo       string     `json:"employeeNo"`
	FullNameEn       string     `json:"fullNameEn"`
	FullNameAr       string     `json:"fullNameAr"`
	JobTitle         *string    `json:"jobTitle,omitempty"`
	IqamaExpiry      *time.Time `json:"iqamaExpiry,omitempty"`
	IsSaudi          bool       `json:"isSaudi"`
	EmploymentStatus string     `json:"employmentStatus"` // active, inactive, terminated
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Tenant is an isolated customer account on the platform. Display names are
// carried in both languages because generated letters embed them.
type Tenant struct {
	ID     string `json:"id"`
	NameEn string `json:"nameEn"`
	NameAr string `json:"nameAr"`
	IsDemo bool   `json:"isDemo"`
}
