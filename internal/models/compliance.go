package models

import "time"

// Task priorities, ordered from least to most pressing.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// RunStatusCompleted is the only status the autopilot records: failed runs
// abort before the audit insert, and dry runs are never persisted.
const RunStatusCompleted = "completed"

// LetterTypeIqamaRenewal is the only letter type the autopilot emits today.
const LetterTypeIqamaRenewal = "iqama_renewal"

// ComplianceSettings holds the per-tenant autopilot configuration.
// Created lazily with defaults on a tenant's first run, read-only afterwards
// as far as the autopilot is concerned (admins edit it elsewhere).
type ComplianceSettings struct {
	TenantID                   string  `json:"tenantId"`
	IqamaReminderDays          []int   `json:"iqamaReminderDays"`
	SaudizationGreenThreshold  float64 `json:"saudizationGreenThreshold"`
	SaudizationYellowThreshold float64 `json:"saudizationYellowThreshold"`
	LetterFooterEn             string  `json:"letterFooterEn"`
	LetterFooterAr             string  `json:"letterFooterAr"`
}

// DefaultComplianceSettings returns the settings seeded for a tenant that has
// never been configured: 60/30/7 day reminders and the standard Nitaqat
// 60%/40% color bands.
func DefaultComplianceSettings(tenantID string) *ComplianceSettings {
	return &ComplianceSettings{
		TenantID:                   tenantID,
		IqamaReminderDays:          []int{60, 30, 7},
		SaudizationGreenThreshold:  60,
		SaudizationYellowThreshold: 40,
		LetterFooterEn:             "This is an automated reminder generated by the HR compliance system.",
		LetterFooterAr:             "هذا تذكير آلي صادر عن نظام الامتثال للموارد البشرية.",
	}
}

// ComplianceTask is an actionable item written to the task tracker.
// Append-only: the autopilot creates tasks and never touches them again.
type ComplianceTask struct {
	ID          string         `json:"id"`
	TenantID    string         `json:"tenantId"`
	Module      string         `json:"module"` // always "compliance" for rows from the autopilot
	Title       string         `json:"title"`
	Description string         `json:"description"`
	DueAt       time.Time      `json:"dueAt"`
	Priority    string         `json:"priority"` // low, medium, high, urgent
	OwnerRole   string         `json:"ownerRole"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// ComplianceLetter records one generated letter and where it was stored.
type ComplianceLetter struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenantId"`
	EmployeeID  string    `json:"employeeId"`
	Type        string    `json:"type"`
	Lang        string    `json:"lang"` // "en" | "ar"
	ExpiryDate  time.Time `json:"expiryDate"`
	ReminderDay int       `json:"reminderDay"` // days-to-expiry at generation time
	StoragePath string    `json:"storagePath"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ComplianceRun is the audit record of one autopilot invocation.
type ComplianceRun struct {
	ID                    string    `json:"id"`
	TenantID              string    `json:"tenantId"`
	RunDate               time.Time `json:"runDate"`
	IqamaTasksCount       int       `json:"iqamaTasksCount"`
	SaudizationTasksCount int       `json:"saudizationTasksCount"`
	TotalEmployeesChecked int       `json:"totalEmployeesChecked"`
	Status                string    `json:"status"`
	Metadata              any       `json:"metadata"`
	CreatedAt             time.Time `json:"createdAt"`
}

// SaudizationSnapshot is one daily data point of a tenant's Saudization rate.
type SaudizationSnapshot struct {
	TenantID        string    `json:"tenantId"`
	SnapDate        time.Time `json:"snapDate"`
	SaudizationRate float64   `json:"saudizationRate"` // 0–100
}
