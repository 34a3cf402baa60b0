package models

import "time"

// WorkspaceValue is one persisted key of a browser session (token, role, language).
type WorkspaceValue struct {
	SessionID string    `gorm:"column:session_id;primaryKey;size:64"`
	Key       string    `gorm:"column:key;primaryKey;size:64"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime;index:workspace_values_updated_at_idx"`
}

func (WorkspaceValue) TableName() string {
	return "workspace_values"
}
