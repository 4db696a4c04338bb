package rdb

import "time"

// WorkspaceRecord is the RDB persistence model for domain Workspace.
// Table name: workspaces
type WorkspaceRecord struct {
	ID        string    `gorm:"primaryKey;type:text;not null"`
	Name      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (WorkspaceRecord) TableName() string { return "workspaces" }

// CredentialRecord persistence model. Encrypted holds the sealed credential
// blob; plaintext never reaches this layer.
type CredentialRecord struct {
	ID          string    `gorm:"primaryKey;type:text;not null"`
	WorkspaceID string    `gorm:"type:text;not null;index"` // references Workspace
	Provider    string    `gorm:"type:text;not null"`
	Name        string    `gorm:"type:text;not null"`
	Encrypted   []byte    `gorm:"type:blob"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (CredentialRecord) TableName() string { return "credentials" }

// BulkOperationRecord persists terminal bulk operation summaries.
type BulkOperationRecord struct {
	ID           string    `gorm:"primaryKey;type:text;not null"`
	Kind         string    `gorm:"type:text;not null"`
	ResourceKind string    `gorm:"type:text;not null"`
	WorkspaceID  string    `gorm:"type:text;not null;index"`
	CredentialID string    `gorm:"type:text;not null"`
	Provider     string    `gorm:"type:text;not null"`
	Region       string    `gorm:"type:text;not null"`
	Status       string    `gorm:"type:text;not null"`
	Total        int       `gorm:"not null"`
	Completed    int       `gorm:"not null"`
	Failed       int       `gorm:"not null"`
	Cancelled    int       `gorm:"not null"`
	Failures     string    `gorm:"type:text"` // JSON encoded []model.TargetFailure
	StartedAt    time.Time `gorm:"not null"`
	FinishedAt   time.Time
}

func (BulkOperationRecord) TableName() string { return "bulk_operations" }
