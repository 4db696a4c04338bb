package model

import "time"

// Workspace is the tenant boundary. Every credential belongs to exactly one
// workspace, and a credential is only usable from within it.
type Workspace struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
