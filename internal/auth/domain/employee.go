package domain

import "time"

// Employee is the credential record resolved at login and validate time. The
// record store owns it; this service only reads.
type Employee struct {
	ID        string // ULID
	Code      string // unique login identifier, e.g. "E100"
	Name      string
	Region    string
	PinHash   string // argon2id PHC encoded
	CreatedAt time.Time
	UpdatedAt time.Time
}
