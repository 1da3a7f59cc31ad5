// Package model contains the record and row types passed between layers.
package model

import "time"

// PersonRecord is one person as read from an input source.
type PersonRecord struct {
	ID   int    `json:"ID"`
	Name string `json:"Name"`
	Age  int    `json:"Age"`
}

// Person is a normalized person. The original fields are kept untouched;
// NameKey and AgeKey are working aliases used for joins and sorts.
type Person struct {
	ID   int
	Name string
	Age  int

	NameKey     string
	AgeKey      int
	FirstName   string
	LastName    string
	HasLastName bool // false when Name has no space
}

// ContactRecord is one contact event as read from an input source.
// Timestamps stay in wire form until the contact filter parses them.
type ContactRecord struct {
	Member1ID int    `json:"Member1_ID"`
	Member2ID int    `json:"Member2_ID"`
	From      string `json:"From"`
	To        string `json:"To"`
}

// Contact is a deduplicated contact with parsed timestamps.
type Contact struct {
	Record   ContactRecord
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

// Role names the side of a contact a participant was on.
type Role string

const (
	RoleInitiator Role = "initiator"
	RoleReceiver  Role = "receiver"
)

// DualRoleRow is one contact attributed to one of its participants.
type DualRoleRow struct {
	Role     Role
	Person   Person
	Start    time.Time
	End      time.Time
	Duration time.Duration
}
