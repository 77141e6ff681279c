package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	CellID   ID
	ReflexID ID
	ReactID  ID
)

// String conversions for domain IDs
func (id CellID) String() string   { return ID(id).String() }
func (id ReflexID) String() string { return ID(id).String() }
func (id ReactID) String() string  { return ID(id).String() }

// ParseCellID parses a string into CellID
func ParseCellID(s string) (CellID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("cell ID cannot be empty")
	}
	return CellID(s), nil
}

// ParseReflexID parses a string into ReflexID
func ParseReflexID(s string) (ReflexID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("reflex verdict ID cannot be empty")
	}
	return ReflexID(s), nil
}

// ParseReactID parses a string into ReactID
func ParseReactID(s string) (ReactID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("react verdict ID cannot be empty")
	}
	return ReactID(s), nil
}
