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
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
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
	ExperimentID ID
	EntryID      ID
)

// String conversions for domain IDs
func (id ExperimentID) String() string { return ID(id).String() }
func (id EntryID) String() string      { return ID(id).String() }

// NewExperimentID creates a new unique experiment identifier
func NewExperimentID() ExperimentID { return ExperimentID(NewID()) }

// NewEntryID creates a new unique entry identifier
func NewEntryID() EntryID { return EntryID(NewID()) }

// ParseExperimentID parses a string into ExperimentID
func ParseExperimentID(s string) (ExperimentID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("experiment ID cannot be empty")
	}
	return ExperimentID(s), nil
}

// ParseEntryID parses a string into EntryID
func ParseEntryID(s string) (EntryID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("entry ID cannot be empty")
	}
	return EntryID(s), nil
}
