package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxLabelNameLength bounds Label.Name.
const MaxLabelNameLength = 100

// Label is an owner-defined tag for direct movements, e.g. "Groceries".
// Names are unique per owner.
type Label struct {
	ID        string
	OwnerID   string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeLabelName trims name and checks it.
func NormalizeLabelName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name cannot be empty", ErrInvalidLabelName)
	}
	if len(name) > MaxLabelNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", ErrInvalidLabelName, MaxLabelNameLength)
	}
	return name, nil
}

// LabelPayload builds the event payload for a label.
func LabelPayload(l *Label) map[string]any {
	return map[string]any{
		"label_id": l.ID,
		"name":     l.Name,
	}
}
