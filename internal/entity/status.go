package entity

import (
	"errors"
	"strings"
)

var ErrInvalidStatus = errors.New("invalid status")

// Status is the workflow state of a lead. Any status may follow any other.
type Status string

const (
	StatusNew       Status = "New"
	StatusContacted Status = "Contacted"
	StatusQualified Status = "Qualified"
	StatusLost      Status = "Lost"
	StatusWon       Status = "Won"
)

var statuses = []Status{StatusNew, StatusContacted, StatusQualified, StatusLost, StatusWon}

// Statuses returns the closed status enumeration in display order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

func (s Status) Valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus accepts only the exact enumeration values. Surrounding spaces are ignored.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
