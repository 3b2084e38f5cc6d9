package domain

import (
	"errors"
	"strings"
	"time"
)

// Status tracks how far an admin has taken a contact message. Unlike order
// and registration statuses there is no transition table: any status can be
// set from any other.
type Status string

const (
	StatusNew     Status = "new"
	StatusUnread  Status = "unread"
	StatusRead    Status = "read"
	StatusReplied Status = "replied"
	StatusClosed  Status = "closed"
)

var validStatuses = map[Status]struct{}{
	StatusNew:     {},
	StatusUnread:  {},
	StatusRead:    {},
	StatusReplied: {},
	StatusClosed:  {},
}

// IsValidStatus reports whether s is a known message status.
func IsValidStatus(s Status) bool {
	_, ok := validStatuses[s]
	return ok
}

// Message is a contact-form submission handled by the back office.
type Message struct {
	ID         string
	Name       string
	Email      string
	Subject    string
	Body       string
	Status     Status
	AdminNotes string
	AssignedTo string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

var (
	ErrInvalidEmail = errors.New("message email is invalid")
	ErrEmptyBody    = errors.New("message body is empty")
	ErrInvalidState = errors.New("message status is invalid")
)

// Validate checks the message invariants.
func (m *Message) Validate() error {
	if !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(m.Body) == "" {
		return ErrEmptyBody
	}
	if !IsValidStatus(m.Status) {
		return ErrInvalidState
	}
	return nil
}
