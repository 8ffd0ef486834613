package domain

import (
	"errors"
	"strings"
)

// Common validation errors for Person
var (
	ErrInvalidPersonID     = errors.New("person id must be positive")
	ErrEmptyPersonLastName = errors.New("person last name cannot be empty")
	ErrStartBeforeBirth    = errors.New("person start date cannot precede date of birth")
)

// Person property names, as clients use them in $filter, $orderby and $select.
const (
	PersonPID       = "pid"
	PersonFirstName = "firstName"
	PersonLastName  = "lastName"
	PersonDOB       = "dob"
	PersonStartDate = "startDate"
)

// PersonProperties lists every property of a Person in response order.
var PersonProperties = []string{
	PersonPID,
	PersonFirstName,
	PersonLastName,
	PersonDOB,
	PersonStartDate,
}

// Person is a member of staff, the collection the query API serves.
type Person struct {
	PID       int64  `json:"pid"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	DOB       Date   `json:"dob"`
	StartDate Date   `json:"startDate"`
}

// Validate checks if the Person has valid data.
func (p *Person) Validate() error {
	if p.PID <= 0 {
		return ErrInvalidPersonID
	}
	if strings.TrimSpace(p.LastName) == "" {
		return ErrEmptyPersonLastName
	}
	if !p.DOB.IsZero() && !p.StartDate.IsZero() && p.StartDate.Before(p.DOB.Time) {
		return ErrStartBeforeBirth
	}
	return nil
}

// Property returns the value of the named property, and false for an
// unknown name.
func (p *Person) Property(name string) (any, bool) {
	switch name {
	case PersonPID:
		return p.PID, true
	case PersonFirstName:
		return p.FirstName, true
	case PersonLastName:
		return p.LastName, true
	case PersonDOB:
		return p.DOB, true
	case PersonStartDate:
		return p.StartDate, true
	}
	return nil, false
}
