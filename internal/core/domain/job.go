package domain

import (
	"errors"
	"time"
)

// JobStatus represents the lifecycle state of a job posting.
type JobStatus string

const (
	StatusOpen       JobStatus = "OPEN"
	StatusInProgress JobStatus = "IN_PROGRESS"
	StatusFinished   JobStatus = "FINISHED"
)

// PaymentType distinguishes recurring from one-off engagements.
type PaymentType string

const (
	PaymentWeekly PaymentType = "WEEKLY"
	PaymentOneOff PaymentType = "ONE_OFF"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[JobStatus][]JobStatus{
	StatusOpen:       {StatusInProgress},
	StatusInProgress: {StatusFinished},
}

var ErrInvalidTransition = errors.New("invalid job status transition")
var ErrJobNotFound = errors.New("job not found")
var ErrJobValidation = errors.New("job title and a valid payment type are required")

// CanTransitionTo reports whether a transition from the current status to
// next is valid.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Job is the marketplace aggregate. EmployerAddress owns the assignment
// transition, WorkerAddress (set by assignment) owns the completion
// transition.
type Job struct {
	ID              string      `json:"id" bson:"_id"`
	PaymentType     PaymentType `json:"payment_type" bson:"payment_type"`
	Title           string      `json:"title" bson:"title"`
	Description     string      `json:"description" bson:"description"`
	Tags            []string    `json:"tags" bson:"tags"`
	EmployerAddress string      `json:"employer_address" bson:"employer_address"`
	WorkerAddress   string      `json:"worker_address,omitempty" bson:"worker_address,omitempty"`
	Status          JobStatus   `json:"status" bson:"status"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at"`
}

// ValidPaymentType reports whether pt is a known payment type.
func ValidPaymentType(pt PaymentType) bool {
	return pt == PaymentWeekly || pt == PaymentOneOff
}
