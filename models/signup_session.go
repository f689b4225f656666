package models

import "time"

// StepKey names one step of the signup flow.
type StepKey string

const (
	StepPersonal  StepKey = "personal"
	StepCommunity StepKey = "community"
)

// SessionStatus tracks what happened to the session after the last step.
type SessionStatus string

const (
	SessionActive        SessionStatus = "active"
	SessionHandoffFailed SessionStatus = "handoff_failed"
	SessionSubmitted     SessionStatus = "submitted"
)

// PersonalStepState is what the session remembers about the personal step.
// Form is the in-progress input, Saved is the value written on submit.
type PersonalStepState struct {
	Form   *PersonalDetails `json:"form,omitempty"`
	Errors FieldErrors      `json:"errors,omitempty"`
	Saved  *PersonalDetails `json:"saved,omitempty"`
}

// CommunityStepState is what the session remembers about the community step.
type CommunityStepState struct {
	Form  *CommunityForm        `json:"form,omitempty"`
	Saved *CommunityPreferences `json:"saved,omitempty"`
}

// SignupSession accumulates the data of every step for one user.
type SignupSession struct {
	ID            string             `json:"id"`
	UserID        string             `json:"userId"`
	Email         string             `json:"email,omitempty"`
	Locale        string             `json:"locale"`
	StepIndex     int                `json:"stepIndex"`
	Status        SessionStatus      `json:"status"`
	Personal      PersonalStepState  `json:"personal"`
	Community     CommunityStepState `json:"community"`
	CreatedAt     time.Time          `json:"createdAt"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
}
