// models/personal_details.go
package models

import "strings"

// Gender is the self-declared gender collected on the personal details step.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// MaritalStatus is the marital status collected on the personal details step.
type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalDivorced MaritalStatus = "divorced"
	MaritalWidowed  MaritalStatus = "widowed"
)

// EmergencyContact is the person to call on the member's behalf.
type EmergencyContact struct {
	Name     string `json:"name" bson:"name" firestore:"name" yaml:"name" validate:"notblank"`
	Phone    string `json:"phone" bson:"phone" firestore:"phone" yaml:"phone" validate:"notblank"`
	Relation string `json:"relation" bson:"relation" firestore:"relation" yaml:"relation" validate:"notblank"`
}

// PersonalDetails holds the first signup step. Every field except Phone is required.
type PersonalDetails struct {
	FirstName        string           `json:"firstName" bson:"firstName" firestore:"firstName" yaml:"firstName" validate:"notblank"`
	LastName         string           `json:"lastName" bson:"lastName" firestore:"lastName" yaml:"lastName" validate:"notblank"`
	BirthDate        string           `json:"birthDate" bson:"birthDate" firestore:"birthDate" yaml:"birthDate" validate:"notblank"`
	Gender           Gender           `json:"gender" bson:"gender" firestore:"gender" yaml:"gender" validate:"notblank"`
	MaritalStatus    MaritalStatus    `json:"maritalStatus" bson:"maritalStatus" firestore:"maritalStatus" yaml:"maritalStatus" validate:"notblank"`
	City             string           `json:"city" bson:"city" firestore:"city" yaml:"city" validate:"notblank"`
	Address          string           `json:"address" bson:"address" firestore:"address" yaml:"address" validate:"notblank"`
	Phone            string           `json:"phone" bson:"phone" firestore:"phone" yaml:"phone"`
	MobilePhone      string           `json:"mobilePhone" bson:"mobilePhone" firestore:"mobilePhone" yaml:"mobilePhone" validate:"notblank"`
	EmergencyContact EmergencyContact `json:"emergencyContact" bson:"emergencyContact" firestore:"emergencyContact" yaml:"emergencyContact"`
}

// FullName is "<first> <last>" with surrounding blanks dropped. It is the
// display name written to the member's auth profile.
func (d PersonalDetails) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(d.FirstName) + " " + strings.TrimSpace(d.LastName))
}
