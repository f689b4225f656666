package models

import "fmt"

// PersonalField identifies one input of the personal details step.
type PersonalField int

const (
	PersonalFirstName PersonalField = iota + 1
	PersonalLastName
	PersonalBirthDate
	PersonalGender
	PersonalMaritalStatus
	PersonalCity
	PersonalAddress
	PersonalPhone
	PersonalMobilePhone
	PersonalEmergencyName
	PersonalEmergencyPhone
	PersonalEmergencyRelation
)

// personalFieldSpec describes where a field lives inside PersonalDetails.
// path is the struct path, name is the form/wire name.
type personalFieldSpec struct {
	name     string
	path     string
	required bool
	options  []string
	get      func(*PersonalDetails) string
	set      func(*PersonalDetails, string)
}

var personalFieldSpecs = map[PersonalField]personalFieldSpec{
	PersonalFirstName: {
		name: "firstName", path: "FirstName", required: true,
		get: func(d *PersonalDetails) string { return d.FirstName },
		set: func(d *PersonalDetails, v string) { d.FirstName = v },
	},
	PersonalLastName: {
		name: "lastName", path: "LastName", required: true,
		get: func(d *PersonalDetails) string { return d.LastName },
		set: func(d *PersonalDetails, v string) { d.LastName = v },
	},
	PersonalBirthDate: {
		name: "birthDate", path: "BirthDate", required: true,
		get: func(d *PersonalDetails) string { return d.BirthDate },
		set: func(d *PersonalDetails, v string) { d.BirthDate = v },
	},
	PersonalGender: {
		name: "gender", path: "Gender", required: true, options: GenderOptions,
		get: func(d *PersonalDetails) string { return string(d.Gender) },
		set: func(d *PersonalDetails, v string) { d.Gender = Gender(v) },
	},
	PersonalMaritalStatus: {
		name: "maritalStatus", path: "MaritalStatus", required: true, options: MaritalStatusOptions,
		get: func(d *PersonalDetails) string { return string(d.MaritalStatus) },
		set: func(d *PersonalDetails, v string) { d.MaritalStatus = MaritalStatus(v) },
	},
	PersonalCity: {
		name: "city", path: "City", required: true,
		get: func(d *PersonalDetails) string { return d.City },
		set: func(d *PersonalDetails, v string) { d.City = v },
	},
	PersonalAddress: {
		name: "address", path: "Address", required: true,
		get: func(d *PersonalDetails) string { return d.Address },
		set: func(d *PersonalDetails, v string) { d.Address = v },
	},
	PersonalPhone: {
		name: "phone", path: "Phone",
		get: func(d *PersonalDetails) string { return d.Phone },
		set: func(d *PersonalDetails, v string) { d.Phone = v },
	},
	PersonalMobilePhone: {
		name: "mobilePhone", path: "MobilePhone", required: true,
		get: func(d *PersonalDetails) string { return d.MobilePhone },
		set: func(d *PersonalDetails, v string) { d.MobilePhone = v },
	},
	PersonalEmergencyName: {
		name: "emergency.name", path: "EmergencyContact.Name", required: true,
		get: func(d *PersonalDetails) string { return d.EmergencyContact.Name },
		set: func(d *PersonalDetails, v string) { d.EmergencyContact.Name = v },
	},
	PersonalEmergencyPhone: {
		name: "emergency.phone", path: "EmergencyContact.Phone", required: true,
		get: func(d *PersonalDetails) string { return d.EmergencyContact.Phone },
		set: func(d *PersonalDetails, v string) { d.EmergencyContact.Phone = v },
	},
	PersonalEmergencyRelation: {
		name: "emergency.relation", path: "EmergencyContact.Relation", required: true,
		get: func(d *PersonalDetails) string { return d.EmergencyContact.Relation },
		set: func(d *PersonalDetails, v string) { d.EmergencyContact.Relation = v },
	},
}

var (
	personalFieldsByName = map[string]PersonalField{}
	personalFieldsByPath = map[string]PersonalField{}
)

func init() {
	for f, spec := range personalFieldSpecs {
		personalFieldsByName[spec.name] = f
		personalFieldsByPath[spec.path] = f
	}
}

// PersonalFields lists every personal field in form order.
func PersonalFields() []PersonalField {
	out := make([]PersonalField, 0, len(personalFieldSpecs))
	for f := PersonalFirstName; f <= PersonalEmergencyRelation; f++ {
		out = append(out, f)
	}
	return out
}

// ParsePersonalField resolves a form name such as "city" or "emergency.phone".
func ParsePersonalField(name string) (PersonalField, bool) {
	f, ok := personalFieldsByName[name]
	return f, ok
}

// PersonalFieldByPath resolves a struct path such as "EmergencyContact.Name".
func PersonalFieldByPath(path string) (PersonalField, bool) {
	f, ok := personalFieldsByPath[path]
	return f, ok
}

// Valid reports whether f is a known field.
func (f PersonalField) Valid() bool {
	_, ok := personalFieldSpecs[f]
	return ok
}

// String returns the form name of the field.
func (f PersonalField) String() string {
	if spec, ok := personalFieldSpecs[f]; ok {
		return spec.name
	}
	return fmt.Sprintf("PersonalField(%d)", int(f))
}

// Path returns the struct path of the field inside PersonalDetails.
func (f PersonalField) Path() string {
	return personalFieldSpecs[f].path
}

// Required reports whether the field must be non-blank to submit the step.
func (f PersonalField) Required() bool {
	return personalFieldSpecs[f].required
}

// Options returns the allowed values of a select field, nil for free text.
func (f PersonalField) Options() []string {
	return personalFieldSpecs[f].options
}

// Accepts reports whether value may be assigned to the field. Select fields
// accept their options and the empty placeholder.
func (f PersonalField) Accepts(value string) bool {
	spec, ok := personalFieldSpecs[f]
	if !ok {
		return false
	}
	if spec.options == nil || value == "" {
		return true
	}
	return containsOption(spec.options, value)
}

func (f PersonalField) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("unknown personal field %d", int(f))
	}
	return []byte(f.String()), nil
}

func (f *PersonalField) UnmarshalText(text []byte) error {
	parsed, ok := ParsePersonalField(string(text))
	if !ok {
		return fmt.Errorf("unknown personal field %q", string(text))
	}
	*f = parsed
	return nil
}

// Get reads the value addressed by f.
func (d *PersonalDetails) Get(f PersonalField) string {
	spec, ok := personalFieldSpecs[f]
	if !ok {
		return ""
	}
	return spec.get(d)
}

// Set writes value into the field addressed by f. Unknown fields are ignored.
func (d *PersonalDetails) Set(f PersonalField, value string) {
	if spec, ok := personalFieldSpecs[f]; ok {
		spec.set(d, value)
	}
}

// FieldErrors maps a personal field to its validation message.
type FieldErrors map[PersonalField]string

// Clone returns an independent copy.
func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
