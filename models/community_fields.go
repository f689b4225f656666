package models

import "fmt"

// CommunitySetField identifies a multi-select field of the community step.
type CommunitySetField int

const (
	SetCurrentActivities CommunitySetField = iota + 1
	SetVolunteerAreas
	SetVolunteerHours
	SetVolunteerDays
	SetAdditionalVolunteerFields
	SetAdditionalVolunteerHours
	SetAdditionalVolunteerDays
	SetNeedsConsultation
)

type setFieldSpec struct {
	name    string
	options []string
	ref     func(*CommunityForm) *[]string
}

var setFieldSpecs = map[CommunitySetField]setFieldSpec{
	SetCurrentActivities: {
		name: "currentActivities", options: ActivityOptions,
		ref: func(f *CommunityForm) *[]string { return &f.CurrentActivities },
	},
	SetVolunteerAreas: {
		name: "volunteerAreas", options: VolunteerAreaOptions,
		ref: func(f *CommunityForm) *[]string { return &f.VolunteerAreas },
	},
	SetVolunteerHours: {
		name: "volunteerHours", options: HourOptions,
		ref: func(f *CommunityForm) *[]string { return &f.VolunteerHours },
	},
	SetVolunteerDays: {
		name: "volunteerDays", options: DayOptions,
		ref: func(f *CommunityForm) *[]string { return &f.VolunteerDays },
	},
	SetAdditionalVolunteerFields: {
		name: "additionalVolunteerFields", options: VolunteerAreaOptions,
		ref: func(f *CommunityForm) *[]string { return &f.AdditionalVolunteerFields },
	},
	SetAdditionalVolunteerHours: {
		name: "additionalVolunteerHours", options: HourOptions,
		ref: func(f *CommunityForm) *[]string { return &f.AdditionalVolunteerHours },
	},
	SetAdditionalVolunteerDays: {
		name: "additionalVolunteerDays", options: DayOptions,
		ref: func(f *CommunityForm) *[]string { return &f.AdditionalVolunteerDays },
	},
	SetNeedsConsultation: {
		name: "needsConsultation", options: ConsultationOptions,
		ref: func(f *CommunityForm) *[]string { return &f.NeedsConsultation },
	},
}

// CommunityScalarField identifies a single-value field of the community step.
type CommunityScalarField int

const (
	ScalarNotParticipatingReason CommunityScalarField = iota + 1
	ScalarIsVolunteer
	ScalarVolunteerFrequency
	ScalarAdditionalVolunteering
	ScalarAdditionalVolunteerFrequency
)

// scalarFieldSpec addresses either a string (str) or a boolean (flag) field.
type scalarFieldSpec struct {
	name    string
	options []string
	str     func(*CommunityForm) *string
	flag    func(*CommunityForm) *bool
}

var scalarFieldSpecs = map[CommunityScalarField]scalarFieldSpec{
	ScalarNotParticipatingReason: {
		name: "notParticipatingReason", options: NotParticipatingOptions,
		str: func(f *CommunityForm) *string { return &f.NotParticipatingReason },
	},
	ScalarIsVolunteer: {
		name: "isVolunteer",
		flag: func(f *CommunityForm) *bool { return &f.IsVolunteer },
	},
	ScalarVolunteerFrequency: {
		name: "volunteerFrequency", options: FrequencyOptions,
		str: func(f *CommunityForm) *string { return &f.VolunteerFrequency },
	},
	ScalarAdditionalVolunteering: {
		name: "additionalVolunteering",
		flag: func(f *CommunityForm) *bool { return &f.AdditionalVolunteering },
	},
	ScalarAdditionalVolunteerFrequency: {
		name: "additionalVolunteerFrequency", options: FrequencyOptions,
		str: func(f *CommunityForm) *string { return &f.AdditionalVolunteerFrequency },
	},
}

var (
	setFieldsByName    = map[string]CommunitySetField{}
	scalarFieldsByName = map[string]CommunityScalarField{}
)

func init() {
	for f, spec := range setFieldSpecs {
		setFieldsByName[spec.name] = f
	}
	for f, spec := range scalarFieldSpecs {
		scalarFieldsByName[spec.name] = f
	}
}

// ParseCommunitySetField resolves a form name such as "volunteerDays".
func ParseCommunitySetField(name string) (CommunitySetField, bool) {
	f, ok := setFieldsByName[name]
	return f, ok
}

// CommunitySetFields lists the multi-select fields in form order.
func CommunitySetFields() []CommunitySetField {
	out := make([]CommunitySetField, 0, len(setFieldSpecs))
	for f := SetCurrentActivities; f <= SetNeedsConsultation; f++ {
		out = append(out, f)
	}
	return out
}

func (f CommunitySetField) Valid() bool {
	_, ok := setFieldSpecs[f]
	return ok
}

func (f CommunitySetField) String() string {
	if spec, ok := setFieldSpecs[f]; ok {
		return spec.name
	}
	return fmt.Sprintf("CommunitySetField(%d)", int(f))
}

// Options returns the domain of the field.
func (f CommunitySetField) Options() []string {
	return setFieldSpecs[f].options
}

// Accepts reports whether value belongs to the field's domain.
func (f CommunitySetField) Accepts(value string) bool {
	spec, ok := setFieldSpecs[f]
	return ok && containsOption(spec.options, value)
}

// Members returns the selected values of f.
func (c *CommunityForm) Members(f CommunitySetField) []string {
	spec, ok := setFieldSpecs[f]
	if !ok {
		return nil
	}
	return *spec.ref(c)
}

// SetMembers replaces the selected values of f.
func (c *CommunityForm) SetMembers(f CommunitySetField, values []string) {
	if spec, ok := setFieldSpecs[f]; ok {
		*spec.ref(c) = values
	}
}

// ParseCommunityScalarField resolves a form name such as "isVolunteer".
func ParseCommunityScalarField(name string) (CommunityScalarField, bool) {
	f, ok := scalarFieldsByName[name]
	return f, ok
}

// CommunityScalarFields lists the single-value fields in form order.
func CommunityScalarFields() []CommunityScalarField {
	out := make([]CommunityScalarField, 0, len(scalarFieldSpecs))
	for f := ScalarNotParticipatingReason; f <= ScalarAdditionalVolunteerFrequency; f++ {
		out = append(out, f)
	}
	return out
}

func (f CommunityScalarField) Valid() bool {
	_, ok := scalarFieldSpecs[f]
	return ok
}

func (f CommunityScalarField) String() string {
	if spec, ok := scalarFieldSpecs[f]; ok {
		return spec.name
	}
	return fmt.Sprintf("CommunityScalarField(%d)", int(f))
}

// IsFlag reports whether the field is a boolean gate.
func (f CommunityScalarField) IsFlag() bool {
	return scalarFieldSpecs[f].flag != nil
}

// Options returns the domain of an enum field, nil for booleans.
func (f CommunityScalarField) Options() []string {
	return scalarFieldSpecs[f].options
}

// Accepts reports whether value is a legal enum value or the empty placeholder.
func (f CommunityScalarField) Accepts(value string) bool {
	spec, ok := scalarFieldSpecs[f]
	if !ok || spec.str == nil {
		return false
	}
	return value == "" || containsOption(spec.options, value)
}

// Text returns the value of an enum field.
func (c *CommunityForm) Text(f CommunityScalarField) string {
	spec, ok := scalarFieldSpecs[f]
	if !ok || spec.str == nil {
		return ""
	}
	return *spec.str(c)
}

// SetText assigns an enum field. Boolean fields are left untouched.
func (c *CommunityForm) SetText(f CommunityScalarField, value string) {
	if spec, ok := scalarFieldSpecs[f]; ok && spec.str != nil {
		*spec.str(c) = value
	}
}

// Flag returns the value of a boolean gate.
func (c *CommunityForm) Flag(f CommunityScalarField) bool {
	spec, ok := scalarFieldSpecs[f]
	if !ok || spec.flag == nil {
		return false
	}
	return *spec.flag(c)
}

// SetFlag assigns a boolean gate. Enum fields are left untouched.
func (c *CommunityForm) SetFlag(f CommunityScalarField, value bool) {
	if spec, ok := scalarFieldSpecs[f]; ok && spec.flag != nil {
		*spec.flag(c) = value
	}
}

// Visible reports whether the field's section is shown under v.
func (f CommunitySetField) Visible(v CommunityVisibility) bool {
	switch f {
	case SetVolunteerAreas, SetVolunteerHours, SetVolunteerDays:
		return v.Volunteering
	case SetAdditionalVolunteerFields, SetAdditionalVolunteerHours, SetAdditionalVolunteerDays:
		return v.AdditionalVolunteering
	}
	return f.Valid()
}

// Visible reports whether the field's section is shown under v.
func (f CommunityScalarField) Visible(v CommunityVisibility) bool {
	switch f {
	case ScalarNotParticipatingReason:
		return v.NotParticipatingReason
	case ScalarVolunteerFrequency:
		return v.Volunteering
	case ScalarAdditionalVolunteerFrequency:
		return v.AdditionalVolunteering
	}
	return f.Valid()
}
