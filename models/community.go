// models/community.go
package models

// CommunityForm is the input state of the veterans community step. It keeps
// everything the member selected, including values hidden behind a gate that
// was switched off afterwards.
type CommunityForm struct {
	CurrentActivities            []string `json:"currentActivities" yaml:"currentActivities"`
	NotParticipatingReason       string   `json:"notParticipatingReason" yaml:"notParticipatingReason"`
	IsVolunteer                  bool     `json:"isVolunteer" yaml:"isVolunteer"`
	VolunteerAreas               []string `json:"volunteerAreas" yaml:"volunteerAreas"`
	VolunteerFrequency           string   `json:"volunteerFrequency" yaml:"volunteerFrequency"`
	VolunteerHours               []string `json:"volunteerHours" yaml:"volunteerHours"`
	VolunteerDays                []string `json:"volunteerDays" yaml:"volunteerDays"`
	AdditionalVolunteering       bool     `json:"additionalVolunteering" yaml:"additionalVolunteering"`
	AdditionalVolunteerFields    []string `json:"additionalVolunteerFields" yaml:"additionalVolunteerFields"`
	AdditionalVolunteerFrequency string   `json:"additionalVolunteerFrequency" yaml:"additionalVolunteerFrequency"`
	AdditionalVolunteerHours     []string `json:"additionalVolunteerHours" yaml:"additionalVolunteerHours"`
	AdditionalVolunteerDays      []string `json:"additionalVolunteerDays" yaml:"additionalVolunteerDays"`
	NeedsConsultation            []string `json:"needsConsultation" yaml:"needsConsultation"`
}

// NewCommunityForm returns the blank form: empty sets, blank strings, false gates.
func NewCommunityForm() CommunityForm {
	return CommunityForm{
		CurrentActivities:         []string{},
		VolunteerAreas:            []string{},
		VolunteerHours:            []string{},
		VolunteerDays:             []string{},
		AdditionalVolunteerFields: []string{},
		AdditionalVolunteerHours:  []string{},
		AdditionalVolunteerDays:   []string{},
		NeedsConsultation:         []string{},
	}
}

// CommunityVisibility says which gated sections of the form are shown.
type CommunityVisibility struct {
	NotParticipatingReason bool `json:"notParticipatingReason"`
	Volunteering           bool `json:"volunteering"`
	AdditionalVolunteering bool `json:"additionalVolunteering"`
}

// Visibility derives the gated sections from the current selections.
func (f CommunityForm) Visibility() CommunityVisibility {
	return CommunityVisibility{
		NotParticipatingReason: len(f.CurrentActivities) == 0,
		Volunteering:           f.IsVolunteer,
		AdditionalVolunteering: f.AdditionalVolunteering,
	}
}

// Volunteering is present in CommunityPreferences only when IsVolunteer is set.
type Volunteering struct {
	Areas     []string `json:"areas" bson:"areas" firestore:"areas" yaml:"areas"`
	Frequency string   `json:"frequency,omitempty" bson:"frequency,omitempty" firestore:"frequency,omitempty" yaml:"frequency,omitempty"`
	Hours     []string `json:"hours" bson:"hours" firestore:"hours" yaml:"hours"`
	Days      []string `json:"days" bson:"days" firestore:"days" yaml:"days"`
}

// AdditionalVolunteering is present only when AdditionalVolunteering is set.
type AdditionalVolunteering struct {
	Fields    []string `json:"fields" bson:"fields" firestore:"fields" yaml:"fields"`
	Frequency string   `json:"frequency,omitempty" bson:"frequency,omitempty" firestore:"frequency,omitempty" yaml:"frequency,omitempty"`
	Hours     []string `json:"hours" bson:"hours" firestore:"hours" yaml:"hours"`
	Days      []string `json:"days" bson:"days" firestore:"days" yaml:"days"`
}

// CommunityPreferences is the submitted record of the community step.
type CommunityPreferences struct {
	CurrentActivities      []string                `json:"currentActivities" bson:"currentActivities" firestore:"currentActivities" yaml:"currentActivities"`
	NotParticipatingReason string                  `json:"notParticipatingReason,omitempty" bson:"notParticipatingReason,omitempty" firestore:"notParticipatingReason,omitempty" yaml:"notParticipatingReason,omitempty"`
	IsVolunteer            bool                    `json:"isVolunteer" bson:"isVolunteer" firestore:"isVolunteer" yaml:"isVolunteer"`
	Volunteering           *Volunteering           `json:"volunteering,omitempty" bson:"volunteering,omitempty" firestore:"volunteering,omitempty" yaml:"volunteering,omitempty"`
	AdditionalVolunteering bool                    `json:"additionalVolunteering" bson:"additionalVolunteering" firestore:"additionalVolunteering" yaml:"additionalVolunteering"`
	Additional             *AdditionalVolunteering `json:"additional,omitempty" bson:"additional,omitempty" firestore:"additional,omitempty" yaml:"additional,omitempty"`
	NeedsConsultation      []string                `json:"needsConsultation" bson:"needsConsultation" firestore:"needsConsultation" yaml:"needsConsultation"`
}

// Preferences builds the submitted record. Gated sections whose gate is off
// are dropped, as is a not-participating reason once activities are chosen.
func (f CommunityForm) Preferences() CommunityPreferences {
	p := CommunityPreferences{
		CurrentActivities:      cloneSet(f.CurrentActivities),
		IsVolunteer:            f.IsVolunteer,
		AdditionalVolunteering: f.AdditionalVolunteering,
		NeedsConsultation:      cloneSet(f.NeedsConsultation),
	}
	if len(f.CurrentActivities) == 0 {
		p.NotParticipatingReason = f.NotParticipatingReason
	}
	if f.IsVolunteer {
		p.Volunteering = &Volunteering{
			Areas:     cloneSet(f.VolunteerAreas),
			Frequency: f.VolunteerFrequency,
			Hours:     cloneSet(f.VolunteerHours),
			Days:      cloneSet(f.VolunteerDays),
		}
	}
	if f.AdditionalVolunteering {
		p.Additional = &AdditionalVolunteering{
			Fields:    cloneSet(f.AdditionalVolunteerFields),
			Frequency: f.AdditionalVolunteerFrequency,
			Hours:     cloneSet(f.AdditionalVolunteerHours),
			Days:      cloneSet(f.AdditionalVolunteerDays),
		}
	}
	return p
}

func cloneSet(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
