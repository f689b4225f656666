package signup

import (
	"strings"

	"goldengeneration/models"
	"goldengeneration/services/i18n"
)

const (
	personalKeyPrefix  = "auth.personalDetails."
	communityKeyPrefix = "auth.veteransCommunity."
)

// Catalog key stems of the community fields, shared by the field label
// (<stem>.label) and, for fields with options, the option labels
// (<optionStem>.options.<value>).
var (
	setFieldKeys = map[models.CommunitySetField][2]string{
		models.SetCurrentActivities:         {"currentActivities", "currentActivities"},
		models.SetVolunteerAreas:            {"volunteering.areas", "volunteering.areas"},
		models.SetVolunteerHours:            {"volunteering.hours", "volunteering.hours"},
		models.SetVolunteerDays:             {"volunteering.days", "volunteering.days"},
		models.SetAdditionalVolunteerFields: {"additionalVolunteering.areas", "volunteering.areas"},
		models.SetAdditionalVolunteerHours:  {"additionalVolunteering.hours", "volunteering.hours"},
		models.SetAdditionalVolunteerDays:   {"additionalVolunteering.days", "volunteering.days"},
		models.SetNeedsConsultation:         {"consultation", "consultation"},
	}
	scalarFieldKeys = map[models.CommunityScalarField][2]string{
		models.ScalarNotParticipatingReason:       {"notParticipating", "notParticipating"},
		models.ScalarIsVolunteer:                  {"volunteering.isVolunteer", ""},
		models.ScalarVolunteerFrequency:           {"volunteering.frequency", "volunteering.frequency"},
		models.ScalarAdditionalVolunteering:       {"additionalVolunteering", ""},
		models.ScalarAdditionalVolunteerFrequency: {"additionalVolunteering.frequency", "volunteering.frequency"},
	}
)

// PersonalLabelKey returns the catalog key of a personal field's label.
func PersonalLabelKey(f models.PersonalField) string {
	name := f.String()
	if sub, ok := strings.CutPrefix(name, "emergency."); ok {
		return personalKeyPrefix + "emergencyContact." + sub + ".label"
	}
	return personalKeyPrefix + name + ".label"
}

// PersonalOptionKey returns the catalog key of one option of a select field.
func PersonalOptionKey(f models.PersonalField, option string) string {
	return personalKeyPrefix + f.String() + ".options." + option
}

func SetFieldLabelKey(f models.CommunitySetField) string {
	return communityKeyPrefix + setFieldKeys[f][0] + ".label"
}

func SetFieldOptionKey(f models.CommunitySetField, option string) string {
	return communityKeyPrefix + setFieldKeys[f][1] + ".options." + option
}

func ScalarFieldLabelKey(f models.CommunityScalarField) string {
	return communityKeyPrefix + scalarFieldKeys[f][0] + ".label"
}

func ScalarFieldOptionKey(f models.CommunityScalarField, option string) string {
	return communityKeyPrefix + scalarFieldKeys[f][1] + ".options." + option
}

// Field kinds reported by the option catalog.
const (
	KindText   = "text"
	KindSelect = "select"
	KindMulti  = "multi"
	KindFlag   = "flag"
)

type LabeledOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDescriptor describes one form input with its localized labels.
type FieldDescriptor struct {
	Step     models.StepKey  `json:"step"`
	Field    string          `json:"field"`
	Kind     string          `json:"kind"`
	Label    string          `json:"label"`
	Required bool            `json:"required"`
	Options  []LabeledOption `json:"options,omitempty"`
}

// FormCatalog lists every input of the flow in form order.
func FormCatalog(t i18n.Translator) []FieldDescriptor {
	if t == nil {
		t = i18n.Identity
	}
	var out []FieldDescriptor
	for _, f := range models.PersonalFields() {
		d := FieldDescriptor{
			Step:     models.StepPersonal,
			Field:    f.String(),
			Kind:     KindText,
			Label:    t(PersonalLabelKey(f)),
			Required: f.Required(),
		}
		if opts := f.Options(); opts != nil {
			d.Kind = KindSelect
			for _, o := range opts {
				d.Options = append(d.Options, LabeledOption{Value: o, Label: t(PersonalOptionKey(f, o))})
			}
		}
		out = append(out, d)
	}
	return append(out, communityDescriptors(t)...)
}

// communityDescriptors follows the layout of the community page: activities,
// the reason for not participating, volunteering, additional volunteering,
// consultation.
func communityDescriptors(t i18n.Translator) []FieldDescriptor {
	set := func(f models.CommunitySetField) FieldDescriptor {
		d := FieldDescriptor{Step: models.StepCommunity, Field: f.String(), Kind: KindMulti, Label: t(SetFieldLabelKey(f))}
		for _, o := range f.Options() {
			d.Options = append(d.Options, LabeledOption{Value: o, Label: t(SetFieldOptionKey(f, o))})
		}
		return d
	}
	scalar := func(f models.CommunityScalarField) FieldDescriptor {
		d := FieldDescriptor{Step: models.StepCommunity, Field: f.String(), Kind: KindSelect, Label: t(ScalarFieldLabelKey(f))}
		if f.IsFlag() {
			d.Kind = KindFlag
			return d
		}
		for _, o := range f.Options() {
			d.Options = append(d.Options, LabeledOption{Value: o, Label: t(ScalarFieldOptionKey(f, o))})
		}
		return d
	}
	return []FieldDescriptor{
		set(models.SetCurrentActivities),
		scalar(models.ScalarNotParticipatingReason),
		scalar(models.ScalarIsVolunteer),
		set(models.SetVolunteerAreas),
		scalar(models.ScalarVolunteerFrequency),
		set(models.SetVolunteerHours),
		set(models.SetVolunteerDays),
		scalar(models.ScalarAdditionalVolunteering),
		set(models.SetAdditionalVolunteerFields),
		scalar(models.ScalarAdditionalVolunteerFrequency),
		set(models.SetAdditionalVolunteerHours),
		set(models.SetAdditionalVolunteerDays),
		set(models.SetNeedsConsultation),
	}
}
