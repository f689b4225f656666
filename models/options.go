package models

// Option domains offered by the signup form. Order is display order.
var (
	GenderOptions = []string{string(GenderMale), string(GenderFemale), string(GenderOther)}

	MaritalStatusOptions = []string{
		string(MaritalSingle), string(MaritalMarried), string(MaritalDivorced), string(MaritalWidowed),
	}

	ActivityOptions = []string{"cooking", "trips", "choir", "torahClasses", "lectures", "exercise"}

	NotParticipatingOptions = []string{"noChallenge", "notRelevant", "noInfo", "notInteresting", "noTime"}

	VolunteerAreaOptions = []string{
		"publicity", "health", "eater", "teaching", "highTech", "tourism",
		"safety", "funds", "specialTreat", "craftsmanship", "aaliyah", "culture",
	}

	FrequencyOptions = []string{"onceMonth", "onceTwoWeeks", "onceWeek", "twiceWeek"}

	HourOptions = []string{"morning", "noon", "evening"}

	DayOptions = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

	ConsultationOptions = []string{
		"company", "gardening", "health", "nutrition", "homeEconomics", "houseOrder",
		"marketing", "shopping", "mobility", "digital", "legal", "psychology",
		"houseRules", "sport",
	}
)

func containsOption(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
