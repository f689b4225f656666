package signup

import (
	"errors"
	"strings"
	"sync"

	"goldengeneration/models"
	"goldengeneration/services/i18n"

	"github.com/go-playground/validator/v10"
)

// RequiredMessageKey is the catalog key used for every missing field.
const RequiredMessageKey = "errors.required"

var (
	structValidator *validator.Validate
	validatorOnce   sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		// Registration only fails on an empty tag or a nil func.
		_ = v.RegisterValidation("notblank", notBlank)
		structValidator = v
	})
	return structValidator
}

// notBlank rejects empty and whitespace-only strings.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidatePersonal returns one message per required field that is blank.
// The result is empty iff the step may advance.
func ValidatePersonal(details models.PersonalDetails, t i18n.Translator) models.FieldErrors {
	if t == nil {
		t = i18n.Identity
	}
	out := models.FieldErrors{}
	err := getValidator().Struct(details)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Not reachable for a plain struct value; report everything blank.
		for _, f := range models.PersonalFields() {
			if f.Required() && strings.TrimSpace(details.Get(f)) == "" {
				out[f] = t(RequiredMessageKey)
			}
		}
		return out
	}
	for _, fe := range verrs {
		path := strings.TrimPrefix(fe.StructNamespace(), "PersonalDetails.")
		if f, ok := models.PersonalFieldByPath(path); ok {
			out[f] = t(RequiredMessageKey)
		}
	}
	return out
}

// Validate dispatches on the step. The community step has no required
// fields, so it always validates clean. A personal step given anything but
// personal details is treated as a blank form.
func Validate(step models.StepKey, form any, t i18n.Translator) models.FieldErrors {
	if step != models.StepPersonal {
		return models.FieldErrors{}
	}
	switch d := form.(type) {
	case models.PersonalDetails:
		return ValidatePersonal(d, t)
	case *models.PersonalDetails:
		if d != nil {
			return ValidatePersonal(*d, t)
		}
	}
	return ValidatePersonal(models.PersonalDetails{}, t)
}
