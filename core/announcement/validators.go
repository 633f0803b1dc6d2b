package announcement

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/learnerair/core"
)

var (
	targetTag  = "target"
	targetText = "invalid target"

	targetSpecificTag  = "targetspecific"
	targetSpecificText = "a year group or a class is required for this target"
)

// InitValidators registers the announcement validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(targetTag, targetValidation)
	core.RegisterCustomTranslation(validate, translator, targetTag, targetText)

	validate.RegisterStructValidation(announcementStructValidation, NewAnnouncement{})
	core.RegisterCustomTranslation(validate, translator, targetSpecificTag, targetSpecificText)
}

func targetValidation(fl validator.FieldLevel) bool {
	target := fl.Field().String()
	for _, t := range AllTargets {
		if target == t {
			return true
		}
	}
	return false
}

// announcementStructValidation requires TargetSpecific for the year & class targets.
func announcementStructValidation(sl validator.StructLevel) {
	na := sl.Current().Interface().(NewAnnouncement)
	if (na.Target == TargetYear || na.Target == TargetClass) && na.TargetSpecific == "" {
		sl.ReportError(na.TargetSpecific, "targetSpecific", "TargetSpecific", targetSpecificTag, "")
	}
}
