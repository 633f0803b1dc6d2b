package activity

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/learnerair/core"
)

var (
	rewardPointsTag  = "rewardpoints"
	rewardPointsText = "a reward must be worth at least 1 point"
)

// InitValidators registers the activity validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(newActivityStructValidation, NewActivity{})
	core.RegisterCustomTranslation(validate, translator, rewardPointsTag, rewardPointsText)
}

func newActivityStructValidation(sl validator.StructLevel) {
	na := sl.Current().Interface().(NewActivity)
	if na.Type == TypeReward && na.Points < 1 {
		sl.ReportError(na.Points, "points", "Points", rewardPointsTag, "")
	}
}
