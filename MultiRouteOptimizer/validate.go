package MultiRouteOptimizer

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator turns a raw OptimizeRequest into waypoints, or a ValidationError.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewValidator() (*Validator, error) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	// report fields by their JSON names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("register validation translations: %w", err)
	}

	return &Validator{validate: validate, trans: trans}, nil
}

// Validate checks the waypoint count and every coordinate. On success the waypoints keep
// the request order and OriginalIdx is their 0-based position.
func (v *Validator) Validate(req OptimizeRequest) ([]Waypoint, error) {
	if err := v.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, &ValidationError{Message: v.message(fieldErrs[0])}
		}
		return nil, &ValidationError{Message: err.Error()}
	}

	waypoints := make([]Waypoint, len(req.Locations))
	for i, loc := range req.Locations {
		lat, lng := *loc.Lat, *loc.Lng
		if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
			return nil, &ValidationError{Message: fmt.Sprintf("locations[%d]: coordinates must be finite numbers", i)}
		}
		waypoints[i] = Waypoint{
			ID:          loc.ID,
			Name:        loc.Name,
			Lat:         lat,
			Lng:         lng,
			OriginalIdx: i,
		}
	}
	return waypoints, nil
}

func (v *Validator) message(fe validator.FieldError) string {
	msg := fe.Translate(v.trans)
	path := fe.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}
	if path != fe.Field() {
		return path + ": " + msg
	}
	return msg
}
