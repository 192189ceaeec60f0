package core

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"cropcura/internal/types"
)

// Validator wraps go-playground/validator and registers the domain tags:
//
//	health_status  healthy | moderate | unhealthy
//	loan_decision  approved | declined
//	alert_type     critical | warning | info
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// FieldViolation describes one failed rule, keyed by the JSON field name.
type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// NewValidator creates a Validator and registers custom validation tags.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	mustRegister(v, "health_status", func(fl validator.FieldLevel) bool {
		return types.HealthStatus(fl.Field().String()).Valid()
	})
	mustRegister(v, "loan_decision", func(fl validator.FieldLevel) bool {
		return types.LoanStatus(fl.Field().String()).IsDecision()
	})
	mustRegister(v, "alert_type", func(fl validator.FieldLevel) bool {
		return types.AlertType(fl.Field().String()).Valid()
	})

	return &Validator{validate: v, logger: logger}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("core: registering validation tag " + tag + ": " + err.Error())
	}
}

// jsonFieldName reports fields by their JSON name so error details match the
// request body.
func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// ValidateStruct validates s and converts failures into a validation AppError.
// A failed "required" rule yields validation_missing_required_field; any other
// rule yields validation_invalid_parameter. Details carry every violation.
func (v *Validator) ValidateStruct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v.logger.Error("validator misuse", "error", err)
		return types.NewAppError(types.ErrCodeInternalUnexpected, "request validation failed", err)
	}

	code := types.ErrCodeValidationInvalidParameter
	violations := make([]FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			code = types.ErrCodeValidationMissingField
		}
		violations = append(violations, FieldViolation{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}

	first := violations[0]
	msg := "invalid value for " + first.Field
	if code == types.ErrCodeValidationMissingField {
		msg = "missing required field"
		for _, fv := range violations {
			if fv.Rule == "required" {
				msg = fv.Field + " is required"
				break
			}
		}
	}

	return types.NewAppErrorWithDetails(code, msg, err, map[string]any{
		"fields": violations,
	})
}
