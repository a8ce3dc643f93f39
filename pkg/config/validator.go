package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Validator 基于 validator tag 校验配置
type Validator struct {
	validate *validator.Validate
}

// NewValidator 错误信息中的字段名取 mapstructure tag，和配置文件里的 key 一致
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

func (v *Validator) Validate(cfg any) error {
	if cfg == nil {
		return ErrNilConfig
	}
	return wrapValidation(v.validate.Struct(cfg))
}

// ValidateField 按 tag 校验单个值，如 ValidateField(n, "gte=1")
func (v *Validator) ValidateField(field any, tag string) error {
	return wrapValidation(v.validate.Var(field, tag))
}

func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(ErrValidationFailed, describe(err))
}

var ruleMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"oneof":    "must be one of [%s]",
	"gt":       "must be greater than %s",
	"gte":      "must be greater than or equal to %s",
	"lt":       "must be less than %s",
	"lte":      "must be less than or equal to %s",
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := fe.Field()
		if name == "" {
			name = "value"
		}
		msg, ok := ruleMessages[fe.Tag()]
		switch {
		case !ok:
			msg = fmt.Sprintf("failed validation '%s'", fe.Tag())
		case strings.Contains(msg, "%s"):
			msg = fmt.Sprintf(msg, fe.Param())
		}
		parts = append(parts, fmt.Sprintf("field '%s' %s", name, msg))
	}
	return strings.Join(parts, "; ")
}
