// Package validation registers the project's custom validator tags.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Stage codes are letters, digits, underscores or spaces, starting with a letter
	StageCodePattern = `^[A-Za-z][A-Za-z0-9_ ]*$`

	// Password min length
	PasswordMinLength = 8

	// Domain tag max length, in characters
	DomainTagMaxLength = 100

	// Stage code max length
	StageCodeMaxLength = 64
)

var stageCodeRegex = regexp.MustCompile(StageCodePattern)

// Tag names usable in binding and validate struct tags
const (
	TagStageCode = "stagecode"
	TagPassword  = "password"
	TagDomainTag = "domaintag"
)

// Register adds the custom tags to v
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		TagStageCode: validateStageCode,
		TagPassword:  validatePassword,
		TagDomainTag: validateDomainTag,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}

// RegisterWithGin adds the custom tags to the validator gin binds requests with
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	v.RegisterTagNameFunc(jsonFieldName)
	return Register(v)
}

// jsonFieldName reports fields by their json name so error messages match the payload
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// StageCode reports whether code is an acceptable workflow stage code
func StageCode(code string) bool {
	code = strings.TrimSpace(code)
	return code != "" && len(code) <= StageCodeMaxLength && stageCodeRegex.MatchString(code)
}

// Password reports whether password is long enough and mixes letters and digits
func Password(password string) bool {
	if utf8.RuneCountInString(password) < PasswordMinLength {
		return false
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// DomainTag reports whether tag is a non-blank printable tag of bounded length
func DomainTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || utf8.RuneCountInString(tag) > DomainTagMaxLength {
		return false
	}
	for _, r := range tag {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

func validateStageCode(fl validator.FieldLevel) bool { return StageCode(fl.Field().String()) }
func validatePassword(fl validator.FieldLevel) bool  { return Password(fl.Field().String()) }
func validateDomainTag(fl validator.FieldLevel) bool { return DomainTag(fl.Field().String()) }

// Message returns a readable message for a failed custom tag, or "" for other tags
func Message(tag, field string) string {
	switch tag {
	case TagStageCode:
		return field + " must start with a letter and contain only letters, digits, spaces or underscores"
	case TagPassword:
		return fmt.Sprintf("%s must be at least %d characters and contain a letter and a digit", field, PasswordMinLength)
	case TagDomainTag:
		return fmt.Sprintf("%s must be a non-empty tag of at most %d characters", field, DomainTagMaxLength)
	}
	return ""
}
