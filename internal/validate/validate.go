// Package validate enforces the client-side key/value grammar using
// go-playground/validator/v10, promoted to a direct, explicitly-invoked
// validator here rather than left to ride along only transitively
// through gin's binding tags.
package validate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	maxKeyBytes   = 128
	maxValueBytes = 2048
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("kvgrammar", isAlphanumericOrWhitespace)
	return val
}

// isAlphanumericOrWhitespace implements the key/value grammar:
// alphanumeric or whitespace only. Punctuation is rejected here rather
// than left to corrupt downstream parsing — notably '/' in a key,
// which would otherwise split the router's GET /rpc/get/:key path into
// extra segments.
func isAlphanumericOrWhitespace(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

type keyInput struct {
	Key string `validate:"required,max=128,kvgrammar"`
}

type valueInput struct {
	Value string `validate:"required,max=2048,kvgrammar"`
}

// Key validates a key against the grammar: alphanumeric or whitespace,
// at most 128 bytes, and no '[' or ']'.
func Key(key string) error {
	if len(key) > maxKeyBytes {
		return fmt.Errorf("key exceeds %d bytes", maxKeyBytes)
	}
	if strings.ContainsAny(key, "[]") {
		return fmt.Errorf("key must not contain '[' or ']'")
	}
	if err := v.Struct(keyInput{Key: key}); err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	return nil
}

// Value validates a value against the grammar: alphanumeric or
// whitespace, at most 2048 bytes.
func Value(value string) error {
	if len(value) > maxValueBytes {
		return fmt.Errorf("value exceeds %d bytes", maxValueBytes)
	}
	if err := v.Struct(valueInput{Value: value}); err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	return nil
}
