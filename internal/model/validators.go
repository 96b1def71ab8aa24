// Package model содержит валидаторы для моделей.
package model

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError представляет ошибку валидации
type ValidationError struct {
	Field   string
	Message string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors представляет множество ошибок валидации
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// HasErrors проверяет, есть ли ошибки валидации
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// ValidateRequired проверяет, что поле не пустое
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidateISODate проверяет, что значение является датой YYYY-MM-DD
func ValidateISODate(field, value string) error {
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		return ValidationError{Field: field, Message: "must be in YYYY-MM-DD format"}
	}
	return nil
}

// ValidateCount проверяет количество элементов
func ValidateCount(field string, got, want int) error {
	if got != want {
		return ValidationError{Field: field, Message: fmt.Sprintf("must contain exactly %d values, got %d", want, got)}
	}
	return nil
}

// ValidateRange проверяет, что число лежит в [min, max]
func ValidateRange(field string, value, min, max int) error {
	if value < min || value > max {
		return ValidationError{Field: field, Message: fmt.Sprintf("must be between %d and %d", min, max)}
	}
	return nil
}
