package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
)

const (
	maxTitleLen        = 200
	maxCategoryNameLen = 100

	requiredMsg      = "This field is required."
	blankMsg         = "This field may not be blank."
	nullMsg          = "This field may not be null."
	pastDeadlineMsg  = "Deadline cannot be in the past."
	categoryTakenMsg = "Category with this name already exists."
)

func maxLenMsg(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}

func invalidChoiceMsg(v string) string {
	return fmt.Sprintf("%q is not a valid choice.", v)
}

// checkText trims and validates a required text field. required is false for partial updates.
func checkText(ve *ValidationError, field string, f *Field[string], required bool, maxLen int) {
	f.Value = strings.TrimSpace(f.Value)
	switch {
	case !f.Set:
		if required {
			ve.Add(field, requiredMsg)
		}
	case f.Null:
		ve.Add(field, nullMsg)
	case f.Value == "":
		ve.Add(field, blankMsg)
	case utf8.RuneCountInString(f.Value) > maxLen:
		ve.Add(field, maxLenMsg(maxLen))
	}
}

func checkStatus(ve *ValidationError, f Field[string]) (model.Status, bool) {
	if !f.Set {
		return "", false
	}
	if f.Null {
		ve.Add("status", nullMsg)
		return "", false
	}
	st, ok := model.ParseStatus(f.Value)
	if !ok {
		ve.Add("status", invalidChoiceMsg(f.Value))
		return "", false
	}
	return st, true
}

// checkDeadline rejects deadlines strictly before now when enforced.
func checkDeadline(ve *ValidationError, f Field[time.Time], now time.Time, enforce bool) *time.Time {
	if !f.Present() {
		return nil
	}
	d := f.Value.UTC()
	if enforce && d.Before(now) {
		ve.Add("deadline", pastDeadlineMsg)
	}
	return &d
}
