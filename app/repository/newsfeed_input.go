package repository

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ManuelReschke/newsfeed/internal/pkg/apperr"
)

// maxTagLength mirrors the width of tags.tag.
const maxTagLength = 100

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// NewsInput carries the editable fields of a news article. Active reports
// whether the "active" checkbox was submitted. Tags is the raw comma separated
// label list.
type NewsInput struct {
	Title   string `json:"title" form:"title" validate:"required,max=255"`
	Summary string `json:"summary" form:"summary" validate:"required,max=65000"`
	Content string `json:"content" form:"content" validate:"required,max=65000"`
	Slug    string `json:"slug" form:"slug" validate:"required,max=255,slug"`
	Active  bool   `json:"active" form:"active"`
	Tags    string `json:"tags" form:"tags"`
}

// Validate checks the input and returns an apperr.ValidationError describing
// every failing field.
func (in NewsInput) Validate() error {
	var messages []string
	if err := inputValidator().Struct(in); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				messages = append(messages, formatFieldError(e))
			}
		} else {
			return apperr.Validation(err.Error(), err)
		}
	}
	for _, label := range ParseTagLabels(in.Tags) {
		if len([]rune(label)) > maxTagLength {
			messages = append(messages, fmt.Sprintf("tag %q must be at most %d characters", label, maxTagLength))
		}
	}
	if len(messages) > 0 {
		return apperr.Validation("validation failed: "+strings.Join(messages, "; "), nil)
	}
	return nil
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "slug":
		return fmt.Sprintf("%s must contain only lowercase letters, digits, '-' and '_'", field)
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, e.Tag())
	}
}

// SeenInput keeps the form contract of the moderation toggle: the flag is set
// only when Seen is exactly "true".
type SeenInput struct {
	Seen string `json:"seen" form:"seen"`
}

func (in SeenInput) Value() bool { return in.Seen == "true" }

// ActiveInput is the visibility toggle counterpart of SeenInput.
type ActiveInput struct {
	Active string `json:"active" form:"active"`
}

func (in ActiveInput) Value() bool { return in.Active == "true" }
