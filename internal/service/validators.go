package service

import (
	"fmt"
	"strings"
	"time"

	"pm-go/internal/dto"
	"pm-go/internal/utils"
)

// ProjectFields proposed state of a project after merging the request
type ProjectFields struct {
	Name     string `json:"name" validate:"notblank,max=120"`
	ClientID *uint  `json:"client_id" validate:"required"`
	TeamID   *uint  `json:"team_id" validate:"required"`
	Status   string `json:"status" validate:"notblank,max=80"`
}

// TaskFields proposed state of a task
type TaskFields struct {
	Name   string `json:"name" validate:"notblank,max=120"`
	Status string `json:"status" validate:"notblank,max=80"`
}

// ClientFields proposed state of a client
type ClientFields struct {
	Name        string  `json:"name" validate:"notblank,max=120"`
	ContactInfo *string `json:"contact_info" validate:"omitempty,max=200"`
}

// TeamFields proposed state of a team
type TeamFields struct {
	Name string `json:"name" validate:"notblank,max=120"`
}

// MilestoneFields proposed state of a milestone
type MilestoneFields struct {
	Name string     `json:"name" validate:"notblank,max=120"`
	Date *time.Time `json:"date" validate:"required"`
}

// FeedbackFields proposed feedback submission
type FeedbackFields struct {
	Subject string  `json:"subject" validate:"notblank,max=200"`
	Message string  `json:"message" validate:"notblank"`
	Name    *string `json:"name" validate:"omitempty,max=100"`
	Email   *string `json:"email" validate:"omitempty,max=100,email"`
}

// UserFields proposed state of an account
type UserFields struct {
	Username string `json:"username" validate:"notblank,max=80"`
	Email    string `json:"email" validate:"notblank,max=120,email"`
	Name     string `json:"name" validate:"notblank,max=120"`
	Role     string `json:"role" validate:"notblank,max=80"`
}

// ValidateProject checks required fields of a project
func ValidateProject(f ProjectFields) []utils.Violation { return utils.ValidateStruct(f) }

// ValidateTask checks required fields of a task
func ValidateTask(f TaskFields) []utils.Violation { return utils.ValidateStruct(f) }

// ValidateClient checks required fields of a client
func ValidateClient(f ClientFields) []utils.Violation { return utils.ValidateStruct(f) }

// ValidateTeam checks required fields of a team
func ValidateTeam(f TeamFields) []utils.Violation { return utils.ValidateStruct(f) }

// ValidateMilestone checks required fields of a milestone
func ValidateMilestone(f MilestoneFields) []utils.Violation { return utils.ValidateStruct(f) }

// ValidateFeedback checks required fields of a feedback submission
func ValidateFeedback(f FeedbackFields) []utils.Violation { return utils.ValidateStruct(f) }

// ValidateUser checks required fields of an account
func ValidateUser(f UserFields) []utils.Violation { return utils.ValidateStruct(f) }

// timestampCollector parses optional timestamps and gathers format violations
type timestampCollector struct {
	violations []utils.Violation
}

// parse returns nil for a nil or empty value
func (c *timestampCollector) parse(field string, raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	t, err := utils.ParseTimestamp(*raw)
	if err != nil {
		c.violations = append(c.violations, utils.Violation{
			Field:   field,
			Message: fmt.Sprintf("%s must be a valid date-time", field),
		})
		return nil
	}
	return &t
}

// parseOptional resolves a tri-state timestamp; keep reports an absent key
func (c *timestampCollector) parseOptional(field string, o dto.Optional[string]) (t *time.Time, keep bool) {
	if !o.Set {
		return nil, true
	}
	if o.Null {
		return nil, false
	}
	return c.parse(field, &o.Value), false
}

// check combines format violations with struct violations
func check(format []utils.Violation, fields []utils.Violation) error {
	all := append(append([]utils.Violation{}, format...), fields...)
	if len(all) == 0 {
		return nil
	}
	return invalid(all...)
}

// blankToNil drops empty strings from optional text fields
func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	if trimmed := strings.TrimSpace(*s); trimmed == "" {
		return nil
	}
	return s
}
