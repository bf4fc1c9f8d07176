package handlers

import (
	"net/mail"
	"strings"
	"time"
)

const minPasswordLength = 6

// Request validation happens at the boundary, before any storage call.
// Each validator returns the full list of field errors so clients can
// show them all at once.

func validateRegister(req RegisterRequest) []FieldError {
	var fieldErrors []FieldError
	if strings.TrimSpace(req.Name) == "" {
		fieldErrors = append(fieldErrors, FieldError{Msg: "Name is required", Param: "name"})
	}
	if !validEmail(req.Email) {
		fieldErrors = append(fieldErrors, FieldError{Msg: "Please include a valid email", Param: "email"})
	}
	if len(req.Password) < minPasswordLength {
		fieldErrors = append(fieldErrors, FieldError{Msg: "Please enter a password with 6 or more characters", Param: "password"})
	}
	return fieldErrors
}

func validateLogin(req LoginRequest) []FieldError {
	var fieldErrors []FieldError
	if !validEmail(req.Email) {
		fieldErrors = append(fieldErrors, FieldError{Msg: "Please include a valid email", Param: "email"})
	}
	if req.Password == "" {
		fieldErrors = append(fieldErrors, FieldError{Msg: "Password is required", Param: "password"})
	}
	return fieldErrors
}

func validateProfile(req ProfileUpsertRequest) []FieldError {
	var fieldErrors []FieldError
	if strings.TrimSpace(req.Status) == "" {
		fieldErrors = append(fieldErrors, FieldError{Msg: "Status is required", Param: "status"})
	}
	if strings.TrimSpace(req.Skills) == "" {
		fieldErrors = append(fieldErrors, FieldError{Msg: "Skills is required", Param: "skills"})
	}
	return fieldErrors
}

func validateExperience(req ExperienceRequest) []FieldError {
	var fieldErrors []FieldError
	if strings.TrimSpace(req.Title) == "" {
		fieldErrors = append(fieldErrors, FieldError{Msg: "Title is required", Param: "title"})
	}
	if strings.TrimSpace(req.Company) == "" {
		fieldErrors = append(fieldErrors, FieldError{Msg: "Company is required", Param: "company"})
	}
	if _, err := parseDate(req.From); err != nil {
		fieldErrors = append(fieldErrors, FieldError{Msg: "From date is required", Param: "from"})
	}
	return fieldErrors
}

func validateEducation(req EducationRequest) []FieldError {
	var fieldErrors []FieldError
	if strings.TrimSpace(req.School) == "" {
		fieldErrors = append(fieldErrors, FieldError{Msg: "School is required", Param: "school"})
	}
	if strings.TrimSpace(req.Degree) == "" {
		fieldErrors = append(fieldErrors, FieldError{Msg: "Degree is required", Param: "degree"})
	}
	if strings.TrimSpace(req.FieldOfStudy) == "" {
		fieldErrors = append(fieldErrors, FieldError{Msg: "Field of study is required", Param: "field_of_study"})
	}
	if _, err := parseDate(req.From); err != nil {
		fieldErrors = append(fieldErrors, FieldError{Msg: "From date is required", Param: "from"})
	}
	return fieldErrors
}

func validateText(text string) []FieldError {
	if strings.TrimSpace(text) == "" {
		return []FieldError{{Msg: "Text is required", Param: "text"}}
	}
	return nil
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseOptionalDate(raw string) *time.Time {
	t, err := parseDate(raw)
	if err != nil {
		return nil
	}
	return &t
}

func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		skill := strings.TrimSpace(part)
		if skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}
