package domain

import "strings"

type CreateHabitForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// ValidateCreateHabit checks a creation form before it reaches the service,
// returning a message per offending field.
func ValidateCreateHabit(form CreateHabitForm) ValidationResult {
	errs := make(map[string]string)

	if strings.TrimSpace(form.Name) == "" {
		errs["name"] = "Name is required"
	}

	return ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}
