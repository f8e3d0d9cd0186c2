package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/request"
)

const (
	maxPortfolioNameLength        = 100
	maxPortfolioDescriptionLength = 500
)

// ValidateCreatePortfolio checks that a name is given and that both text fields fit their column limits.
func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	fields := make(map[string]string)

	if msg := checkPortfolioName(req.Name, "name is required"); msg != "" {
		fields["name"] = msg
	}
	if msg := checkPortfolioDescription(req.Description); msg != "" {
		fields["description"] = msg
	}

	return fieldError(fields)
}

// ValidateUpdatePortfolio validates a partial update. Omitted fields are left alone,
// but a provided name may not be blank.
func ValidateUpdatePortfolio(req request.UpdatePortfolioRequest) error {
	fields := make(map[string]string)

	if req.Name != nil {
		if msg := checkPortfolioName(*req.Name, "name cannot be empty"); msg != "" {
			fields["name"] = msg
		}
	}
	if req.Description != nil {
		if msg := checkPortfolioDescription(*req.Description); msg != "" {
			fields["description"] = msg
		}
	}

	return fieldError(fields)
}

func checkPortfolioName(name, blankMsg string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return blankMsg
	case utf8.RuneCountInString(name) > maxPortfolioNameLength:
		return fmt.Sprintf("name must be %d characters or less", maxPortfolioNameLength)
	}
	return ""
}

func checkPortfolioDescription(description string) string {
	if utf8.RuneCountInString(description) > maxPortfolioDescriptionLength {
		return fmt.Sprintf("description must be %d characters or less", maxPortfolioDescriptionLength)
	}
	return ""
}

func fieldError(fields map[string]string) error {
	if len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}
