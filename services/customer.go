package services

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var customerPhonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,14}$`)

// CustomerDetails identifies who a quotation is addressed to.
type CustomerDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Address string `json:"address"`
}

// Normalize trims every field and lower-cases the email.
func (c CustomerDetails) Normalize() CustomerDetails {
	return CustomerDetails{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:   strings.TrimSpace(c.Phone),
		Company: strings.TrimSpace(c.Company),
		Address: strings.TrimSpace(c.Address),
	}
}

// Validate checks the details collected before a quotation is generated.
func (c CustomerDetails) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name,
			validation.Required.Error("Customer name is required"),
			validation.Length(1, 100)),
		validation.Field(&c.Email,
			validation.Required.Error("Customer email is required"),
			is.EmailFormat.Error("Customer email is not a valid email address")),
		validation.Field(&c.Phone,
			validation.Match(customerPhonePattern).Error("Phone number is not valid")),
		validation.Field(&c.Company, validation.Length(0, 150)),
	)
}
