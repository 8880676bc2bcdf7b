package types

import "strings"

// Address is the customer shipping address captured with a fulfillment order.
// Stored as jsonb; platforms differ in which fields they populate, so every
// field is optional.
type Address struct {
	Name        string `json:"name,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Address1    string `json:"address1,omitempty"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city,omitempty"`
	Province    string `json:"province,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Zip         string `json:"zip,omitempty"`
}

// SplitName returns the recipient's first and last name, falling back to
// splitting the full name when the explicit fields are absent.
func (a Address) SplitName() (string, string) {
	firstSource := a.FirstName
	if firstSource == "" {
		firstSource = a.Name
	}
	lastSource := a.LastName
	if lastSource == "" {
		lastSource = a.Name
	}

	var first, last string
	if parts := strings.Fields(firstSource); len(parts) > 0 {
		first = parts[0]
	}
	if parts := strings.Fields(lastSource); len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	}
	return first, last
}

// CountryOrCode prefers the ISO country code over the display name.
func (a Address) CountryOrCode() string {
	if a.CountryCode != "" {
		return a.CountryCode
	}
	return a.Country
}
