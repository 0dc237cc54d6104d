package enums

import "fmt"

// OrganizationType separates vendor, company and app-owner organizations.
type OrganizationType string

const (
	OrganizationTypeVendor   OrganizationType = "Vendor"
	OrganizationTypeCompany  OrganizationType = "Company"
	OrganizationTypeAppOwner OrganizationType = "AppOwner"
)

var validOrganizationTypes = []OrganizationType{
	OrganizationTypeVendor,
	OrganizationTypeCompany,
	OrganizationTypeAppOwner,
}

// String implements fmt.Stringer.
func (o OrganizationType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrganizationType.
func (o OrganizationType) IsValid() bool {
	for _, candidate := range validOrganizationTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrganizationType converts raw input into an OrganizationType.
func ParseOrganizationType(value string) (OrganizationType, error) {
	for _, candidate := range validOrganizationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid organization type %q", value)
}
