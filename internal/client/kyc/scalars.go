package kyc

import "strings"

const (
	BusinessIndividual = "individual"
	BusinessCompany    = "business"
)

// Normalize trims every value and upper-cases the identifiers.
func (s Scalars) Normalize() Scalars {
	s.AadharNumber = strings.ReplaceAll(strings.TrimSpace(s.AadharNumber), " ", "")
	s.PANNumber = strings.ToUpper(strings.TrimSpace(s.PANNumber))
	s.IFSC = strings.ToUpper(strings.TrimSpace(s.IFSC))
	s.AccountNumber = strings.TrimSpace(s.AccountNumber)
	s.AccountHolderName = strings.TrimSpace(s.AccountHolderName)
	s.BankName = strings.TrimSpace(s.BankName)
	s.BranchName = strings.TrimSpace(s.BranchName)
	s.GSTNumber = strings.ToUpper(strings.TrimSpace(s.GSTNumber))
	s.BusinessType = strings.ToLower(strings.TrimSpace(s.BusinessType))
	return s
}

// Problems lists the values a submission cannot go without. With
// requireIdentity set, the PAN and Aadhar numbers must be present. Formats are
// left to the backend.
func (s Scalars) Problems(requireIdentity bool) []string {
	var out []string

	if requireIdentity && s.PANNumber == "" {
		out = append(out, "PAN number is required")
	}
	if requireIdentity && s.AadharNumber == "" {
		out = append(out, "Aadhar number is required")
	}
	if s.BusinessType != "" && s.BusinessType != BusinessIndividual && s.BusinessType != BusinessCompany {
		out = append(out, "Business type must be individual or business")
	}

	return out
}
