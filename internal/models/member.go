package models

// Household is the households table row.
type Household struct {
	HouseholdID string
	Name        string
	AuditFields
}

// Member is the members table row.
type Member struct {
	MemberID     string
	HouseholdID  string
	DisplayName  string
	Email        string
	IsActive     bool
	PasswordHash string
	AuditFields
}
