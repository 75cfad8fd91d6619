package domain

// Household is a group of members who share and split finances.
type Household struct {
	HouseholdID string `json:"householdID"` // Primary Key (UUID)
	Name        string `json:"name"`
	AuditFields
}

// Member is a participant in a household. Inactive members remain addressable
// in historical splits but are excluded from new allocations.
type Member struct {
	MemberID    string `json:"memberID"` // Primary Key (UUID)
	HouseholdID string `json:"householdID"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	IsActive    bool   `json:"isActive"`
	// PasswordHash is never serialized; login only.
	PasswordHash string `json:"-"`
	AuditFields
}
