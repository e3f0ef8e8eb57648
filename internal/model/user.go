package model

// User represents a profile record.
//
// ID equals the identifier issued by the external identity provider: the
// profile store never generates user ids itself. Password is accepted on
// input, forwarded to the identity provider, and cleared before any store
// write; the omitempty tag keeps it out of responses and persisted records
// once cleared.
type User struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	MiddleName     string `json:"middleName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Password       string `json:"password,omitempty"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
	Department     string `json:"department"`
	Role           string `json:"role"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// DisplayName is the name registered with the identity provider.
func (u User) DisplayName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
