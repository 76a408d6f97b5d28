package model

// Session binds an authenticated caller to an account and its role.
// AccountRef is the account's userID.
type Session struct {
	AccountRef string `json:"account_ref"`
	Role       string `json:"role"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
