package auth

// Claims are the identity fields read from a verified access token. Tokens
// are issued by the external auth service; this module only verifies them.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

const RoleAdmin = "Admin"

func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
