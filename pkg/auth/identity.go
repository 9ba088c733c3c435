package auth

// Identity is the caller of a request: Anonymous or Authenticated.
// The set is closed; consumers switch on the concrete type.
type Identity interface {
	isIdentity()
}

// Anonymous is a caller without a usable credential
type Anonymous struct{}

// Authenticated is a caller with a verified token
type Authenticated struct {
	UserID string
	Email  string
}

func (Anonymous) isIdentity()     {}
func (Authenticated) isIdentity() {}

// UserIDOf returns the user id for authenticated identities
func UserIDOf(id Identity) (string, bool) {
	if a, ok := id.(Authenticated); ok {
		return a.UserID, true
	}
	return "", false
}

// Describe renders an identity for log lines
func Describe(id Identity) string {
	if userID, ok := UserIDOf(id); ok {
		return userID
	}
	return "anonymous"
}
