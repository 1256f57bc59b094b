package auth

// Principal is the identity attached to an incoming request.
//
// It is a plain value passed explicitly into every service operation —
// never read from global state — so the access-control rules are ordinary
// functions over their arguments and trivially testable. The zero value is
// the anonymous principal.
type Principal struct {
	UserID        string
	Username      string
	Authenticated bool
}

// Anonymous is the principal for requests carrying no (or an invalid) token.
func Anonymous() Principal {
	return Principal{}
}
