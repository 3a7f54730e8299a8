package auth

// Identity is the verified caller of an API request.
// Actor is the token subject (a username, or a well-known internal name
// like "detector" for the sweep jobs); Role gates admin surfaces.
type Identity struct {
	Actor string
	Role  string
}
