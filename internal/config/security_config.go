package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityStaff                       // Staff access token required
)

// EndpointSecurityConfig maps "METHOD path-template" of each route to its
// required security level. Routes not listed are public.
var EndpointSecurityConfig = map[string]SecurityLevel{
	"GET /":                   SecurityPublic,
	"GET /health":             SecurityPublic,
	"POST /auth/login":        SecurityPublic,
	"GET /rooms":              SecurityPublic,
	"GET /rooms/availability": SecurityPublic,
	"POST /guests":            SecurityPublic,
	"POST /bookings":          SecurityPublic,

	"GET /guests/{id}/bookings":            SecurityPublic,
	"GET /bookings/{reference}":            SecurityPublic,
	"DELETE /bookings/{reference}":         SecurityPublic,
	"POST /bookings/{reference}/check-in":  SecurityStaff,
	"POST /bookings/{reference}/check-out": SecurityStaff,
}

// SecurityFor returns the level required for a route.
func SecurityFor(method, pathTemplate string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[method+" "+pathTemplate]; ok {
		return level
	}
	return SecurityPublic
}
