package constants

// Session / context keys
const (
	ContextKeyUserID  = "user_id"
	SessionCookieName = "site_session"
)

// Auth
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Scheduling
const (
	// DefaultHoursPerDay is assumed for worker assignments when the request
	// does not specify hours.
	DefaultHoursPerDay = 8

	// DateLayout is the wire format for assignment dates. Assignments are
	// granted at day granularity.
	DateLayout = "2006-01-02"
)

// AI planner
const (
	MaxAISuggestions = 20
)
