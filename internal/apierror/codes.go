package apierror

// Error type URIs following the urn:mindmirror:error:* pattern, used as
// the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:mindmirror:error:validation"

	// TypeInvalidUserID indicates a missing or malformed user identifier (400)
	TypeInvalidUserID = "urn:mindmirror:error:invalid_user_id"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:mindmirror:error:not_found"

	// TypeUnauthorized indicates missing or invalid authentication (401)
	TypeUnauthorized = "urn:mindmirror:error:unauthorized"

	// TypeRateLimit indicates too many requests (429)
	TypeRateLimit = "urn:mindmirror:error:rate_limit"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:mindmirror:error:internal"

	// TypeBadRequest indicates a malformed request (400)
	TypeBadRequest = "urn:mindmirror:error:bad_request"
)

// Titles for each error type
const (
	TitleValidation    = "Validation Error"
	TitleInvalidUserID = "Invalid User Identifier"
	TitleNotFound      = "Resource Not Found"
	TitleUnauthorized  = "Authentication Required"
	TitleRateLimit     = "Rate Limit Exceeded"
	TitleInternal      = "Internal Server Error"
	TitleBadRequest    = "Bad Request"
)
