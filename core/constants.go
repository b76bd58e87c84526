package core

// HTTP-related constants for REST operations
// These constants provide type-safe header names, content types, and auth types

// HTTP Header Names
const (
	HeaderAccept        = "Accept"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
	HeaderRequestID     = "X-Request-Id"
)

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
)

// HTTP Authentication Types
const (
	AuthTypeBearer = "Bearer"
)

// API defaults
const (
	DefaultEndpoint   = "https://api.clashofclans.com"
	DefaultApiVersion = "v1"
)

// Attribute names starting with privateMarker never become path segments.
const privateMarker = "_"

// Well known keys of the API payloads
const (
	itemsKey   = "items"
	pagingKey  = "paging"
	cursorsKey = "cursors"
	afterKey   = "after"
	beforeKey  = "before"
	errorKey   = "error"
	messageKey = "message"
	limitKey   = "limit"
)
