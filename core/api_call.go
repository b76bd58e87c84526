package core

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"
)

// ApiCall is an immutable, chainable descriptor of a pending REST call.
//
// REST paths are replicated with attribute and call operations. The path
//
//	/locations/32000218/rankings/clans
//
// is described by
//
//	root.Attr("locations").Call(32000218).Attr("rankings").Attr("clans")
//
// and query parameters are given as Params arguments:
//
//	root.Attr("clans").Call(Params{"name": "theclan", "minMembers": 10})
//
// Every operation returns a new ApiCall and never changes the receiver, so a
// builder can be kept as a template and extended in several directions.
type ApiCall struct {
	session      RESTSession
	bearerToken  string
	endpoint     string
	apiVersion   string
	extractItems bool
	uriParts     []any
	uriArgs      Params
}

// NewApiCall creates the root builder for the given session: no segments, no args.
func NewApiCall(session RESTSession) *ApiCall {
	config := session.GetConfig()
	extract := true
	if config.ExtractItems != nil {
		extract = *config.ExtractItems
	}
	return &ApiCall{
		session:      session,
		bearerToken:  config.BearerToken,
		endpoint:     config.Endpoint,
		apiVersion:   config.ApiVersion,
		extractItems: extract,
		uriArgs:      Params{},
	}
}

// derive returns a copy of the receiver with extra segments and args.
// Slices and maps are always copied so derived builders never alias.
func (c *ApiCall) derive(parts []any, args Params) *ApiCall {
	next := *c
	next.uriParts = make([]any, 0, len(c.uriParts)+len(parts))
	next.uriParts = append(next.uriParts, c.uriParts...)
	next.uriParts = append(next.uriParts, parts...)
	next.uriArgs = c.uriArgs.Copy()
	next.uriArgs.Update(args)
	return &next
}

// Attr appends name as a path segment. Names starting with "_" are private and
// suppressed: the receiver is returned unchanged.
func (c *ApiCall) Attr(name string) *ApiCall {
	if strings.HasPrefix(name, privateMarker) {
		return c
	}
	return c.derive([]any{name}, nil)
}

// Call appends positional arguments as path segments and merges Params
// (or map[string]any) arguments into the query parameters. When a parameter
// is given more than once, the last applied value wins. Calling with no
// arguments returns the receiver itself.
func (c *ApiCall) Call(args ...any) *ApiCall {
	if len(args) == 0 {
		return c
	}
	var (
		parts []any
		named = Params{}
	)
	for _, arg := range args {
		switch v := arg.(type) {
		case Params:
			named.Update(v)
		case map[string]any:
			named.Update(v)
		default:
			parts = append(parts, arg)
		}
	}
	return c.derive(parts, named)
}

// Query merges params into the query parameters. It is Call with named arguments only.
func (c *ApiCall) Query(params Params) *ApiCall {
	if len(params) == 0 {
		return c
	}
	return c.derive(nil, params)
}

// withCursor primes a pagination continuation. The opposite cursor is dropped
// because the API accepts only one of after/before per request.
func (c *ApiCall) withCursor(key string, cursor any) *ApiCall {
	next := c.derive(nil, Params{key: cursor})
	switch key {
	case afterKey:
		next.uriArgs.Without(beforeKey)
	case beforeKey:
		next.uriArgs.Without(afterKey)
	}
	return next
}

// WithExtractItems returns a builder with the given response extraction mode.
func (c *ApiCall) WithExtractItems(extract bool) *ApiCall {
	next := c.derive(nil, nil)
	next.extractItems = extract
	return next
}

// WithApiVersion returns a builder addressing another API version.
func (c *ApiCall) WithApiVersion(apiVersion string) *ApiCall {
	next := c.derive(nil, nil)
	next.apiVersion = apiVersion
	return next
}

// UriParts returns a copy of the accumulated path segments.
func (c *ApiCall) UriParts() []any {
	return append([]any(nil), c.uriParts...)
}

// UriArgs returns a copy of the accumulated query parameters.
func (c *ApiCall) UriArgs() Params {
	return c.uriArgs.Copy()
}

func (c *ApiCall) Endpoint() string   { return c.endpoint }
func (c *ApiCall) ApiVersion() string { return c.apiVersion }
func (c *ApiCall) ExtractItems() bool { return c.extractItems }
func (c *ApiCall) Session() RESTSession {
	return c.session
}

// BuildUri renders the absolute URL of the call.
func (c *ApiCall) BuildUri() (string, error) {
	return BuildUri(c.endpoint, c.apiVersion, c.uriParts, c.uriArgs)
}

// BuildHeaders returns the headers required by the API.
func (c *ApiCall) BuildHeaders() http.Header {
	headers := make(http.Header)
	headers.Set(HeaderAccept, ContentTypeJSON)
	headers.Set(HeaderAuthorization, AuthTypeBearer+" "+c.bearerToken)
	return headers
}

// Equal reports whether both builders describe the same call.
func (c *ApiCall) Equal(other *ApiCall) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.bearerToken != other.bearerToken ||
		c.endpoint != other.endpoint ||
		c.apiVersion != other.apiVersion ||
		c.extractItems != other.extractItems ||
		len(c.uriParts) != len(other.uriParts) ||
		len(c.uriArgs) != len(other.uriArgs) {
		return false
	}
	for i := range c.uriParts {
		if !reflect.DeepEqual(c.uriParts[i], other.uriParts[i]) {
			return false
		}
	}
	for k, v := range c.uriArgs {
		ov, ok := other.uriArgs[k]
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

// String returns the rendered URL, used in logs.
func (c *ApiCall) String() string {
	uri, err := c.BuildUri()
	if err != nil {
		return fmt.Sprintf("<invalid call: %v>", err)
	}
	return uri
}

// Get executes the call with an HTTP GET.
func (c *ApiCall) Get(ctx context.Context) (Result, error) {
	return c.process(ctx, http.MethodGet)
}

// Post executes the call with an HTTP POST and an empty body.
func (c *ApiCall) Post(ctx context.Context) (Result, error) {
	return c.process(ctx, http.MethodPost)
}

// process renders the call, performs it and normalizes the response.
// Errors are returned only for invalid segments, hook failures and transport
// faults; API-level failures are reported through the Result.
func (c *ApiCall) process(ctx context.Context, verb string) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.session == nil {
		return nil, fmt.Errorf("api call %s has no session", c)
	}
	url, err := c.BuildUri()
	if err != nil {
		return nil, err
	}
	raw, err := c.session.Do(ctx, verb, url, c.BuildHeaders())
	if err != nil {
		return nil, err
	}
	var result Result = raw
	if c.extractItems {
		result = WrapResponse(raw, c)
	}
	return doAfterRequest(ctx, c.session.GetConfig(), result)
}
