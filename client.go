package coc_client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/miguelcb84/go-coc-client/core"
	"github.com/miguelcb84/go-coc-client/openapi_schema"
)

type (
	CocConfig       = core.CocConfig
	CocConfigFunc   = core.CocConfigFunc
	ApiCall         = core.ApiCall
	Params          = core.Params
	Record          = core.Record
	RecordSet       = core.RecordSet
	Renderable      = core.Renderable
	Result          = core.Result
	RecordResult    = core.RecordResult
	ListResult      = core.ListResult
	RawResponse     = core.RawResponse
	MalformedResult = core.MalformedResult
	ApiError        = core.ApiError
	Iterator        = core.Iterator
)

var (
	ClientVersion = core.ClientVersion
	LoadConfig    = core.LoadConfigFile
)

// ClashOfClans is the entry point of the client: it owns the HTTP session and the
// root ApiCall every chain starts from.
type ClashOfClans struct {
	Session core.RESTSession
	root    *core.ApiCall
}

// NewClashOfClans validates config (applying defaults for the endpoint, API version,
// timeout and logger) and creates a client. With StrictRoutes enabled every request
// is checked against the embedded OpenAPI document before it is sent.
func NewClashOfClans(config *CocConfig) (*ClashOfClans, error) {
	if config == nil {
		return nil, errors.New("config must not be nil")
	}
	if err := config.Validate(core.DefaultValidators()...); err != nil {
		return nil, err
	}
	if config.StrictRoutes {
		guarded := *config
		guarded.BeforeRequestFn = routeGuard(config.Endpoint, config.BeforeRequestFn)
		config = &guarded
	}
	session, err := core.NewCocSession(config)
	if err != nil {
		return nil, err
	}
	return &ClashOfClans{Session: session, root: core.NewApiCall(session)}, nil
}

// Root returns the builder with no path segments.
func (c *ClashOfClans) Root() *ApiCall { return c.root }

// Attr starts a chain with an arbitrary first segment.
func (c *ClashOfClans) Attr(name string) *ApiCall { return c.root.Attr(name) }

// Call starts a chain with positional segments and/or query parameters.
func (c *ClashOfClans) Call(args ...any) *ApiCall { return c.root.Call(args...) }

func (c *ClashOfClans) Locations() *ApiCall          { return c.root.Attr("locations") }
func (c *ClashOfClans) Clans() *ApiCall              { return c.root.Attr("clans") }
func (c *ClashOfClans) Players() *ApiCall            { return c.root.Attr("players") }
func (c *ClashOfClans) Leagues() *ApiCall            { return c.root.Attr("leagues") }
func (c *ClashOfClans) WarLeagues() *ApiCall         { return c.root.Attr("warleagues") }
func (c *ClashOfClans) CapitalLeagues() *ApiCall     { return c.root.Attr("capitalleagues") }
func (c *ClashOfClans) BuilderBaseLeagues() *ApiCall { return c.root.Attr("builderbaseleagues") }
func (c *ClashOfClans) Labels() *ApiCall             { return c.root.Attr("labels") }
func (c *ClashOfClans) GoldPass() *ApiCall           { return c.root.Attr("goldpass") }

// Paginate returns an iterator over call. pageSize <= 0 keeps the server default.
func (c *ClashOfClans) Paginate(call *ApiCall, pageSize int) *core.PageIterator {
	return core.NewPageIterator(call, pageSize)
}

// routeGuard rejects requests that do not address a documented operation, then
// delegates to the previously configured hook. Any API version is accepted.
func routeGuard(endpoint string, next func(ctx context.Context, r *http.Request, verb, url string) error) func(ctx context.Context, r *http.Request, verb, url string) error {
	return func(ctx context.Context, r *http.Request, verb, rawURL string) error {
		parts, queryNames, err := splitCallURL(endpoint, rawURL)
		if err != nil {
			return err
		}
		if err = openapi_schema.ValidateCall(verb, parts, queryNames); err != nil {
			return fmt.Errorf("strict routes: %w", err)
		}
		if next != nil {
			return next(ctx, r, verb, rawURL)
		}
		return nil
	}
}

// splitCallURL reverses BuildUri: it returns the unescaped path segments after
// {endpoint}/{version} and the sorted query parameter names.
func splitCallURL(endpoint, rawURL string) ([]string, []string, error) {
	rest, ok := strings.CutPrefix(rawURL, strings.TrimSuffix(endpoint, "/")+"/")
	if !ok {
		return nil, nil, fmt.Errorf("strict routes: %q is not under %q", rawURL, endpoint)
	}
	path, rawQuery, _ := strings.Cut(rest, "?")
	// the first segment is the API version
	_, path, _ = strings.Cut(path, "/")
	var parts []string
	if trimmed := strings.Trim(path, "/"); trimmed != "" {
		for _, seg := range strings.Split(trimmed, "/") {
			unescaped, err := url.PathUnescape(seg)
			if err != nil {
				return nil, nil, fmt.Errorf("strict routes: %w", err)
			}
			parts = append(parts, unescaped)
		}
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("strict routes: %w", err)
	}
	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)
	return parts, names, nil
}
