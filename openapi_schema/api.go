package openapi_schema

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	//go:embed coc-api.json
	FS             embed.FS
	openApiDocOnce sync.Once
	openApiDoc     *openapi3.T
	openApiDocErr  error
	schemaRelPath  = "coc-api.json"

	routesOnce sync.Once
	routes     []*Route
)

var (
	ErrRouteNotFound    = errors.New("route not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrUnknownParameter = errors.New("unknown query parameter")
)

// loadOpenAPIDocOnce loads, parses and validates the embedded OpenAPI v3 document exactly once.
// Errors encountered during the initial load are cached and returned on subsequent calls.
func loadOpenAPIDocOnce() (*openapi3.T, error) {
	openApiDocOnce.Do(func() {
		data, err := FS.ReadFile(schemaRelPath)
		if err != nil {
			openApiDocErr = fmt.Errorf("read embedded document: %w", err)
			return
		}
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(data)
		if err != nil {
			openApiDocErr = fmt.Errorf("parse embedded document: %w", err)
			return
		}
		if err = doc.Validate(context.Background()); err != nil {
			openApiDocErr = fmt.Errorf("invalid embedded document: %w", err)
			return
		}
		openApiDoc = doc
	})

	return openApiDoc, openApiDocErr
}

// LoadDocument returns the parsed OpenAPI document describing the public API routes.
func LoadDocument() (*openapi3.T, error) {
	return loadOpenAPIDocOnce()
}

// GetOpenApiResource returns the path item registered under the exact template,
// e.g. "/clans/{clanTag}/members". Leading and trailing slashes are optional.
func GetOpenApiResource(resourcePath string) (*openapi3.PathItem, error) {
	doc, err := loadOpenAPIDocOnce()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	base := "/" + strings.Trim(resourcePath, "/")
	if item := doc.Paths.Value(base); item != nil {
		return item, nil
	}
	return nil, fmt.Errorf("%w: %q is not a documented path", ErrRouteNotFound, resourcePath)
}

// GetSchemaFromComponent retrieves a schema by component name (e.g. "Clan").
func GetSchemaFromComponent(componentName string) (*openapi3.SchemaRef, error) {
	doc, err := loadOpenAPIDocOnce()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	content, ok := doc.Components.Schemas[componentName]
	if !ok || content.Value == nil {
		return nil, fmt.Errorf("component schema %q not found in OpenAPI document", componentName)
	}
	return content, nil
}

// ######################################################
//              ROUTES
// ######################################################

// Route is one documented path template with the operations it supports.
type Route struct {
	Path       string // e.g. "/locations/{locationId}/rankings/clans"
	segments   []string
	operations map[string]*openapi3.Operation
}

// Methods returns the supported HTTP methods in sorted order.
func (r *Route) Methods() []string {
	methods := make([]string, 0, len(r.operations))
	for method := range r.operations {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

// Operation returns the operation for method, or nil if the route does not support it.
func (r *Route) Operation(method string) *openapi3.Operation {
	return r.operations[strings.ToUpper(method)]
}

// Summary returns the operation summary for method.
func (r *Route) Summary(method string) string {
	if op := r.Operation(method); op != nil {
		return op.Summary
	}
	return ""
}

// QueryParameters returns the names of the query parameters accepted by method.
func (r *Route) QueryParameters(method string) []string {
	op := r.Operation(method)
	if op == nil {
		return nil
	}
	var names []string
	for _, paramRef := range op.Parameters {
		if paramRef == nil || paramRef.Value == nil {
			continue
		}
		if strings.EqualFold(paramRef.Value.In, openapi3.ParameterInQuery) {
			names = append(names, paramRef.Value.Name)
		}
	}
	sort.Strings(names)
	return names
}

// literals counts the non-template segments; used to prefer the most specific match.
func (r *Route) literals() int {
	n := 0
	for _, seg := range r.segments {
		if !isTemplate(seg) {
			n++
		}
	}
	return n
}

func (r *Route) matches(parts []string) bool {
	if len(parts) != len(r.segments) {
		return false
	}
	for i, seg := range r.segments {
		if isTemplate(seg) {
			if parts[i] == "" {
				return false
			}
			continue
		}
		if seg != parts[i] {
			return false
		}
	}
	return true
}

func isTemplate(segment string) bool {
	return strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}

// Routes returns every documented route sorted by path.
func Routes() ([]*Route, error) {
	doc, err := loadOpenAPIDocOnce()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	routesOnce.Do(func() {
		for path, item := range doc.Paths.Map() {
			route := &Route{
				Path:       path,
				segments:   strings.Split(strings.Trim(path, "/"), "/"),
				operations: item.Operations(),
			}
			routes = append(routes, route)
		}
		sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })
	})
	return routes, nil
}

// MatchPath finds the route whose template matches the unescaped path segments,
// e.g. ["clans", "#8R9LRVGU", "members"] matches "/clans/{clanTag}/members".
// When several templates match, the one with the most literal segments wins.
func MatchPath(parts []string) (*Route, error) {
	all, err := Routes()
	if err != nil {
		return nil, err
	}
	var best *Route
	for _, route := range all {
		if !route.matches(parts) {
			continue
		}
		if best == nil || route.literals() > best.literals() {
			best = route
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: /%s", ErrRouteNotFound, strings.Join(parts, "/"))
	}
	return best, nil
}

// ValidateCall checks that method and the path segments address a documented
// operation and that every query parameter name is accepted by it.
func ValidateCall(method string, parts []string, queryNames []string) error {
	route, err := MatchPath(parts)
	if err != nil {
		return err
	}
	if method == "" {
		method = http.MethodGet
	}
	if route.Operation(method) == nil {
		return fmt.Errorf("%w: %s %s (available methods: %v)", ErrMethodNotAllowed, method, route.Path, route.Methods())
	}
	accepted := route.QueryParameters(method)
	for _, name := range queryNames {
		idx := sort.SearchStrings(accepted, name)
		if idx == len(accepted) || accepted[idx] != name {
			return fmt.Errorf("%w: %q for %s %s (accepted: %v)", ErrUnknownParameter, name, method, route.Path, accepted)
		}
	}
	return nil
}
