package openapi_schema

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// IsObject returns true if the given OpenAPI schema represents an object type
func IsObject(prop *openapi3.Schema) bool {
	return prop != nil && prop.Type != nil && len(*prop.Type) > 0 && (*prop.Type)[0] == openapi3.TypeObject
}

// IsPrimitive returns true if the given OpenAPI schema represents a primitive type
// (string, integer, number, or boolean).
func IsPrimitive(prop *openapi3.Schema) bool {
	switch GetSchemaType(prop) {
	case openapi3.TypeString, openapi3.TypeInteger, openapi3.TypeNumber, openapi3.TypeBoolean:
		return true
	}
	return false
}

// GetSchemaType returns the type string of the given OpenAPI schema
func GetSchemaType(s *openapi3.Schema) string {
	if s == nil || s.Type == nil || len(*s.Type) == 0 {
		return ""
	}
	return (*s.Type)[0]
}

// PropertyNames returns the sorted property names of an object schema.
func PropertyNames(s *openapi3.Schema) []string {
	if !IsObject(s) {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
