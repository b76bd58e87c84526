package core

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/bndr/gotabulate"
	"github.com/gorilla/schema"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	customRawKey = "@raw" // used to store non-object list items in Record
)

var empty = struct{}{}

// Attributes shown as their own rows by PrettyTable; everything else is
// collapsed into a single compact JSON row.
var printableAttrs = map[string]struct{}{
	"tag":           empty,
	"id":            empty,
	"name":          empty,
	"countryCode":   empty,
	"isCountry":     empty,
	"type":          empty,
	"role":          empty,
	"rank":          empty,
	"previousRank":  empty,
	"clanLevel":     empty,
	"clanPoints":    empty,
	"members":       empty,
	"expLevel":      empty,
	"trophies":      empty,
	"townHallLevel": empty,
	"warFrequency":  empty,
	"startTime":     empty,
	"endTime":       empty,
	customRawKey:    empty,
}

//  ######################################################
//              FUNCTION PARAMS
//  ######################################################

// Params represents a generic set of key-value parameters,
// used for constructing query strings.
type Params map[string]any

// ToQuery serializes the Params into a URL-encoded query string.
// Values are stringified using fmt.Sprint.
func (pr Params) ToQuery() string {
	values := url.Values{}
	for k, v := range pr {
		values.Set(k, fmt.Sprint(v))
	}
	return values.Encode()
}

// Copy returns an independent shallow copy. A nil receiver yields an empty map.
func (pr Params) Copy() Params {
	out := make(Params, len(pr))
	for k, v := range pr {
		out[k] = v
	}
	return out
}

// Update merges another Params map into the original Params.
// Keys of `other` always replace existing values (last applied wins).
func (pr Params) Update(other Params) {
	for key, value := range other {
		pr[key] = value
	}
}

// Without removes the specified keys from the Params map.
func (pr Params) Without(keys ...string) {
	for _, key := range keys {
		delete(pr, key)
	}
}

var queryEncoder = func() *schema.Encoder {
	enc := schema.NewEncoder()
	enc.SetAliasTag("url")
	return enc
}()

// ParamsFromStruct converts a typed query struct into Params using its `url` tags.
// Zero values tagged with `omitempty` are skipped. Multi-valued fields are joined
// with commas, which is how the API expects lists such as labelIds.
//
// Example usage:
//
//	type ClanSearch struct {
//	    Name       string `url:"name,omitempty"`
//	    MinMembers int    `url:"minMembers,omitempty"`
//	}
//
//	params, err := ParamsFromStruct(ClanSearch{Name: "pupus", MinMembers: 10})
//	// params now contains: {"name": "pupus", "minMembers": "10"}
func ParamsFromStruct(obj any) (Params, error) {
	params := make(Params)
	if obj == nil {
		return params, nil
	}
	val := reflect.ValueOf(obj)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return params, nil
		}
		obj = val.Elem().Interface()
	}
	values := url.Values{}
	if err := queryEncoder.Encode(obj, values); err != nil {
		return nil, fmt.Errorf("failed to encode query struct: %w", err)
	}
	for key, vals := range values {
		params[key] = strings.Join(vals, ",")
	}
	return params, nil
}

//  ######################################################
//              RETURN TYPES
//  ######################################################

// getPrintableAttrs returns a slice of keys to be printed from the Record
func getPrintableAttrs(r Record) []string {
	var attrs []string
	for key := range r {
		if _, ok := printableAttrs[key]; ok {
			attrs = append(attrs, key)
		}
	}
	sort.Strings(attrs) // Sort to keep consistent order
	return attrs
}

// Renderable is an interface implemented by types that can render themselves
// into a human-readable string format, typically for CLI display or logging.
type Renderable interface {
	PrettyTable() string
	PrettyJson(indent ...string) string
}

// Record represents a single generic data object as a key-value map.
// It's commonly used to unmarshal a single JSON object from an API response.
type Record map[string]any

// RecordSet represents a list of Record objects.
// It is typically used to represent the `items` of a collection response.
type RecordSet []Record

// Fill populates the exported fields of the given struct pointer using values
// from the Record via JSON marshaling, so `json` tags drive the mapping.
func (r Record) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a struct")
	}
	if val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("container must point to a struct")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, container)
}

// RecordTag returns the "tag" field (clans and players are addressed by tag).
func (r Record) RecordTag() string {
	tag, ok := r["tag"]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", tag)
}

// RecordName returns the "name" field as a string, or "" if absent.
func (r Record) RecordName() string {
	nameVal, ok := r["name"]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", nameVal)
}

// PrettyTable prints a single Record as a table
func (r Record) PrettyTable() string {
	if len(r) == 0 {
		return "<>"
	}
	headers := []string{"attr", "value"}
	var rows [][]any
	for _, key := range getPrintableAttrs(r) {
		if val := r[key]; val != nil {
			rows = append(rows, []any{key, fmt.Sprintf("%v", val)})
		}
	}

	remainingAttrs := make(map[string]any)
	for key, value := range r {
		if _, ok := printableAttrs[key]; !ok && value != nil {
			remainingAttrs[key] = value
		}
	}
	if len(remainingAttrs) > 0 {
		remainingJSON, _ := json.Marshal(remainingAttrs)
		rows = append(rows, []any{"<<remaining attrs>>", string(remainingJSON)})
	}
	if len(rows) == 0 {
		return "<>"
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	return t.Render("grid")
}

// PrettyJson prints the Record as JSON, optionally indented
func (r Record) PrettyJson(indent ...string) string {
	return prettyJson(r, indent...)
}

// ToMsgpack encodes the Record with msgpack.
func (r Record) ToMsgpack() ([]byte, error) {
	return msgpack.Marshal(map[string]any(r))
}

func (r Record) Empty() bool {
	return len(r) == 0
}

func (r Record) String() string {
	return r.PrettyTable()
}

// Fill populates the provided container slice with data from the RecordSet.
// The container must be a non-nil pointer to a slice of structs or struct pointers.
//
// Example usage:
//
//	var members []ClanMember
//	err := recordSet.Fill(&members)
func (rs RecordSet) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a slice")
	}

	sliceVal := val.Elem()
	if sliceVal.Kind() != reflect.Slice {
		return fmt.Errorf("container must point to a slice")
	}

	elemType := sliceVal.Type().Elem()
	isPtrElem := elemType.Kind() == reflect.Ptr
	targetType := elemType
	if isPtrElem {
		targetType = elemType.Elem()
	}
	if targetType.Kind() != reflect.Struct {
		return fmt.Errorf("slice element must be a struct or a pointer to a struct")
	}

	for _, record := range rs {
		elemPtr := reflect.New(targetType)
		if err := record.Fill(elemPtr.Interface()); err != nil {
			return err
		}
		if isPtrElem {
			sliceVal.Set(reflect.Append(sliceVal, elemPtr))
		} else {
			sliceVal.Set(reflect.Append(sliceVal, elemPtr.Elem()))
		}
	}
	return nil
}

// PrettyTable prints the full RecordSet by rendering each individual Record
func (rs RecordSet) PrettyTable() string {
	if len(rs) == 0 {
		return "[]"
	}
	var out strings.Builder
	out.WriteString("[\n")
	for i, record := range rs {
		out.WriteString(record.PrettyTable())
		if i < len(rs)-1 {
			out.WriteString("\n\n") // separate entries with a blank line
		}
	}
	out.WriteString("\n]")
	return out.String()
}

func (rs RecordSet) Empty() bool {
	return len(rs) == 0
}

// PrettyJson prints the RecordSet as JSON, optionally indented
func (rs RecordSet) PrettyJson(indent ...string) string {
	return prettyJson(rs, indent...)
}

// ToMsgpack encodes the RecordSet with msgpack.
func (rs RecordSet) ToMsgpack() ([]byte, error) {
	plain := make([]map[string]any, len(rs))
	for i, rec := range rs {
		plain[i] = rec
	}
	return msgpack.Marshal(plain)
}

func prettyJson(v any, indent ...string) string {
	var b []byte
	var err error
	if len(indent) > 0 {
		b, err = json.MarshalIndent(v, "", indent[0])
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}

// toRecordSet converts the decoded `items` array. Elements that are not JSON
// objects are kept under the @raw key.
func toRecordSet(items []any) RecordSet {
	records := make(RecordSet, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			records = append(records, Record(m))
		} else {
			records = append(records, Record{customRawKey: item})
		}
	}
	return records
}
