package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ResultKind tags the variant carried by a Result.
type ResultKind int

const (
	KindRecord    ResultKind = iota // single mapping (RecordResult)
	KindList                        // ordered records (ListResult)
	KindRaw                         // untouched transport response (extraction disabled)
	KindMalformed                   // body could not be normalized
)

func (k ResultKind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindList:
		return "list"
	case KindRaw:
		return "raw"
	case KindMalformed:
		return "malformed"
	}
	return fmt.Sprintf("ResultKind(%d)", int(k))
}

// Result is the outcome of executing an ApiCall.
//
// Implementations:
//   - *RecordResult: a single JSON object (also every failed call).
//   - *ListResult: the `items` of a collection response.
//   - *RawResponse: the transport response, returned when extraction is disabled.
//   - *MalformedResult: the body could not be normalized; the raw response is kept.
type Result interface {
	Renderable
	Kind() ResultKind
	StatusCode() int
	Headers() map[string]string
	// ErrorMessage returns the API-reported error and whether one was present.
	ErrorMessage() (string, bool)
	// HasError reports a non-success status code.
	HasError() bool
	// Next and Previous return builders primed to fetch the adjacent page, or nil.
	Next() *ApiCall
	Previous() *ApiCall
}

// ResponseMeta holds the metadata attached to every normalized result.
type ResponseMeta struct {
	Status     int
	Header     map[string]string
	Error      string
	errorSet   bool
	NextCall   *ApiCall
	PrevCall   *ApiCall
	requestURL string
	method     string
}

func (m *ResponseMeta) StatusCode() int            { return m.Status }
func (m *ResponseMeta) Headers() map[string]string { return m.Header }
func (m *ResponseMeta) HasError() bool             { return !isSuccess(m.Status) }
func (m *ResponseMeta) Next() *ApiCall             { return m.NextCall }
func (m *ResponseMeta) Previous() *ApiCall         { return m.PrevCall }

func (m *ResponseMeta) ErrorMessage() (string, bool) {
	return m.Error, m.errorSet
}

// AsError converts a failed result into an *ApiError. It returns nil for successful results.
func (m *ResponseMeta) AsError() error {
	if !m.HasError() {
		return nil
	}
	return &ApiError{Method: m.method, URL: m.requestURL, StatusCode: m.Status, Message: m.Error}
}

// RecordResult is a normalized single-object response.
type RecordResult struct {
	ResponseMeta
	Record
}

func (r *RecordResult) Kind() ResultKind                   { return KindRecord }
func (r *RecordResult) PrettyTable() string                { return r.Record.PrettyTable() }
func (r *RecordResult) PrettyJson(indent ...string) string { return r.Record.PrettyJson(indent...) }

// ListResult is a normalized collection response built from the `items` key.
type ListResult struct {
	ResponseMeta
	Items RecordSet
}

func (r *ListResult) Kind() ResultKind                   { return KindList }
func (r *ListResult) PrettyTable() string                { return r.Items.PrettyTable() }
func (r *ListResult) PrettyJson(indent ...string) string { return r.Items.PrettyJson(indent...) }

// RawResponse is the transport-level response: status, headers and body bytes.
type RawResponse struct {
	Status int
	Header http.Header
	Body   []byte
	Method string
	URL    string
}

func (r *RawResponse) Kind() ResultKind { return KindRaw }
func (r *RawResponse) StatusCode() int  { return r.Status }
func (r *RawResponse) HasError() bool   { return !isSuccess(r.Status) }
func (r *RawResponse) Next() *ApiCall   { return nil }
func (r *RawResponse) Previous() *ApiCall {
	return nil
}

func (r *RawResponse) ErrorMessage() (string, bool) { return "", false }

func (r *RawResponse) Headers() map[string]string {
	return flattenHeaders(r.Header)
}

func (r *RawResponse) PrettyTable() string {
	return fmt.Sprintf("%s %s -> %d\n%s", r.Method, r.URL, r.Status, r.PrettyJson("  "))
}

// PrettyJson indents the body when it is JSON and returns it verbatim otherwise.
func (r *RawResponse) PrettyJson(indent ...string) string {
	var b bytes.Buffer
	ind := ""
	if len(indent) > 0 {
		ind = indent[0]
	}
	if err := json.Indent(&b, r.Body, "", ind); err == nil {
		return b.String()
	}
	return string(r.Body)
}

// MalformedResult is returned instead of a normalized value when the body is not
// a JSON object, or its `items` is not an array.
type MalformedResult struct {
	*RawResponse
	Err error
}

func (r *MalformedResult) Kind() ResultKind { return KindMalformed }

// WrapResponse normalizes a transport response produced by call.
func WrapResponse(raw *RawResponse, call *ApiCall) Result {
	malformed := func(reason string) Result {
		return &MalformedResult{
			RawResponse: raw,
			Err:         &MalformedError{StatusCode: raw.Status, Reason: reason},
		}
	}

	decoder := json.NewDecoder(bytes.NewReader(raw.Body))
	decoder.UseNumber()
	var body map[string]any
	if err := decoder.Decode(&body); err != nil {
		return malformed(err.Error())
	}
	if body == nil {
		return malformed("body is null")
	}
	if decoder.More() {
		return malformed("trailing data after JSON object")
	}
	body = denumber(body).(map[string]any)

	meta := ResponseMeta{
		Status:     raw.Status,
		Header:     flattenHeaders(raw.Header),
		requestURL: raw.URL,
		method:     raw.Method,
	}

	if !isSuccess(raw.Status) {
		if v, ok := body[errorKey]; ok {
			meta.Error, meta.errorSet = fmt.Sprint(v), true
		} else if v, ok := body[messageKey]; ok {
			meta.Error, meta.errorSet = fmt.Sprint(v), true
		}
		return &RecordResult{ResponseMeta: meta, Record: Record(body)}
	}

	if cursors := pagingCursors(body); cursors != nil {
		if after, ok := cursors[afterKey]; ok {
			meta.NextCall = call.withCursor(afterKey, cursorValue(after))
		}
		if before, ok := cursors[beforeKey]; ok {
			meta.PrevCall = call.withCursor(beforeKey, cursorValue(before))
		}
	}

	if rawItems, ok := body[itemsKey]; ok {
		items, isList := rawItems.([]any)
		if !isList && rawItems != nil {
			return malformed(fmt.Sprintf("%q is %T, not an array", itemsKey, rawItems))
		}
		return &ListResult{ResponseMeta: meta, Items: toRecordSet(items)}
	}
	return &RecordResult{ResponseMeta: meta, Record: Record(body)}
}

// pagingCursors returns the paging.cursors object, or nil when absent.
// A continuation exists when its key is present, whatever the value.
func pagingCursors(body map[string]any) map[string]any {
	paging, isMap := body[pagingKey].(map[string]any)
	if !isMap {
		return nil
	}
	cursors, _ := paging[cursorsKey].(map[string]any)
	return cursors
}

// cursorValue renders a null cursor as an empty query value.
func cursorValue(v any) any {
	if v == nil {
		return ""
	}
	return v
}

// denumber converts json.Number values decoded with UseNumber into int64 when
// integral and float64 otherwise, so tags and ids keep their exact value.
func denumber(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		for k, item := range typed {
			typed[k] = denumber(item)
		}
		return typed
	case []any:
		for i, item := range typed {
			typed[i] = denumber(item)
		}
		return typed
	case json.Number:
		if i, err := typed.Int64(); err == nil {
			return i
		}
		if f, err := typed.Float64(); err == nil {
			return f
		}
		return typed.String()
	}
	return v
}

// isSuccess mirrors the usual "ok" semantics: any status below 400.
func isSuccess(status int) bool {
	return status > 0 && status < http.StatusBadRequest
}

// flattenHeaders keeps one value per canonical header name, joining repeats with ", ".
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for key, values := range h {
		out[http.CanonicalHeaderKey(key)] = strings.Join(values, ", ")
	}
	return out
}
