package core

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// BuildUri renders the absolute URL of a call:
//
//	{endpoint}/{apiVersion}/{part1}/.../{partN}?{args}
//
// Every part is stringified and path-escaped, so "#8R9LRVGU" becomes "%238R9LRVGU".
// Args are form-encoded ("you=too" becomes "you%3Dtoo"). The order of query
// parameters is sorted by key, but callers should not rely on it.
func BuildUri(endpoint, apiVersion string, parts []any, args Params) (string, error) {
	all := make([]string, 0, len(parts)+2)
	all = append(all, endpoint, apiVersion)
	for i, part := range parts {
		str, err := segmentToString(part)
		if err != nil {
			return "", &SegmentError{Index: i, Value: part}
		}
		all = append(all, url.PathEscape(str))
	}
	uri := strings.Join(all, "/")
	if len(args) > 0 {
		uri = uri + "?" + args.ToQuery()
	}
	return uri, nil
}

// segmentToString converts a path segment value to its textual form.
// Strings, integers, integral floats, json.Number and fmt.Stringer are supported.
func segmentToString(part any) (string, error) {
	switch v := part.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case fmt.Stringer:
		return v.String(), nil
	case float32:
		return floatToSegment(float64(v))
	case float64:
		return floatToSegment(v)
	case nil:
		return "", fmt.Errorf("nil segment")
	}
	val := reflect.ValueOf(part)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(val.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(val.Uint(), 10), nil
	case reflect.String:
		return val.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(val.Bool()), nil
	}
	return "", fmt.Errorf("unsupported segment type %T", part)
}

// JSON decoding turns ids into float64, so 32000260.0 must render as "32000260".
func floatToSegment(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return "", fmt.Errorf("non integral float segment %v", f)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}
