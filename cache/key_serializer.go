package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// DefaultPrefix namespaces page snapshots inside the session storage.
const DefaultPrefix = "pager:dl:pagecache:"

// defaultPerPage is assumed when a request does not carry a page size.
const defaultPerPage = 20

// Request identifies a page request independently of the page number:
// route path, include list, filter object, sort and page size.
type Request struct {
	Base    string
	Include []string
	Filter  map[string]any
	Sort    string
	PerPage int
}

// canonicalKeySerializer writes requests as a JSON-like document with a fixed
// field order and sorted map keys, so that two requests that only differ in
// incidental map ordering collide to the same key.
type canonicalKeySerializer struct {
	prefix string
}

// NewDefaultKeySerializer creates the canonical key serializer.
func NewDefaultKeySerializer(prefix string) KeySerializer {
	return &canonicalKeySerializer{prefix: prefix}
}

// SerializeKey builds the key of req at page.
func (s *canonicalKeySerializer) SerializeKey(req Request, page int) string {
	return s.prefix + Fingerprint(req, page)
}

// Fingerprint is the canonical serialization of req at page, without prefix.
// A page below 1 is normalized to 1 and a missing page size to 20.
func Fingerprint(req Request, page int) string {
	perPage := req.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if page < 1 {
		page = 1
	}

	var b strings.Builder
	b.WriteString(`{"base":`)
	b.WriteString(quote(req.Base))
	b.WriteString(`,"include":`)
	if req.Include == nil {
		b.WriteString("[]")
	} else {
		b.WriteString(serializeValue(req.Include))
	}
	b.WriteString(`,"filter":`)
	if req.Filter == nil {
		b.WriteString("{}")
	} else {
		b.WriteString(serializeValue(req.Filter))
	}
	b.WriteString(`,"sort":`)
	if req.Sort == "" {
		b.WriteString("null")
	} else {
		b.WriteString(quote(req.Sort))
	}
	b.WriteString(`,"perPage":`)
	b.WriteString(strconv.Itoa(perPage))
	b.WriteString(`,"page":`)
	b.WriteString(strconv.Itoa(page))
	b.WriteString("}")
	return b.String()
}

// ParameterFingerprint serializes the page independent part of req: the
// include list, filter object and sort. A change here invalidates any data
// accumulated for the previous parameter set.
func ParameterFingerprint(req Request) string {
	var b strings.Builder
	b.WriteString(`{"include":`)
	b.WriteString(serializeValue(req.Include))
	b.WriteString(`,"filter":`)
	b.WriteString(serializeValue(req.Filter))
	b.WriteString(`,"sort":`)
	b.WriteString(quote(req.Sort))
	b.WriteString("}")
	return b.String()
}

func serializeValue(v any) string {
	if v == nil {
		return "null"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "null"
		}
		return serializeValue(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return "[]"
		}
		return serializeList(rv)
	case reflect.Array:
		return serializeList(rv)
	case reflect.Map:
		if rv.IsNil() {
			return "{}"
		}
		return serializeMap(rv)
	case reflect.String:
		return quote(rv.String())
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	}

	return jsonFallback(v)
}

func serializeList(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		parts[i] = serializeValue(rv.Index(i).Interface())
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// serializeMap writes map entries ordered by their serialized key.
func serializeMap(rv reflect.Value) string {
	type entry struct {
		key   string
		value string
	}

	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		var key string
		if k.Kind() == reflect.String {
			key = k.String()
		} else {
			key = fmt.Sprint(k.Interface())
		}
		entries = append(entries, entry{key: key, value: serializeValue(iter.Value().Interface())})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = quote(e.key) + ":" + e.value
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func quote(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(data)
}

// jsonFallback handles structs and other composite values. Marshaling
// failures degrade to the type name, which still keeps keys deterministic.
func jsonFallback(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return quote("fallback:" + reflect.TypeOf(v).String())
	}
	return string(data)
}
