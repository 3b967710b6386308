package forum

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// DefaultPageLimit is the page size the API assumes when a request does not
// carry page[limit].
const DefaultPageLimit = 20

// Default includes requested for every list load.
var defaultIncludes = []string{"user", "lastPostedUser"}

// Params are the user-facing list parameters: search query, sort key and any
// extra filters selected in the UI.
type Params struct {
	Q      string
	Sort   string
	Filter map[string]any
}

// HasFilter reports whether any extra filter is active.
func (p Params) HasFilter() bool {
	return len(p.Filter) > 0
}

// Clone returns a copy that does not share the filter map.
func (p Params) Clone() Params {
	out := Params{Q: p.Q, Sort: p.Sort}
	if p.Filter != nil {
		out.Filter = make(map[string]any, len(p.Filter))
		for k, v := range p.Filter {
			out.Filter[k] = v
		}
	}
	return out
}

// SortMap maps UI sort keys to API sort expressions.
func SortMap(withQuery bool) map[string]string {
	m := map[string]string{
		"latest": "-lastPostedAt",
		"top":    "-commentCount",
		"newest": "-createdAt",
		"oldest": "createdAt",
	}
	if withQuery {
		m["relevance"] = ""
	}
	return m
}

// IsDefaultSort reports whether sort leaves the list in its natural
// newest-activity-first order.
func IsDefaultSort(sort string) bool {
	return sort == "" || sort == "latest" || sort == "-lastPostedAt"
}

// RequestParams is the API request derived from Params plus the window to load.
type RequestParams struct {
	Include []string
	Filter  map[string]any
	Sort    string
	Offset  int
	Limit   int
}

// BuildRequestParams derives the request parameters of a list load.
func BuildRequestParams(p Params) RequestParams {
	req := RequestParams{
		Include: append([]string(nil), defaultIncludes...),
		Filter:  map[string]any{},
	}
	for k, v := range p.Filter {
		req.Filter[k] = v
	}
	req.Sort = SortMap(p.Q != "")[p.Sort]
	if p.Q != "" {
		req.Filter["q"] = p.Q
		req.Include = append(req.Include, "mostRelevantPost", "mostRelevantPost.user")
	}
	return req
}

// IncludeParam joins the include list the way the API expects it.
func (r RequestParams) IncludeParam() string {
	return strings.Join(r.Include, ",")
}

// Values encodes the request as API query values.
func (r RequestParams) Values() url.Values {
	v := url.Values{}
	if len(r.Include) > 0 {
		v.Set("include", r.IncludeParam())
	}
	keys := make([]string, 0, len(r.Filter))
	for k := range r.Filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Set("filter["+k+"]", fmt.Sprint(r.Filter[k]))
	}
	if r.Sort != "" {
		v.Set("sort", r.Sort)
	}
	v.Set("page[offset]", strconv.Itoa(r.Offset))
	if r.Limit > 0 {
		v.Set("page[limit]", strconv.Itoa(r.Limit))
	}
	return v
}

// ParseRequestParams decodes API query values. A missing page[limit] yields
// DefaultPageLimit; malformed numbers are rejected.
func ParseRequestParams(v url.Values) (RequestParams, error) {
	req := RequestParams{Filter: map[string]any{}, Limit: DefaultPageLimit}
	if inc := v.Get("include"); inc != "" {
		req.Include = strings.Split(inc, ",")
	}
	for key, vals := range v {
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") && len(vals) > 0 {
			name := key[len("filter[") : len(key)-1]
			if name != "" {
				req.Filter[name] = vals[0]
			}
		}
	}
	req.Sort = v.Get("sort")

	if raw := v.Get("page[offset]"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return req, fmt.Errorf("invalid page[offset] %q", raw)
		}
		req.Offset = n
	}
	if raw := v.Get("page[limit]"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return req, fmt.Errorf("invalid page[limit] %q", raw)
		}
		req.Limit = n
	}
	return req, nil
}
