// Package urlsync keeps the page query parameter of the current location in
// step with the list state. Only the page parameter is ever touched; every
// other byte of the query string is preserved, so an encoded search such as
// q=hello+world or q=hello%20world survives navigation unchanged.
package urlsync

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-discussion-pager/internal/logging"
)

var pageParam = regexp.MustCompile(`([?&])page=\d+(&?)`)

// PageFromQuery extracts a positive page number from a raw query string
// (with or without the leading question mark).
func PageFromQuery(search string) (int, bool) {
	search = strings.TrimPrefix(search, "?")
	for _, part := range strings.Split(search, "&") {
		name, value, found := strings.Cut(part, "=")
		if !found || name != "page" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// WithPage returns search with its page parameter set to n. Page one is the
// canonical state and removes the parameter instead of writing page=1.
func WithPage(search string, n int) string {
	loc := pageParam.FindStringSubmatchIndex(search)
	if loc == nil {
		if n <= 1 {
			return search
		}
		sep := "?"
		if search != "" {
			sep = "&"
		}
		return search + sep + "page=" + strconv.Itoa(n)
	}

	sep := search[loc[2]:loc[3]]
	tail := search[loc[4]:loc[5]]

	var replacement string
	switch {
	case n > 1:
		replacement = sep + "page=" + strconv.Itoa(n) + tail
	case tail != "":
		replacement = sep
	}

	out := search[:loc[0]] + replacement + search[loc[1]:]
	if n <= 1 {
		if out == "?" {
			return ""
		}
		out = strings.TrimSuffix(out, "&")
	}
	return out
}

// Location is the current address split the way a browser exposes it.
type Location struct {
	Path   string
	Search string
	Hash   string
}

// String joins the parts back into a relative URL.
func (l Location) String() string {
	return l.Path + l.Search + l.Hash
}

// Router is an application router able to change the address. When one is
// present it takes precedence over raw history manipulation.
type Router interface {
	Current() string
	Set(url string, replace bool) error
}

// History is the fallback used when no router is mounted.
type History interface {
	Location() Location
	ReplaceState(url string) error
	PushState(url string) error
}

// Syncer reads and writes the page parameter of the current location.
type Syncer struct {
	router  Router
	history History
	logger  *slog.Logger
}

// Option customizes a Syncer.
type Option func(*Syncer)

// WithRouter mounts a router.
func WithRouter(r Router) Option {
	return func(s *Syncer) { s.router = r }
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) { s.logger = logger }
}

// NewSyncer creates a Syncer over history.
func NewSyncer(history History, opts ...Option) *Syncer {
	s := &Syncer{history: history, logger: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Page returns the page requested by the current location, if any.
func (s *Syncer) Page() (int, bool) {
	return PageFromQuery(s.location().Search)
}

// SetPage writes n into the current location. Failures are logged at debug
// level and otherwise ignored.
func (s *Syncer) SetPage(n int, replace bool) {
	loc := s.location()
	loc.Search = WithPage(loc.Search, n)
	target := loc.String()

	var err error
	switch {
	case s.router != nil:
		err = s.router.Set(target, replace)
	case s.history == nil:
		return
	case replace:
		err = s.history.ReplaceState(target)
	default:
		err = s.history.PushState(target)
	}
	if err != nil {
		s.logger.Debug("url sync: set page failed", "error", err, "page", n, "url", target)
	}
}

// Path returns the path of the current location.
func (s *Syncer) Path() string {
	return s.location().Path
}

// RouteKey fingerprints the current route for back navigation matching.
func (s *Syncer) RouteKey() string {
	if s.router != nil {
		return s.router.Current()
	}
	return s.location().String()
}

func (s *Syncer) location() Location {
	if s.router != nil {
		return ParseLocation(s.router.Current())
	}
	if s.history == nil {
		return Location{}
	}
	return s.history.Location()
}

// ParseLocation splits a relative URL into path, search and hash without
// decoding any part of it.
func ParseLocation(raw string) Location {
	var loc Location
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		loc.Hash = raw[i:]
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		loc.Search = raw[i:]
		raw = raw[:i]
	}
	loc.Path = raw
	return loc
}
