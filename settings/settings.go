// Package settings holds the forum-wide pagination settings and the per-user
// preferences that can override them.
package settings

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Position is where the pagination toolbar is rendered relative to the list.
type Position string

const (
	PositionUnder Position = "under"
	PositionAbove Position = "above"
	PositionBoth  Position = "both"
)

// Settings are the forum-wide options. They are read-only for the list state.
type Settings struct {
	// CanUserPref lets users pick between numbered pages and load-more.
	CanUserPref bool `yaml:"can_user_pref"`
	// PaginationOnLoading enables numbered pages forum-wide.
	PaginationOnLoading bool `yaml:"pagination_on_loading"`
	// CacheDiscussions enables the running and session caches.
	CacheDiscussions bool `yaml:"cache_discussions"`
	// PerPage is the page size in numbered mode.
	PerPage int `yaml:"per_page"`
	// PerIndexInit is the size of the first load in load-more mode.
	PerIndexInit int `yaml:"per_index_init"`
	// PerLoadMore is the size of every further load in load-more mode.
	PerLoadMore int `yaml:"per_load_more"`
	// Position places the toolbar.
	Position Position `yaml:"pagination_position"`
}

// Preferences are the per-user overrides.
type Preferences struct {
	// UserCustom is set when the user made an explicit choice.
	UserCustom bool `yaml:"user_custom"`
	// UserPaginationOnLoading is that choice.
	UserPaginationOnLoading bool `yaml:"user_pagination_on_loading"`
}

// Default returns the stock settings.
func Default() Settings {
	return Settings{
		CanUserPref:         false,
		PaginationOnLoading: true,
		CacheDiscussions:    true,
		PerPage:             20,
		PerIndexInit:        20,
		PerLoadMore:         20,
		Position:            PositionUnder,
	}
}

// DefaultPreferences returns the preferences of a user that never chose.
func DefaultPreferences() Preferences {
	return Preferences{UserCustom: false, UserPaginationOnLoading: true}
}

// Validate checks that sizes are positive and the position is known.
func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.PerPage, validation.Required, validation.Min(1)),
		validation.Field(&s.PerIndexInit, validation.Required, validation.Min(1)),
		validation.Field(&s.PerLoadMore, validation.Required, validation.Min(1)),
		validation.Field(&s.Position, validation.Required,
			validation.In(PositionUnder, PositionAbove, PositionBoth)),
	)
}

// Paginate reports whether numbered pagination is active for a user with
// prefs. The user's own choice only counts when the forum allows it.
func (s Settings) Paginate(prefs Preferences) bool {
	if s.CanUserPref && prefs.UserCustom {
		return prefs.UserPaginationOnLoading
	}
	return s.PaginationOnLoading
}

// Load reads settings from a YAML file on top of the defaults, then applies
// environment overrides. A missing file is not an error; envFiles are loaded
// into the environment first when they exist.
func Load(path string, envFiles ...string) (Settings, error) {
	s := Default()

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return s, fmt.Errorf("settings: load %s: %w", f, err)
		}
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return s, fmt.Errorf("settings: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &s); err != nil {
				return s, fmt.Errorf("settings: parse %s: %w", path, err)
			}
		}
	}

	if err := s.applyEnv(os.LookupEnv); err != nil {
		return s, err
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings: invalid: %w", err)
	}
	return s, nil
}

// Environment variables read by Load.
const (
	EnvCanUserPref         = "PAGER_CAN_USER_PREF"
	EnvPaginationOnLoading = "PAGER_PAGINATION_ON_LOADING"
	EnvCacheDiscussions    = "PAGER_CACHE_DISCUSSIONS"
	EnvPerPage             = "PAGER_PER_PAGE"
	EnvPerIndexInit        = "PAGER_PER_INDEX_INIT"
	EnvPerLoadMore         = "PAGER_PER_LOAD_MORE"
	EnvPosition            = "PAGER_PAGINATION_POSITION"
)

func (s *Settings) applyEnv(lookup func(string) (string, bool)) error {
	bools := []struct {
		env string
		dst *bool
	}{
		{EnvCanUserPref, &s.CanUserPref},
		{EnvPaginationOnLoading, &s.PaginationOnLoading},
		{EnvCacheDiscussions, &s.CacheDiscussions},
	}
	for _, b := range bools {
		raw, ok := lookup(b.env)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("settings: %s: %w", b.env, err)
		}
		*b.dst = v
	}

	ints := []struct {
		env string
		dst *int
	}{
		{EnvPerPage, &s.PerPage},
		{EnvPerIndexInit, &s.PerIndexInit},
		{EnvPerLoadMore, &s.PerLoadMore},
	}
	for _, i := range ints {
		raw, ok := lookup(i.env)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("settings: %s: %w", i.env, err)
		}
		*i.dst = v
	}

	if raw, ok := lookup(EnvPosition); ok && raw != "" {
		s.Position = Position(raw)
	}
	return nil
}
