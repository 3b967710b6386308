package repositorycount

import (
	"context"
	"reflect"

	repository "github.com/goliatone/go-repository-bun"
)

// Lister is the read side of a go-repository-bun repository used by the
// list endpoint.
type Lister[T any] interface {
	List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error)
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (T, error)
}

// Interface assertion to ensure a full repository can be decorated
var _ Lister[any] = (repository.Repository[any])(nil)

// Interface assertion to ensure CountingLister is itself a Lister
var _ Lister[any] = (*CountingLister[any])(nil)

// CountingLister decorates a Lister and relays the total of every List call.
type CountingLister[T any] struct {
	base     Lister[T]
	resource string
	observe  func(resource string, total int)
}

// Option configures a CountingLister.
type Option func(*countingOptions)

type countingOptions struct {
	resource string
	observe  func(resource string, total int)
}

// WithResource overrides the resource name derived from T.
func WithResource(name string) Option {
	return func(o *countingOptions) {
		o.resource = name
	}
}

// WithObserver is called with every recorded total, relay or not.
func WithObserver(fn func(resource string, total int)) Option {
	return func(o *countingOptions) {
		o.observe = fn
	}
}

// New wraps base. The resource name defaults to the snake_case name of T's
// element type.
func New[T any](base Lister[T], opts ...Option) *CountingLister[T] {
	o := countingOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.resource == "" {
		o.resource = ResourceName[T]()
	}
	return &CountingLister[T]{base: base, resource: o.resource, observe: o.observe}
}

// Resource is the key totals are recorded under.
func (c *CountingLister[T]) Resource() string {
	return c.resource
}

// List delegates to the base lister and records the total it reports.
// Errors leave the slot untouched.
func (c *CountingLister[T]) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error) {
	records, total, err := c.base.List(ctx, criteria...)
	if err != nil {
		return nil, 0, err
	}
	RecordTotal(ctx, c.resource, total)
	if c.observe != nil {
		c.observe(c.resource, total)
	}
	return records, total, nil
}

// GetByID passes through to the base lister.
func (c *CountingLister[T]) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (T, error) {
	return c.base.GetByID(ctx, id, criteria...)
}

// ResourceName returns the snake_case name of T with pointers stripped.
func ResourceName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	return toSnake(t.Name())
}
