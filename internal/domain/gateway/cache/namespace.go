package cache

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"countries-informer/internal/domain/model"
	"countries-informer/pkg/codec"
)

const (
	DefaultNamespace  = "default"
	WeatherNamespace  = "weather"
	CurrencyNamespace = "currency"
	NewsNamespace     = "news"
)

var ErrUnknownNamespace = errors.New("unknown cache namespace")

// ErrCorruptValue is wrapped by Get when the stored bytes cannot be decoded into dest.
var ErrCorruptValue = codec.ErrCorrupt

// Namespace is an isolated cache partition with its own prefix, storage index and TTL.
// Operations are atomic per key only.
type Namespace interface {
	Name() string
	TTL() time.Duration

	// Get decodes the stored value into dest and reports whether the key was present.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value with the namespace TTL.
	Set(ctx context.Context, key string, value any) error
	SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Flush removes every key of this namespace and no other.
	Flush(ctx context.Context) error

	Health(ctx context.Context) model.ComponentHealthStatus
}

// Namespaces groups the four cache partitions of the application.
type Namespaces struct {
	Default  Namespace
	Weather  Namespace
	Currency Namespace
	News     Namespace
}

// All returns every namespace in a stable order.
func (n *Namespaces) All() []Namespace {
	return []Namespace{n.Default, n.Weather, n.Currency, n.News}
}

func (n *Namespaces) Names() []string {
	names := make([]string, 0, 4)
	for _, ns := range n.All() {
		names = append(names, ns.Name())
	}
	return names
}

// Get looks a namespace up by name.
func (n *Namespaces) Get(name string) (Namespace, error) {
	idx := slices.IndexFunc(n.All(), func(ns Namespace) bool { return ns.Name() == name })
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNamespace, name)
	}
	return n.All()[idx], nil
}
