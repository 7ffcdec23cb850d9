// Package geoip resolves client IP addresses to ISO country codes. The
// session layer records the country as an optional hint at session creation;
// resolver failures are non-fatal and simply omit the hint.
package geoip

import (
	"context"
	"errors"
)

// ErrUnknownAddress is returned when no country is known for an address.
var ErrUnknownAddress = errors.New("no country known for address")

// Resolver maps a client address to an ISO 3166-1 alpha-2 country code.
type Resolver interface {
	CountryCode(ctx context.Context, addr string) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, addr string) (string, error)

// CountryCode implements Resolver.
func (f ResolverFunc) CountryCode(ctx context.Context, addr string) (string, error) {
	return f(ctx, addr)
}

// StaticResolver answers from a fixed address-to-country table. Useful for
// tests and for deployments that front a known set of edge addresses.
type StaticResolver struct {
	countries map[string]string
}

// NewStaticResolver creates a resolver over a copy of the given table.
func NewStaticResolver(countries map[string]string) *StaticResolver {
	m := make(map[string]string, len(countries))
	for addr, cc := range countries {
		m[addr] = cc
	}
	return &StaticResolver{countries: m}
}

// CountryCode implements Resolver.
func (s *StaticResolver) CountryCode(_ context.Context, addr string) (string, error) {
	cc, ok := s.countries[addr]
	if !ok {
		return "", ErrUnknownAddress
	}
	return cc, nil
}
