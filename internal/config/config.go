// Package config holds the process-wide configuration. A Config is built
// once at startup and passed by value; nothing mutates it afterwards.
package config

import (
	"fmt"
	"net"
	"sort"
)

// Config is the immutable runtime configuration for the serve command.
type Config struct {
	// Address and Port form the listen address.
	Address string
	Port    string

	// AllowedHosts is the exact set of host:port values a request's Host
	// header may carry. Anything else is rejected before handler logic runs.
	AllowedHosts HostSet

	// UploadsDir is where accepted images are written.
	UploadsDir string

	// TopN is how many predictions to request from the engine.
	TopN int

	// Provider selects the classification engine ("ollama", "openai", "gemini").
	Provider string

	// Model is the engine-specific model name. Empty means the provider default.
	Model string
}

// Addr returns the address the HTTP server binds to.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Address, c.Port)
}

// Validate checks the parts of the config a typo would otherwise surface
// much later, at request time.
func (c Config) Validate() error {
	if len(c.AllowedHosts) == 0 {
		return fmt.Errorf("no allowed hosts configured")
	}
	if c.TopN < 1 {
		return fmt.Errorf("top-n must be at least 1, got %d", c.TopN)
	}
	if c.UploadsDir == "" {
		return fmt.Errorf("uploads directory not configured")
	}
	return nil
}

// HostSet is a read-only membership set of host:port strings.
type HostSet map[string]struct{}

// NewHostSet builds a HostSet from a list of host:port strings.
func NewHostSet(hosts []string) HostSet {
	s := make(HostSet, len(hosts))
	for _, h := range hosts {
		s[h] = struct{}{}
	}
	return s
}

// Contains reports whether host is an exact member of the set.
func (s HostSet) Contains(host string) bool {
	_, ok := s[host]
	return ok
}

// List returns the members in stable order, for logging.
func (s HostSet) List() []string {
	hosts := make([]string, 0, len(s))
	for h := range s {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}
