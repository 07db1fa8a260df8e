// Package attestations resolves claim names to their current values for the
// wallet's identity, and stores the attestation tokens backing verified
// claims.
package attestations

import (
	"context"
	"sync"
)

// Service is an in-process snapshot of the identity's claims. The disclosure
// engine reads from it; claim ingestion happens elsewhere.
type Service struct {
	mu     sync.RWMutex
	own    map[string]any
	tokens map[string][]string
}

func NewService() *Service {
	return &Service{
		own:    make(map[string]any),
		tokens: make(map[string][]string),
	}
}

// SetClaim records the current value of an own claim.
func (s *Service) SetClaim(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.own[name] = value
}

// AddAttestation stores an attestation token under a verified claim name.
func (s *Service) AddAttestation(name, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[name] = append(s.tokens[name], token)
}

// RequestedClaims resolves each requested name to its current value. Names
// with no value are simply absent from the result; only requested names are
// ever included.
func (s *Service) RequestedClaims(_ context.Context, names []string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]any, len(names))
	for _, name := range names {
		if value, ok := s.own[name]; ok {
			result[name] = value
		}
	}
	return result, nil
}

// VerifiedClaimsTokens returns the attestation tokens matching the given
// verified claim names, in request order.
func (s *Service) VerifiedClaimsTokens(_ context.Context, names []string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []string
	for _, name := range names {
		result = append(result, s.tokens[name]...)
	}
	return result, nil
}
