package jwttoken

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/jamesdigid/uport-mobile/pkg/platform/sentinel"
)

// MemoryKeyStore holds identity keys in process. The production wallet keeps
// keys in the device enclave; this store backs tests and dev wiring.
type MemoryKeyStore struct {
	mu   sync.RWMutex
	keys map[string]*ecdsa.PrivateKey
}

func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{keys: make(map[string]*ecdsa.PrivateKey)}
}

// Generate creates a fresh P-256 key for issuer, replacing any existing one.
func (s *MemoryKeyStore) Generate(issuer string) (*ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key for %s: %w", issuer, err)
	}
	s.mu.Lock()
	s.keys[issuer] = key
	s.mu.Unlock()
	return key, nil
}

func (s *MemoryKeyStore) SigningKey(_ context.Context, issuer string) (*ecdsa.PrivateKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.keys[issuer]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return key, nil
}

func (s *MemoryKeyStore) VerificationKey(_ context.Context, issuer string) (*ecdsa.PublicKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.keys[issuer]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &key.PublicKey, nil
}
