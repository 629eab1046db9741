// Package results caches the collected results of finished bulk lists and hands
// them on to an export sink.
package results

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"briteverify/pkg/verification"
)

// ResultStore persists the results of a bulk list under a cache key. Find returns
// an error wrapping sentinel.ErrNotFound on a miss or an expired entry.
type ResultStore interface {
	Save(ctx context.Context, key string, results []verification.BulkVerificationResult) error
	Find(ctx context.Context, key string) ([]verification.BulkVerificationResult, error)
}

// Fingerprint derives a stable, non-reversible account identifier from an API key.
func Fingerprint(apiKey string) string {
	sum := blake2b.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:12])
}

// AccountCache scopes a ResultStore to one account. It satisfies the client's
// result cache seam.
type AccountCache struct {
	store   ResultStore
	account string
}

// NewAccountCache namespaces store by the fingerprint of apiKey.
func NewAccountCache(store ResultStore, apiKey string) *AccountCache {
	return &AccountCache{store: store, account: Fingerprint(apiKey)}
}

func (c *AccountCache) key(listID string) string {
	return c.account + ":" + listID
}

func (c *AccountCache) Find(ctx context.Context, listID string) ([]verification.BulkVerificationResult, error) {
	return c.store.Find(ctx, c.key(listID))
}

func (c *AccountCache) Save(ctx context.Context, listID string, results []verification.BulkVerificationResult) error {
	return c.store.Save(ctx, c.key(listID), results)
}

func encodeResults(results []verification.BulkVerificationResult) ([]byte, error) {
	wire := make([]verification.BulkResultJSON, 0, len(results))
	for _, r := range results {
		wire = append(wire, verification.BulkResultJSON{BulkVerificationResult: r})
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}
	return data, nil
}

func decodeResults(data []byte) ([]verification.BulkVerificationResult, error) {
	var wire []verification.BulkResultJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	out := make([]verification.BulkVerificationResult, 0, len(wire))
	for _, r := range wire {
		if r.BulkVerificationResult != nil {
			out = append(out, r.BulkVerificationResult)
		}
	}
	return out, nil
}
