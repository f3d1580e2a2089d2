// Package determinism derives stable identifiers from model inputs.
// Equal inputs always produce equal identifiers, so results can be cached
// and compared across runs.
package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"pingplotter-roi/core/pricing"
	"pingplotter-roi/core/types"
)

// StableID is a hash-based unique identifier that's deterministic
type StableID string

// IDGenerator generates stable, deterministic IDs
type IDGenerator struct {
	namespace string
}

// NewIDGenerator creates an ID generator with a namespace
func NewIDGenerator(namespace string) *IDGenerator {
	return &IDGenerator{namespace: namespace}
}

// Generate creates a stable ID from inputs
func (g *IDGenerator) Generate(parts ...string) StableID {
	h := sha256.New()
	h.Write([]byte(g.namespace))
	h.Write([]byte{0})
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return StableID(hex.EncodeToString(h.Sum(nil))[:16])
}

var scenarios = NewIDGenerator("pproi/scenario/v1")

// Fingerprint identifies a scenario table by everything that shapes it: the
// input figures and the price schedule. Decimals are compared by value, so
// 746.4 and 746.40 share a fingerprint.
func Fingerprint(in types.ScenarioInput, schedule pricing.Schedule) StableID {
	parts := []string{
		strconv.Itoa(in.UserCount),
		strconv.Itoa(in.CriticalServices),
		in.MonthlyDowntimeCost.String(),
		in.DowntimeImpact.String(),
	}
	for _, t := range schedule.Tiers {
		parts = append(parts, strconv.FormatInt(t.UpTo, 10)+":"+strconv.FormatInt(t.Rate, 10))
	}
	return scenarios.Generate(parts...)
}
