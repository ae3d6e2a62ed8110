// Package geocode classifies free-form locations against the service's
// region allow-list using an external forward-geocoding provider.
package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/exp/slices"
)

// Confidence of a classification. Unverified means the provider could not be
// reached or returned no match and the location needs manual review.
const (
	ConfidenceVerified   = "verified"
	ConfidenceUnverified = "unverified"
)

// Classification is the outcome of gating a submitted location.
type Classification struct {
	Accepted   bool
	StateCode  string
	Lat        *float64
	Lon        *float64
	Confidence string
}

func NewGate(logger *slog.Logger, client Client, allowedStates []string) Gate {
	normalized := make([]string, 0, len(allowedStates))
	for _, state := range allowedStates {
		normalized = append(normalized, strings.ToUpper(strings.TrimSpace(state)))
	}
	return Gate{
		logger:  logger,
		client:  client,
		allowed: normalized,
	}
}

// Gate decides whether a submitted location falls inside the accepted region.
type Gate struct {
	logger  *slog.Logger
	client  Client
	allowed []string
}

// AllowedStates returns the configured allow-list, for user-facing messages.
func (g Gate) AllowedStates() []string {
	return slices.Clone(g.allowed)
}

// Classify geocodes the supplied fields and checks the normalized state code
// against the allow-list. Provider failures and misses fail open: the
// location is accepted unverified and flagged for manual review.
func (g Gate) Classify(ctx context.Context, city string, state string, zip string) Classification {
	query := strings.TrimSpace(fmt.Sprintf("%s, %s %s", city, state, zip))

	result, err := g.client.Geocode(ctx, query)
	if err != nil {
		g.logger.WarnContext(ctx, "Geocoding unavailable, accepting submission unverified", "query", query, "error", err)
		return g.unverified(state)
	}
	if result == nil {
		g.logger.InfoContext(ctx, "No geocoding result, accepting submission unverified", "query", query)
		return g.unverified(state)
	}

	stateCode := strings.ToUpper(result.StateCode)
	return Classification{
		Accepted:   slices.Contains(g.allowed, stateCode),
		StateCode:  stateCode,
		Lat:        &result.Lat,
		Lon:        &result.Lon,
		Confidence: ConfidenceVerified,
	}
}

func (g Gate) unverified(state string) Classification {
	return Classification{
		Accepted:   true,
		StateCode:  strings.ToUpper(strings.TrimSpace(state)),
		Confidence: ConfidenceUnverified,
	}
}
