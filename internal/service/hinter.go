package service

import (
	"context"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/reconcile/internal/database/repository"
)

// Hinter suggests a destination for a payee from past choices.
type Hinter struct {
	Destinations *repository.DestinationRepo
	// MaxDistance is the largest normalized edit distance (0..1) at which a
	// different known payee still counts as the same one.
	MaxDistance float64
}

// Hint returns the usual destination for payee. Unknown payees fall back to the
// closest known payee within MaxDistance. "" means no suggestion.
func (h *Hinter) Hint(ctx context.Context, payee string) (string, error) {
	payee = strings.TrimSpace(payee)
	if payee == "" {
		return "", nil
	}
	dest, err := h.Destinations.Destination(ctx, payee)
	if err != nil || dest != "" || h.MaxDistance <= 0 {
		return dest, err
	}

	known, err := h.Destinations.Payees(ctx)
	if err != nil {
		return "", err
	}
	best, bestRatio := "", h.MaxDistance
	for _, k := range known {
		if r := distanceRatio(payee, k); r < bestRatio {
			best, bestRatio = k, r
		}
	}
	if best == "" {
		return "", nil
	}
	return h.Destinations.Destination(ctx, best)
}

// Record remembers that payee was sent to destination.
func (h *Hinter) Record(ctx context.Context, payee, destination string) error {
	payee, destination = strings.TrimSpace(payee), strings.TrimSpace(destination)
	if payee == "" || destination == "" {
		return nil
	}
	return h.Destinations.AddRelation(ctx, payee, destination)
}

func distanceRatio(a, b string) float64 {
	a, b = strings.ToUpper(a), strings.ToUpper(b)
	maxlen := max(len(a), len(b))
	if maxlen == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(maxlen)
}
