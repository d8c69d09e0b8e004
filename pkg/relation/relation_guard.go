package relation

import (
	"context"
	"fmt"

	"foodgram/domain"
	"foodgram/internal/metrics"

	"go.uber.org/zap"
)

type Kind string

const (
	KindFavorite     Kind = "favorite"
	KindShoppingCart Kind = "shopping_cart"
	KindSubscription Kind = "subscription"
)

type Outcome string

const (
	Created       Outcome = "created"
	AlreadyExists Outcome = "already_exists"
	Rejected      Outcome = "rejected"
	Removed       Outcome = "removed"
	NotFound      Outcome = "not_found"
)

type (
	// RelationGuard keeps favorites, cart entries and subscriptions at one
	// row per (subject, object) pair.
	RelationGuard interface {
		AttemptCreate(ctx context.Context, kind Kind, subjectID, objectID uint) (Outcome, error)
		AttemptRemove(ctx context.Context, kind Kind, subjectID, objectID uint) (Outcome, error)
	}

	relationGuard struct {
		relationRepository RelationRepository
		metrics            *metrics.Metrics
		log                *zap.Logger
	}
)

func NewRelationGuard(relationRepository RelationRepository, m *metrics.Metrics, log *zap.Logger) RelationGuard {
	return &relationGuard{
		relationRepository: relationRepository,
		metrics:            m,
		log:                log,
	}
}

func (g *relationGuard) AttemptCreate(ctx context.Context, kind Kind, subjectID, objectID uint) (Outcome, error) {
	if kind == KindSubscription && subjectID == objectID {
		g.observe(kind, Rejected)
		return Rejected, domain.ErrSelfSubscription
	}

	created, err := g.relationRepository.Insert(ctx, kind, subjectID, objectID)
	if err != nil {
		g.log.Error("relation insert failed",
			zap.String("kind", string(kind)),
			zap.Uint("subject_id", subjectID),
			zap.Uint("object_id", objectID),
			zap.Error(err),
		)
		return "", fmt.Errorf("create %s: %w", kind, err)
	}

	outcome := Created
	if !created {
		outcome = AlreadyExists
	}
	g.observe(kind, outcome)
	return outcome, nil
}

func (g *relationGuard) AttemptRemove(ctx context.Context, kind Kind, subjectID, objectID uint) (Outcome, error) {
	removed, err := g.relationRepository.Delete(ctx, kind, subjectID, objectID)
	if err != nil {
		return "", fmt.Errorf("remove %s: %w", kind, err)
	}

	outcome := Removed
	if !removed {
		outcome = NotFound
	}
	g.observe(kind, outcome)
	return outcome, nil
}

func (g *relationGuard) observe(kind Kind, outcome Outcome) {
	g.metrics.RelationAttempts.WithLabelValues(string(kind), string(outcome)).Inc()
}

// ConflictError turns a non-success outcome into the error the API reports.
// Created and Removed yield nil.
func ConflictError(kind Kind, outcome Outcome) error {
	switch outcome {
	case AlreadyExists:
		switch kind {
		case KindFavorite:
			return domain.ErrAlreadyFavorited
		case KindShoppingCart:
			return domain.ErrAlreadyInCart
		case KindSubscription:
			return domain.ErrAlreadySubscribed
		}
	case NotFound:
		switch kind {
		case KindFavorite:
			return domain.ErrNotFavorited
		case KindShoppingCart:
			return domain.ErrNotInCart
		case KindSubscription:
			return domain.ErrNotSubscribed
		}
	}
	return nil
}
