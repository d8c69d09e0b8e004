package relation

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RelationRepository interface {
		// Insert reports false when the (subject, object) row already exists.
		Insert(ctx context.Context, kind Kind, subjectID, objectID uint) (bool, error)
		// Delete reports false when there was nothing to delete.
		Delete(ctx context.Context, kind Kind, subjectID, objectID uint) (bool, error)
		// Related returns the subset of objectIDs that subjectID is related to.
		Related(ctx context.Context, kind Kind, subjectID uint, objectIDs []uint) (map[uint]bool, error)
	}

	relationRepository struct {
		db *gorm.DB
	}

	// binding pairs a populated row for inserts with an empty model for
	// queries, since gorm turns non-zero model fields into WHERE conditions.
	binding struct {
		row       any
		model     any
		objectCol string
	}
)

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func bind(kind Kind, subjectID, objectID uint) (binding, error) {
	switch kind {
	case KindFavorite:
		return binding{
			row:       &entities.Favorite{UserID: subjectID, RecipeID: objectID},
			model:     &entities.Favorite{},
			objectCol: "recipe_id",
		}, nil
	case KindShoppingCart:
		return binding{
			row:       &entities.ShoppingCart{UserID: subjectID, RecipeID: objectID},
			model:     &entities.ShoppingCart{},
			objectCol: "recipe_id",
		}, nil
	case KindSubscription:
		return binding{
			row:       &entities.Subscription{UserID: subjectID, AuthorID: objectID},
			model:     &entities.Subscription{},
			objectCol: "author_id",
		}, nil
	default:
		return binding{}, domain.ErrUnknownRelationKind
	}
}

func (r *relationRepository) Insert(ctx context.Context, kind Kind, subjectID, objectID uint) (bool, error) {
	b, err := bind(kind, subjectID, objectID)
	if err != nil {
		return false, err
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(b.row)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *relationRepository) Delete(ctx context.Context, kind Kind, subjectID, objectID uint) (bool, error) {
	b, err := bind(kind, subjectID, objectID)
	if err != nil {
		return false, err
	}

	res := r.db.WithContext(ctx).
		Where("user_id = ? AND "+b.objectCol+" = ?", subjectID, objectID).
		Delete(b.model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *relationRepository) Related(ctx context.Context, kind Kind, subjectID uint, objectIDs []uint) (map[uint]bool, error) {
	b, err := bind(kind, subjectID, 0)
	if err != nil {
		return nil, err
	}

	result := make(map[uint]bool, len(objectIDs))
	if subjectID == 0 || len(objectIDs) == 0 {
		return result, nil
	}

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(b.model).
		Where("user_id = ? AND "+b.objectCol+" IN ?", subjectID, objectIDs).
		Pluck(b.objectCol, &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
