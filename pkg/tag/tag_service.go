package tag

import (
	"context"

	"foodgram/entities"
)

type (
	TagService interface {
		GetTags(ctx context.Context) ([]*entities.Tag, error)
		GetTag(ctx context.Context, id uint) (*entities.Tag, error)
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

func (s *tagService) GetTags(ctx context.Context) ([]*entities.Tag, error) {
	return s.tagRepository.GetTags(ctx)
}

func (s *tagService) GetTag(ctx context.Context, id uint) (*entities.Tag, error) {
	return s.tagRepository.GetTagByID(ctx, id)
}
