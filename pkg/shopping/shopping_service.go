package shopping

import (
	"context"

	"foodgram/domain"
	"foodgram/internal/metrics"

	"go.uber.org/zap"
)

const (
	FormatText = "txt"
	FormatJSON = "json"
)

type (
	ShoppingService interface {
		// Export builds the user's shopping list. format is FormatText or FormatJSON.
		Export(ctx context.Context, userID uint, format string) (domain.ShoppingListResponse, error)
	}

	shoppingService struct {
		shoppingRepository ShoppingRepository
		metrics            *metrics.Metrics
		log                *zap.Logger
	}
)

func NewShoppingService(shoppingRepository ShoppingRepository, m *metrics.Metrics, log *zap.Logger) ShoppingService {
	return &shoppingService{
		shoppingRepository: shoppingRepository,
		metrics:            m,
		log:                log,
	}
}

func (s *shoppingService) Export(ctx context.Context, userID uint, format string) (domain.ShoppingListResponse, error) {
	if format == "" {
		format = FormatText
	}
	if format != FormatText && format != FormatJSON {
		return domain.ShoppingListResponse{}, domain.ErrInvalidReportFormat
	}

	lines, err := s.shoppingRepository.GetCartLines(ctx, userID)
	if err != nil {
		s.log.Error("failed to collect cart lines", zap.Uint("user_id", userID), zap.Error(err))
		return domain.ShoppingListResponse{}, err
	}

	report := Aggregate(lines)
	s.metrics.ShoppingListExported.WithLabelValues(format).Inc()
	return domain.ShoppingListResponse{
		Lines: report,
		Text:  Render(report),
	}, nil
}
