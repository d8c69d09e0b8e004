package domain

import (
	"errors"
)

var (
	MessageSuccessAddFavorite      = "recipe added to favorites"
	MessageSuccessRemoveFavorite   = "recipe removed from favorites"
	MessageSuccessAddShoppingCart  = "recipe added to shopping cart"
	MessageSuccessRemoveShopping   = "recipe removed from shopping cart"
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"
	MessageSuccessGetShoppingList  = "success get shopping list"

	MessageFailedAddFavorite      = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite   = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart  = "failed to add recipe to shopping cart"
	MessageFailedRemoveShopping   = "failed to remove recipe from shopping cart"
	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"
	MessageFailedGetShoppingList  = "failed to get shopping list"

	ErrAlreadyFavorited    = errors.New("recipe is already in favorites")
	ErrNotFavorited        = errors.New("recipe is not in favorites")
	ErrAlreadyInCart       = errors.New("recipe is already in shopping cart")
	ErrNotInCart           = errors.New("recipe is not in shopping cart")
	ErrAlreadySubscribed   = errors.New("already subscribed to this author")
	ErrNotSubscribed       = errors.New("not subscribed to this author")
	ErrSelfSubscription    = errors.New("cannot subscribe to yourself")
	ErrUnknownRelationKind = errors.New("unknown relation kind")
	ErrInvalidReportFormat = errors.New("format must be txt or json")
)

type (
	// ReportLine is one merged entry of the shopping list export.
	ReportLine struct {
		Name            string `json:"name"`
		Quantity        int64  `json:"quantity"`
		MeasurementUnit string `json:"measurement_unit"`
	}

	ShoppingListResponse struct {
		Lines []ReportLine `json:"lines"`
		Text  string       `json:"text"`
	}
)
