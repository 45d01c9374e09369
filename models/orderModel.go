package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"

	PaymentCash = "cash"
	PaymentCard = "card"

	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

type Order struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	CustomerID      primitive.ObjectID `bson:"customerId" json:"customerId"`
	RestaurantID    primitive.ObjectID `bson:"restaurantId" json:"restaurantId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Total           float64            `bson:"total" json:"total"`
	DeliveryAddress Address            `bson:"deliveryAddress" json:"deliveryAddress"`
	Status          string             `bson:"status" json:"status"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`

	StripeSessionID       string `bson:"stripeSessionId,omitempty" json:"stripeSessionId,omitempty"`
	StripePaymentIntentID string `bson:"stripePaymentIntentId,omitempty" json:"stripePaymentIntentId,omitempty"`
	StripePaymentStatus   string `bson:"stripePaymentStatus,omitempty" json:"stripePaymentStatus,omitempty"`

	Rating  *int       `bson:"rating,omitempty" json:"rating,omitempty"`
	Review  *string    `bson:"review,omitempty" json:"review,omitempty"`
	RatedAt *time.Time `bson:"ratedAt,omitempty" json:"ratedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OrderItem is a snapshot of a menu item frozen at order time, so later menu
// edits never change past orders.
type OrderItem struct {
	MenuItemID primitive.ObjectID `bson:"menuItemId" json:"menuItemId"`
	Name       string             `bson:"name" json:"name"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Price      float64            `bson:"price" json:"price"`
}

var orderTransitions = map[string][]string{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

func IsValidOrderStatus(status string) bool {
	_, ok := orderTransitions[status]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
// Delivered and cancelled are terminal; re-asserting the current status is not
// a transition.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsTerminalStatus(status string) bool {
	return status == StatusDelivered || status == StatusCancelled
}

// OrderTotal sums price x quantity over the line items.
func OrderTotal(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ShortID is the last eight hex digits of the order id, the form shown to
// users in notification messages.
func (o *Order) ShortID() string {
	hex := o.ID.Hex()
	if len(hex) <= 8 {
		return hex
	}
	return hex[len(hex)-8:]
}
