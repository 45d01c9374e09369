package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-food-ordering/database"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var orderCollection *mongo.Collection = database.OpenCollection(database.Client, "order")

type orderItemRequest struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

type createOrderRequest struct {
	RestaurantID    string             `json:"restaurantId"`
	Items           []orderItemRequest `json:"items"`
	DeliveryAddress models.Address     `json:"deliveryAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
}

// buildOrderItems snapshots name and price from the persisted menu items, so a
// client can never submit its own prices or totals.
func buildOrderItems(ctx context.Context, restaurantID primitive.ObjectID, reqItems []orderItemRequest) ([]models.OrderItem, error) {
	if len(reqItems) == 0 {
		return nil, fmt.Errorf("order has no items")
	}
	items := make([]models.OrderItem, 0, len(reqItems))
	for _, reqItem := range reqItems {
		if reqItem.Quantity <= 0 {
			return nil, fmt.Errorf("item quantity must be positive")
		}
		menuItemID, err := primitive.ObjectIDFromHex(reqItem.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("invalid menu item id")
		}
		var menuItem models.MenuItem
		if err := menuCollection.FindOne(ctx, bson.M{"_id": menuItemID}).Decode(&menuItem); err != nil {
			return nil, fmt.Errorf("menu item not found")
		}
		if menuItem.RestaurantID != restaurantID {
			return nil, fmt.Errorf("menu item does not belong to this restaurant")
		}
		if !menuItem.Available {
			return nil, fmt.Errorf("%s is not available", menuItem.Name)
		}
		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Quantity:   reqItem.Quantity,
			Price:      menuItem.Price,
		})
	}
	return items, nil
}

// CreateOrder is the cash checkout path; card orders are materialized by the
// Stripe webhook instead.
func CreateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		customerID, err := sessionUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		var req createOrderRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		restaurantID, err := primitive.ObjectIDFromHex(req.RestaurantID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
			return
		}
		if req.PaymentMethod == "" {
			req.PaymentMethod = models.PaymentCash
		}
		if req.PaymentMethod != models.PaymentCash {
			c.JSON(http.StatusBadRequest, gin.H{"error": "card orders go through the checkout session"})
			return
		}

		items, err := buildOrderItems(ctx, restaurantID, req.Items)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		order := models.Order{
			ID:              primitive.NewObjectID(),
			CustomerID:      customerID,
			RestaurantID:    restaurantID,
			Items:           items,
			Total:           models.OrderTotal(items),
			DeliveryAddress: req.DeliveryAddress,
			Status:          models.StatusPending,
			PaymentMethod:   models.PaymentCash,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if _, err := orderCollection.InsertOne(ctx, order); err != nil {
			logrus.WithError(err).Error("order insert failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order was not created"})
			return
		}

		notifyRestaurantOfOrder(ctx, &order)
		c.JSON(http.StatusCreated, order)
	}
}

// GetOrders lists the session customer's own orders, newest first.
func GetOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		customerID, err := sessionUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := orderCollection.Find(ctx, bson.M{"customerId": customerID}, opts)
		if err != nil {
			logrus.WithError(err).Error("order listing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing orders"})
			return
		}
		orders := []models.Order{}
		if err := cursor.All(ctx, &orders); err != nil {
			logrus.WithError(err).Error("order decode failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetRestaurantOrders feeds the dashboard: the 50 most recent orders of the
// caller's own restaurant.
func GetRestaurantOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ownerID, err := sessionUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}
		restaurant, err := findOwnedRestaurant(ctx, ownerID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
			return
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(50)
		cursor, err := orderCollection.Find(ctx, bson.M{"restaurantId": restaurant.ID}, opts)
		if err != nil {
			logrus.WithError(err).Error("order listing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing orders"})
			return
		}
		orders := []models.Order{}
		if err := cursor.All(ctx, &orders); err != nil {
			logrus.WithError(err).Error("order decode failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrder returns one order, visible to its customer and to the owner of the
// restaurant it was placed with.
func GetOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		uid, err := sessionUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}
		id, err := primitive.ObjectIDFromHex(c.Param("order_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var order models.Order
		if err := orderCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if order.CustomerID != uid && !ownsOrderRestaurant(ctx, uid, &order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you cannot view this order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GetOrderBySession resolves an order by its Stripe checkout session id; the
// client polls it after the payment redirect until the webhook has landed.
func GetOrderBySession() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		uid, err := sessionUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		var order models.Order
		err = orderCollection.FindOne(ctx, bson.M{"stripeSessionId": c.Param("session_id")}).Decode(&order)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if order.CustomerID != uid {
			c.JSON(http.StatusForbidden, gin.H{"error": "you cannot view this order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderStatus drives the order lifecycle. The restaurant owner may apply
// any legal transition; the customer may only cancel a still-pending order.
// Illegal transitions, including any exit from delivered or cancelled, are
// rejected.
func UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		uid, err := sessionUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}
		id, err := primitive.ObjectIDFromHex(c.Param("order_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var req struct {
			Status string `json:"status"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !models.IsValidOrderStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}

		var order models.Order
		if err := orderCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		isOwner := ownsOrderRestaurant(ctx, uid, &order)
		isCustomerCancel := order.CustomerID == uid &&
			req.Status == models.StatusCancelled && order.Status == models.StatusPending
		if !isOwner && !isCustomerCancel {
			c.JSON(http.StatusForbidden, gin.H{"error": "you cannot update this order"})
			return
		}
		if !models.CanTransition(order.Status, req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("cannot change status from %s to %s", order.Status, req.Status),
			})
			return
		}

		now := time.Now()
		_, err = orderCollection.UpdateOne(
			ctx,
			bson.M{"_id": id},
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "status", Value: req.Status},
				{Key: "updatedAt", Value: now},
			}}},
		)
		if err != nil {
			logrus.WithError(err).Error("order status update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order update failed"})
			return
		}

		order.Status = req.Status
		order.UpdatedAt = now
		notifyCustomerOfStatus(&order)
		c.JSON(http.StatusOK, order)
	}
}

func ownsOrderRestaurant(ctx context.Context, uid primitive.ObjectID, order *models.Order) bool {
	var restaurant models.Restaurant
	err := restaurantCollection.FindOne(ctx, bson.M{"_id": order.RestaurantID}).Decode(&restaurant)
	if err != nil {
		return false
	}
	return restaurant.OwnerID == uid
}
