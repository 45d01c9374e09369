package controllers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go-food-ordering/helpers"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var statusMessages = map[string]string{
	models.StatusPreparing: "Your order is being prepared",
	models.StatusReady:     "Your order is ready!",
	models.StatusDelivered: "Order delivered. Enjoy your meal!",
	models.StatusCancelled: "Your order has been cancelled",
}

func newOrderNotification(order *models.Order) models.Notification {
	return models.Notification{
		Type:      models.NotificationNewOrder,
		Title:     "New order",
		Message:   fmt.Sprintf("Order #%s - $%.2f", order.ShortID(), order.Total),
		OrderID:   order.ID.Hex(),
		Timestamp: order.CreatedAt,
	}
}

// orderStatusNotification renders a status change for the customer. Statuses
// without a message (pending) produce nothing.
func orderStatusNotification(order *models.Order) (models.Notification, bool) {
	msg, ok := statusMessages[order.Status]
	if !ok {
		return models.Notification{}, false
	}
	return models.Notification{
		Type:      models.NotificationOrderStatus,
		Title:     "Order update",
		Message:   fmt.Sprintf("Order #%s: %s", order.ShortID(), msg),
		OrderID:   order.ID.Hex(),
		Status:    order.Status,
		Timestamp: order.UpdatedAt,
	}, true
}

// CheckNotifications is the polling relay: a stateless point-in-time query the
// client re-invokes on its own interval, remembering its own last-check
// timestamp. Restaurants see their pending orders created since lastCheck;
// customers see status changes since lastCheck on orders that existed before
// it, so an order's own creation never doubles as an update.
func CheckNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		lastCheck := time.Now().Add(-time.Minute)
		if raw := c.Query("lastCheck"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "lastCheck must be RFC3339"})
				return
			}
			lastCheck = parsed
		}

		uid, err := sessionUserID(c)
		role := c.GetString("role")
		if err != nil || !models.IsValidRole(role) {
			c.JSON(http.StatusOK, gin.H{"notifications": []models.Notification{}})
			return
		}

		notifications := []models.Notification{}
		switch role {
		case models.RoleRestaurant:
			restaurant, err := findOwnedRestaurant(ctx, uid)
			if err != nil {
				break
			}
			opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
			cursor, err := orderCollection.Find(ctx, bson.M{
				"restaurantId": restaurant.ID,
				"status":       models.StatusPending,
				"createdAt":    bson.M{"$gt": lastCheck},
			}, opts)
			if err != nil {
				logrus.WithError(err).Error("notification query failed")
				break
			}
			var orders []models.Order
			if err := cursor.All(ctx, &orders); err != nil {
				logrus.WithError(err).Error("notification decode failed")
				break
			}
			for i := range orders {
				notifications = append(notifications, newOrderNotification(&orders[i]))
			}

		case models.RoleCustomer:
			opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
			cursor, err := orderCollection.Find(ctx, bson.M{
				"customerId": uid,
				"updatedAt":  bson.M{"$gt": lastCheck},
				"createdAt":  bson.M{"$lt": lastCheck},
			}, opts)
			if err != nil {
				logrus.WithError(err).Error("notification query failed")
				break
			}
			var orders []models.Order
			if err := cursor.All(ctx, &orders); err != nil {
				logrus.WithError(err).Error("notification decode failed")
				break
			}
			for i := range orders {
				if n, ok := orderStatusNotification(&orders[i]); ok {
					notifications = append(notifications, n)
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{"notifications": notifications})
	}
}

// The websocket hub pushes the same payloads the relay serves, addressed per
// user. Best effort: a dropped connection just falls back to polling.

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsClient struct {
	uid  string
	role string

	// Serializes writes to the connection; gorilla/websocket allows only
	// one concurrent writer.
	writeMu sync.Mutex
}

var (
	wsMu      sync.Mutex
	wsClients = make(map[*websocket.Conn]*wsClient)
)

func HandleWebSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := helpers.ValidateToken(c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithError(err).Warn("websocket upgrade failed")
			return
		}
		defer conn.Close()

		wsMu.Lock()
		wsClients[conn] = &wsClient{uid: claims.Uid, role: claims.Role}
		wsMu.Unlock()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				wsMu.Lock()
				delete(wsClients, conn)
				wsMu.Unlock()
				break
			}
		}
	}
}

// pushToUser snapshots the matching connections under the lock and writes
// outside it, so one stalled client cannot block other pushes or the
// connect/disconnect bookkeeping.
func pushToUser(uid string, notification models.Notification) {
	type target struct {
		conn   *websocket.Conn
		client *wsClient
	}
	wsMu.Lock()
	targets := make([]target, 0, 1)
	for conn, client := range wsClients {
		if client.uid == uid {
			targets = append(targets, target{conn, client})
		}
	}
	wsMu.Unlock()

	for _, t := range targets {
		t.client.writeMu.Lock()
		t.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		err := t.conn.WriteJSON(notification)
		t.client.writeMu.Unlock()
		if err != nil {
			logrus.WithError(err).Debug("websocket write failed")
			t.conn.Close()
			wsMu.Lock()
			delete(wsClients, t.conn)
			wsMu.Unlock()
		}
	}
}

func notifyRestaurantOfOrder(ctx context.Context, order *models.Order) {
	var restaurant models.Restaurant
	err := restaurantCollection.FindOne(ctx, bson.M{"_id": order.RestaurantID}).Decode(&restaurant)
	if err != nil {
		logrus.WithError(err).Warn("could not resolve restaurant for notification")
		return
	}
	pushToUser(restaurant.OwnerID.Hex(), newOrderNotification(order))
}

func notifyCustomerOfStatus(order *models.Order) {
	if n, ok := orderStatusNotification(order); ok {
		pushToUser(order.CustomerID.Hex(), n)
	}
}
