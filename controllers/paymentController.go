package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type checkoutSessionRequest struct {
	OrderData struct {
		RestaurantID    string             `json:"restaurantId"`
		Items           []orderItemRequest `json:"items"`
		DeliveryAddress models.Address     `json:"deliveryAddress"`
	} `json:"orderData"`
}

// Stripe caps each metadata value at 500 characters, so the cart travels as
// compact menuItemId:quantity refs chunked across as many values as needed.
const metadataValueLimit = 500

func itemRefsMetadataKey(i int) string {
	if i == 0 {
		return "items"
	}
	return fmt.Sprintf("items%d", i)
}

func encodeItemRefs(items []models.OrderItem) []string {
	var chunks []string
	var cur strings.Builder
	for _, item := range items {
		ref := fmt.Sprintf("%s:%d", item.MenuItemID.Hex(), item.Quantity)
		if cur.Len() > 0 && cur.Len()+1+len(ref) > metadataValueLimit {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(',')
		}
		cur.WriteString(ref)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

func decodeItemRefs(metadata map[string]string) ([]orderItemRequest, error) {
	var refs []orderItemRequest
	for i := 0; ; i++ {
		raw, ok := metadata[itemRefsMetadataKey(i)]
		if !ok {
			break
		}
		for _, ref := range strings.Split(raw, ",") {
			parts := strings.SplitN(ref, ":", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("bad item ref %q", ref)
			}
			qty, err := strconv.Atoi(parts[1])
			if err != nil || qty <= 0 {
				return nil, fmt.Errorf("bad item quantity in %q", ref)
			}
			refs = append(refs, orderItemRequest{MenuItemID: parts[0], Quantity: qty})
		}
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("no items metadata")
	}
	return refs, nil
}

// CreateCheckoutSession opens a hosted Stripe checkout for a card order. The
// order itself is only materialized later, by the webhook; the metadata
// carries item refs, and the webhook re-prices them from the persisted menu.
func CreateCheckoutSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		customerID, err := sessionUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		var req checkoutSessionRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(req.OrderData.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order has no items"})
			return
		}
		restaurantID, err := primitive.ObjectIDFromHex(req.OrderData.RestaurantID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
			return
		}

		items, err := buildOrderItems(ctx, restaurantID, req.OrderData.Items)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
		for _, item := range items {
			lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(item.Name),
						Description: stripe.String(fmt.Sprintf("Quantity: %d", item.Quantity)),
					},
					UnitAmount: stripe.Int64(toMinorUnits(item.Price)),
				},
				Quantity: stripe.Int64(int64(item.Quantity)),
			})
		}

		appURL := os.Getenv("APP_URL")
		params := &stripe.CheckoutSessionParams{
			Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
			PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
			LineItems:          lineItems,
			SuccessURL:         stripe.String(appURL + "/order-confirmation/{CHECKOUT_SESSION_ID}"),
			CancelURL:          stripe.String(appURL + "/checkout?canceled=true"),
		}
		addressJSON, _ := json.Marshal(req.OrderData.DeliveryAddress)
		params.AddMetadata("customerId", customerID.Hex())
		params.AddMetadata("restaurantId", restaurantID.Hex())
		params.AddMetadata("deliveryAddress", string(addressJSON))
		for i, chunk := range encodeItemRefs(items) {
			params.AddMetadata(itemRefsMetadataKey(i), chunk)
		}
		params.SetIdempotencyKey(uuid.NewString())

		s, err := session.New(params)
		if err != nil {
			logrus.WithError(err).Error("stripe session creation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start the payment"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"sessionId": s.ID, "url": s.URL})
	}
}

func toMinorUnits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

// StripeWebhook verifies the processor signature and, on a completed checkout,
// materializes the card order from the session metadata. This is the only path
// by which card-paid orders come into existence.
func StripeWebhook() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read payload"})
			return
		}

		event, err := webhook.ConstructEventWithOptions(
			payload,
			c.Request.Header.Get("Stripe-Signature"),
			os.Getenv("STRIPE_WEBHOOK_SECRET"),
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
		)
		if err != nil {
			logrus.WithError(err).Warn("webhook signature verification failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		switch event.Type {
		case "checkout.session.completed":
			var checkoutSession stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &checkoutSession); err != nil {
				logrus.WithError(err).Error("webhook payload decode failed")
				c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event"})
				return
			}
			if err := materializeCardOrder(ctx, &checkoutSession); err != nil {
				logrus.WithError(err).Error("card order materialization failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record the order"})
				return
			}
		case "payment_intent.succeeded", "payment_intent.payment_failed":
			logrus.Infof("stripe event acknowledged: %s", event.Type)
		default:
			logrus.Debugf("unhandled stripe event: %s", event.Type)
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func materializeCardOrder(ctx context.Context, checkoutSession *stripe.CheckoutSession) error {
	// Webhooks are delivered at least once; a replay must not create a
	// second order.
	count, err := orderCollection.CountDocuments(ctx, bson.M{"stripeSessionId": checkoutSession.ID})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	customerID, err := primitive.ObjectIDFromHex(checkoutSession.Metadata["customerId"])
	if err != nil {
		return fmt.Errorf("bad customerId metadata: %w", err)
	}
	restaurantID, err := primitive.ObjectIDFromHex(checkoutSession.Metadata["restaurantId"])
	if err != nil {
		return fmt.Errorf("bad restaurantId metadata: %w", err)
	}
	var deliveryAddress models.Address
	if raw := checkoutSession.Metadata["deliveryAddress"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &deliveryAddress); err != nil {
			return fmt.Errorf("bad deliveryAddress metadata: %w", err)
		}
	}
	refs, err := decodeItemRefs(checkoutSession.Metadata)
	if err != nil {
		return fmt.Errorf("bad items metadata: %w", err)
	}
	items, err := resolveOrderItems(ctx, refs)
	if err != nil {
		return err
	}

	paymentIntentID := ""
	if checkoutSession.PaymentIntent != nil {
		paymentIntentID = checkoutSession.PaymentIntent.ID
	}

	now := time.Now()
	order := models.Order{
		ID:                    primitive.NewObjectID(),
		CustomerID:            customerID,
		RestaurantID:          restaurantID,
		Items:                 items,
		Total:                 float64(checkoutSession.AmountTotal) / 100,
		DeliveryAddress:       deliveryAddress,
		Status:                models.StatusPending,
		PaymentMethod:         models.PaymentCard,
		StripeSessionID:       checkoutSession.ID,
		StripePaymentIntentID: paymentIntentID,
		StripePaymentStatus:   models.PaymentStatusPaid,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if _, err := orderCollection.InsertOne(ctx, order); err != nil {
		return err
	}
	notifyRestaurantOfOrder(ctx, &order)
	return nil
}

// resolveOrderItems re-prices the refs from the persisted menu at webhook
// time. The payment already happened, so an item toggled unavailable since
// checkout still materializes.
func resolveOrderItems(ctx context.Context, refs []orderItemRequest) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(refs))
	for _, ref := range refs {
		menuItemID, err := primitive.ObjectIDFromHex(ref.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("invalid menu item id %q", ref.MenuItemID)
		}
		var menuItem models.MenuItem
		if err := menuCollection.FindOne(ctx, bson.M{"_id": menuItemID}).Decode(&menuItem); err != nil {
			return nil, fmt.Errorf("menu item %s not found", ref.MenuItemID)
		}
		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Quantity:   ref.Quantity,
			Price:      menuItem.Price,
		})
	}
	return items, nil
}

func init() {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
}
