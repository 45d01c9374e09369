package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testWebhookSecret = "whsec_test_secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("STRIPE_WEBHOOK_SECRET", testWebhookSecret)
	os.Exit(m.Run())
}

func webhookRouter() *gin.Engine {
	router := gin.New()
	router.POST("/stripe/webhook", StripeWebhook())
	return router
}

// signPayload builds a Stripe-Signature header the way Stripe does:
// v1 = HMAC-SHA256(secret, "<timestamp>.<payload>").
func signPayload(payload, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestStripeWebhook_MissingSignature(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/stripe/webhook", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	webhookRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid signature")
}

func TestStripeWebhook_BadSignature(t *testing.T) {
	payload := `{"type":"payment_intent.succeeded","data":{"object":{}}}`
	req := httptest.NewRequest(http.MethodPost, "/stripe/webhook", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", signPayload(payload, "whsec_wrong_secret", time.Now()))
	w := httptest.NewRecorder()

	webhookRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid signature")
}

func TestStripeWebhook_StaleTimestamp(t *testing.T) {
	payload := `{"type":"payment_intent.succeeded","data":{"object":{}}}`
	req := httptest.NewRequest(http.MethodPost, "/stripe/webhook", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour)))
	w := httptest.NewRecorder()

	webhookRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStripeWebhook_AcknowledgesNonOrderEvents(t *testing.T) {
	payload := `{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{}}}`
	req := httptest.NewRequest(http.MethodPost, "/stripe/webhook", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", signPayload(payload, testWebhookSecret, time.Now()))
	w := httptest.NewRecorder()

	webhookRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
}

func TestStripeWebhook_IgnoresUnknownEventTypes(t *testing.T) {
	payload := `{"id":"evt_2","type":"customer.created","data":{"object":{}}}`
	req := httptest.NewRequest(http.MethodPost, "/stripe/webhook", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", signPayload(payload, testWebhookSecret, time.Now()))
	w := httptest.NewRecorder()

	webhookRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// sessionRouter registers a handler behind a stub that injects verified
// session claims, standing in for the auth middleware.
func sessionRouter(method, path string, uid primitive.ObjectID, role string, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		c.Set("uid", uid.Hex())
		c.Set("role", role)
	}, handler)
	return router
}

func TestCreateCheckoutSession_EmptyCart(t *testing.T) {
	uid := primitive.NewObjectID()
	router := sessionRouter(http.MethodPost, "/stripe/create-checkout-session", uid, "customer", CreateCheckoutSession())

	body := `{"orderData":{"restaurantId":"507f1f77bcf86cd799439011","items":[],"deliveryAddress":{"street":"Main St","lat":10.25,"lng":-64.47}}}`
	req := httptest.NewRequest(http.MethodPost, "/stripe/create-checkout-session", strings.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no items")
}

func TestCreateCheckoutSession_BadRestaurantID(t *testing.T) {
	uid := primitive.NewObjectID()
	router := sessionRouter(http.MethodPost, "/stripe/create-checkout-session", uid, "customer", CreateCheckoutSession())

	body := `{"orderData":{"restaurantId":"nope","items":[{"menuItemId":"507f1f77bcf86cd799439011","quantity":1}]}}`
	req := httptest.NewRequest(http.MethodPost, "/stripe/create-checkout-session", strings.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid restaurant id")
}

func TestCreateCheckoutSession_NoSession(t *testing.T) {
	router := gin.New()
	router.POST("/stripe/create-checkout-session", CreateCheckoutSession())

	req := httptest.NewRequest(http.MethodPost, "/stripe/create-checkout-session", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestItemRefs_Roundtrip(t *testing.T) {
	items := []models.OrderItem{
		{MenuItemID: primitive.NewObjectID(), Quantity: 2},
		{MenuItemID: primitive.NewObjectID(), Quantity: 1},
		{MenuItemID: primitive.NewObjectID(), Quantity: 5},
	}

	metadata := map[string]string{}
	for i, chunk := range encodeItemRefs(items) {
		metadata[itemRefsMetadataKey(i)] = chunk
	}

	refs, err := decodeItemRefs(metadata)
	require.NoError(t, err)
	require.Len(t, refs, len(items))
	for i, ref := range refs {
		assert.Equal(t, items[i].MenuItemID.Hex(), ref.MenuItemID)
		assert.Equal(t, items[i].Quantity, ref.Quantity)
	}
}

func TestEncodeItemRefs_LargeCartStaysUnderValueLimit(t *testing.T) {
	// A 40-item cart must chunk across values, each within Stripe's
	// 500-character metadata cap.
	items := make([]models.OrderItem, 40)
	for i := range items {
		items[i] = models.OrderItem{MenuItemID: primitive.NewObjectID(), Quantity: i + 1}
	}

	chunks := encodeItemRefs(items)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), metadataValueLimit)
	}

	metadata := map[string]string{}
	for i, chunk := range chunks {
		metadata[itemRefsMetadataKey(i)] = chunk
	}
	refs, err := decodeItemRefs(metadata)
	require.NoError(t, err)
	assert.Len(t, refs, len(items))
}

func TestDecodeItemRefs_Malformed(t *testing.T) {
	_, err := decodeItemRefs(map[string]string{})
	assert.Error(t, err)

	_, err = decodeItemRefs(map[string]string{"items": "not-a-ref"})
	assert.Error(t, err)

	_, err = decodeItemRefs(map[string]string{"items": "507f1f77bcf86cd799439011:0"})
	assert.Error(t, err)

	_, err = decodeItemRefs(map[string]string{"items": "507f1f77bcf86cd799439011:x"})
	assert.Error(t, err)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(999), toMinorUnits(9.99))
	assert.Equal(t, int64(1250), toMinorUnits(12.50))
	assert.Equal(t, int64(100), toMinorUnits(1.00))
	assert.Equal(t, int64(525), toMinorUnits(5.25))
	assert.Equal(t, int64(0), toMinorUnits(0))
}
