package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func postReview(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := sessionRouter(http.MethodPost, "/reviews", primitive.NewObjectID(), "customer", CreateReview())
	req := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		w := postReview(t, fmt.Sprintf(`{"orderId":"507f1f77bcf86cd799439011","rating":%d}`, rating))
		assert.Equal(t, http.StatusBadRequest, w.Code, "rating %d", rating)
		assert.Contains(t, w.Body.String(), "between 1 and 5")
	}
}

func TestCreateReview_CommentTooLong(t *testing.T) {
	comment := strings.Repeat("x", 501)
	w := postReview(t, fmt.Sprintf(`{"orderId":"507f1f77bcf86cd799439011","rating":4,"comment":"%s"}`, comment))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "500 characters")
}

func TestCreateReview_BadOrderID(t *testing.T) {
	w := postReview(t, `{"orderId":"nope","rating":4}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid order id")
}

func TestCreateReview_NoSession(t *testing.T) {
	router := gin.New()
	router.POST("/reviews", CreateReview())

	req := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(`{"orderId":"507f1f77bcf86cd799439011","rating":4}`))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetReviews_MissingRestaurantID(t *testing.T) {
	router := gin.New()
	router.GET("/reviews", GetReviews())

	req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
