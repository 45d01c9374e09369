package helpers

import (
	"context"
	"errors"
	"os"
	"time"

	"go-food-ordering/database"

	"github.com/dgrijalva/jwt-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SignedDetails is the session: every protected endpoint derives the acting
// identity from these claims, never from ids in the request body.
type SignedDetails struct {
	Uid   string
	Role  string
	Email string
	Name  string
	jwt.StandardClaims
}

var SECRET_KEY = os.Getenv("SECRET_KEY")

var userCollection *mongo.Collection = database.OpenCollection(database.Client, "user")

func GenerateAllTokens(uid string, role string, email string, name string) (signedToken string, signedRefreshToken string, err error) {
	claims := &SignedDetails{
		Uid:   uid,
		Role:  role,
		Email: email,
		Name:  name,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		},
	}
	refreshClaims := &SignedDetails{
		Uid:  uid,
		Role: role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(7 * 24 * time.Hour).Unix(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(SECRET_KEY))
	if err != nil {
		return "", "", err
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(SECRET_KEY))
	if err != nil {
		return "", "", err
	}
	return token, refreshToken, nil
}

func ValidateToken(signedToken string) (*SignedDetails, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&SignedDetails{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(SECRET_KEY), nil
		},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SignedDetails)
	if !ok || !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.ExpiresAt < time.Now().Unix() {
		return nil, errors.New("token is expired")
	}
	return claims, nil
}

// UpdateAllTokens persists the freshly issued token pair on the user document.
func UpdateAllTokens(ctx context.Context, token string, refreshToken string, userID primitive.ObjectID) error {
	updateObj := bson.D{
		{Key: "token", Value: token},
		{Key: "refreshToken", Value: refreshToken},
		{Key: "updatedAt", Value: time.Now()},
	}
	upsert := true
	opts := options.UpdateOptions{Upsert: &upsert}
	_, err := userCollection.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.D{{Key: "$set", Value: updateObj}},
		&opts,
	)
	return err
}
