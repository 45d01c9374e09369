package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go-food-ordering/database"
	"go-food-ordering/helpers"
	"go-food-ordering/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var userCollection *mongo.Collection = database.OpenCollection(database.Client, "user")

func SignUp() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var user models.User
		if err := c.BindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		email := strings.ToLower(strings.TrimSpace(*user.Email))
		user.Email = &email

		count, err := userCollection.CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			logrus.WithError(err).Error("email lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while checking for the email"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}

		if user.Role == "" {
			user.Role = models.RoleCustomer
		}
		if !models.IsValidRole(user.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}

		password := HashPassword(*user.Password)
		user.Password = &password
		user.Provider = models.ProviderCredentials
		user.ID = primitive.NewObjectID()
		user.CreatedAt = time.Now()
		user.UpdatedAt = user.CreatedAt

		token, refreshToken, err := helpers.GenerateAllTokens(user.ID.Hex(), user.Role, *user.Email, *user.Name)
		if err != nil {
			logrus.WithError(err).Error("token generation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
			return
		}
		user.Token = &token
		user.RefreshToken = &refreshToken

		if _, err := userCollection.InsertOne(ctx, user); err != nil {
			logrus.WithError(err).Error("user insert failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user was not created"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"user": gin.H{
				"id":    user.ID.Hex(),
				"name":  *user.Name,
				"email": *user.Email,
				"role":  user.Role,
			},
			"token":        token,
			"refreshToken": refreshToken,
		})
	}
}

func Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var foundUser models.User
		err := userCollection.FindOne(ctx, bson.M{"email": strings.ToLower(req.Email)}).Decode(&foundUser)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if foundUser.Password == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "this account is linked to Google, sign in with Google instead"})
			return
		}
		if ok, msg := VerifyPassword(req.Password, *foundUser.Password); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		token, refreshToken, err := helpers.GenerateAllTokens(foundUser.ID.Hex(), foundUser.Role, *foundUser.Email, *foundUser.Name)
		if err != nil {
			logrus.WithError(err).Error("token generation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign in"})
			return
		}
		if err := helpers.UpdateAllTokens(ctx, token, refreshToken, foundUser.ID); err != nil {
			logrus.WithError(err).Error("token persist failed")
		}

		c.JSON(http.StatusOK, gin.H{
			"user": gin.H{
				"id":    foundUser.ID.Hex(),
				"name":  *foundUser.Name,
				"email": *foundUser.Email,
				"role":  foundUser.Role,
			},
			"token":        token,
			"refreshToken": refreshToken,
		})
	}
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

const googleUserInfoEndpoint = "https://www.googleapis.com/userinfo/v2/me"

// GoogleLogin resolves a client-supplied Google access token against the
// userinfo endpoint and upserts the user: first OAuth sign-in of a new email
// creates a customer account, a known email gets its googleId linked.
func GoogleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req struct {
			AccessToken string `json:"access_token"`
		}
		if err := c.BindJSON(&req); err != nil || req.AccessToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "access_token is required"})
			return
		}

		profile, err := fetchGoogleProfile(ctx, req.AccessToken)
		if err != nil {
			logrus.WithError(err).Error("google userinfo lookup failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "could not verify Google account"})
			return
		}

		user, err := upsertGoogleUser(ctx, profile)
		if err != nil {
			logrus.WithError(err).Error("google upsert failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign in"})
			return
		}

		token, refreshToken, err := helpers.GenerateAllTokens(user.ID.Hex(), user.Role, *user.Email, *user.Name)
		if err != nil {
			logrus.WithError(err).Error("token generation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign in"})
			return
		}
		if err := helpers.UpdateAllTokens(ctx, token, refreshToken, user.ID); err != nil {
			logrus.WithError(err).Error("token persist failed")
		}

		c.JSON(http.StatusOK, gin.H{
			"user": gin.H{
				"id":    user.ID.Hex(),
				"name":  *user.Name,
				"email": *user.Email,
				"role":  user.Role,
			},
			"token":        token,
			"refreshToken": refreshToken,
		})
	}
}

func fetchGoogleProfile(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoEndpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	var profile googleUserInfo
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("google profile has no email")
	}
	return &profile, nil
}

func upsertGoogleUser(ctx context.Context, profile *googleUserInfo) (*models.User, error) {
	email := strings.ToLower(profile.Email)

	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		user = models.User{
			ID:        primitive.NewObjectID(),
			Name:      &profile.Name,
			Email:     &email,
			Role:      models.RoleCustomer,
			Provider:  models.ProviderGoogle,
			GoogleID:  &profile.ID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if _, err := userCollection.InsertOne(ctx, user); err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	if user.GoogleID == nil {
		update := bson.M{"$set": bson.M{
			"googleId":  profile.ID,
			"provider":  models.ProviderGoogle,
			"updatedAt": time.Now(),
		}}
		if _, err := userCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
			return nil, err
		}
		user.GoogleID = &profile.ID
		user.Provider = models.ProviderGoogle
	}
	return &user, nil
}

// GetMe returns the authenticated user's own record.
func GetMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		uid, err := sessionUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}
		var user models.User
		if err := userCollection.FindOne(ctx, bson.M{"_id": uid}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func HashPassword(password string) string {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Panic("bcrypt failed")
	}
	return string(bytes)
}

func VerifyPassword(userPassword string, hashedPassword string) (bool, string) {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(userPassword)); err != nil {
		return false, "email or password is incorrect"
	}
	return true, ""
}
