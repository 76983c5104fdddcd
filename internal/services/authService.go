package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/receptive/reviews-backend/internal/db"
	"github.com/receptive/reviews-backend/internal/httperr"
	"github.com/receptive/reviews-backend/internal/models"
)

var jwtSecret []byte

// tokenTTL is how long issued bearer tokens stay valid.
const tokenTTL = 7 * 24 * time.Hour

// InitAuth sets the signing secret for issued tokens.
func InitAuth(secret string) {
	jwtSecret = []byte(secret)
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateJWT issues a signed token carrying the user id.
func GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// VerifyJWT validates a token and returns the user id it carries.
func VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, httperr.Auth("Unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", httperr.Auth("Not authorized, token failed")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", httperr.Auth("Invalid token claims")
	}
	userID, ok := claims["id"].(string)
	if !ok || userID == "" {
		return "", httperr.Auth("Invalid token payload")
	}
	return userID, nil
}

// RegisterUser registers a new user. New users are never admins; the
// admin flag is only settable through CreateUserByAdmin.
func RegisterUser(ctx context.Context, name, email, password, phone string) (models.User, error) {
	if name == "" || email == "" || password == "" || phone == "" {
		return models.User{}, httperr.Validation("All fields are required")
	}
	return insertUser(ctx, name, email, password, phone, false)
}

// CreateUserByAdmin creates a user on behalf of an admin, who decides
// whether the new user is an admin.
func CreateUserByAdmin(ctx context.Context, name, email, password, phone string, isAdmin bool) (models.User, error) {
	if name == "" || email == "" || password == "" || phone == "" {
		return models.User{}, httperr.Validation("All fields are required")
	}
	return insertUser(ctx, name, email, password, phone, isAdmin)
}

func insertUser(ctx context.Context, name, email, password, phone string, isAdmin bool) (models.User, error) {
	collection := db.GetCollection("users")

	var existing models.User
	err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		return models.User{}, httperr.Conflict("User already exists")
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  hashedPassword,
		Phone:     phone,
		IsAdmin:   isAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := collection.InsertOne(ctx, user); err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}

// LoginUser authenticates a user and returns a bearer token with the
// user record. The error never reveals whether the email or the
// password was wrong.
func LoginUser(ctx context.Context, email, password string) (string, models.User, error) {
	collection := db.GetCollection("users")

	var user models.User
	err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return "", models.User{}, httperr.Auth("Invalid email or password")
	}
	if !VerifyPassword(password, user.Password) {
		return "", models.User{}, httperr.Auth("Invalid email or password")
	}

	token, err := GenerateJWT(user.ID.Hex())
	if err != nil {
		return "", models.User{}, err
	}
	user.Password = ""
	return token, user, nil
}

// AdminLogin authenticates a user and additionally requires the admin
// flag. It issues no token; the admin console only needs the identity
// confirmation.
func AdminLogin(ctx context.Context, email, password string) (models.User, error) {
	if email == "" || password == "" {
		return models.User{}, httperr.Validation("All fields are required")
	}

	collection := db.GetCollection("users")
	var user models.User
	err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return models.User{}, httperr.Auth("Invalid email or password")
	}
	if !VerifyPassword(password, user.Password) {
		return models.User{}, httperr.Auth("Invalid email or password")
	}
	if !user.IsAdmin {
		return models.User{}, httperr.Forbidden("Access denied: Not an admin")
	}
	user.Password = ""
	return user, nil
}

// GetUserByID fetches a user without the password hash.
func GetUserByID(ctx context.Context, id string) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, httperr.Validation("Invalid user ID format")
	}

	collection := db.GetCollection("users")
	var user models.User
	err = collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, httperr.NotFound("User not found")
	}
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}

// ListUsers returns all users without password hashes.
func ListUsers(ctx context.Context) ([]models.User, error) {
	collection := db.GetCollection("users")
	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// DeleteUser permanently removes a user.
func DeleteUser(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return httperr.Validation("Invalid user ID format")
	}

	collection := db.GetCollection("users")
	result, err := collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return httperr.NotFound("User not found")
	}
	return nil
}
