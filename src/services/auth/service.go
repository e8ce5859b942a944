package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MutheuMC/Interview-ACTSERV/src/database"
	"github.com/MutheuMC/Interview-ACTSERV/src/models"
	"github.com/MutheuMC/Interview-ACTSERV/src/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var userCollection *mongo.Collection

var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
)

func InitAuthService() {
	userCollection = database.GetCollection(database.DBName, "users")
}

// Login checks credentials and issues a signed JWT.
func Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err != nil {
		// ไม่บอกว่า email หรือ password ผิด
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return &models.LoginResponse{Token: token, User: user}, nil
}

// GetUserByID backs the /auth/me endpoint.
func GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Password = ""
	return &user, nil
}

// CreateUser hashes the password and stores the account. Used by the
// seeder; the API has no public registration.
func CreateUser(ctx context.Context, name, email, password, role string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Email:    strings.ToLower(email),
		Password: string(hash),
		Role:     role,
	}

	if _, err := userCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	user.Password = ""
	return &user, nil
}

// FindUserByEmail is the seeder's idempotency check.
func FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	findCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := userCollection.FindOne(findCtx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
