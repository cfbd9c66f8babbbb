package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tolo017/eco-sawa/internal/auth"
	"github.com/tolo017/eco-sawa/internal/db"
	"github.com/tolo017/eco-sawa/internal/geo"
	"github.com/tolo017/eco-sawa/internal/models"
)

// ErrInvalidCredentials covers both unknown email and wrong password so
// login failures don't leak which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// IAccountService defines registration and login.
type IAccountService interface {
	Register(ctx context.Context, name, email, password string, role models.Role, location *geo.Coordinate) (*models.Account, error)
	Login(ctx context.Context, email, password string) (*models.Account, error)
}

const accountsCollection = "accounts"

// accountService implements IAccountService.
type accountService struct {
	db       *mongo.Database
	donors   IDonorService
	rescuers IRescuerService
}

// NewAccountService creates a new AccountService and ensures the unique
// email index that backs registration.
func NewAccountService(database *mongo.Database, donors IDonorService, rescuers IRescuerService) IAccountService {
	s := &accountService{db: database, donors: donors, rescuers: rescuers}
	s.ensureIndexes()
	return s
}

// ensureIndexes creates the unique index on email. The pre-insert uniqueness
// check in Register is racy on its own; the index makes concurrent duplicate
// registrations fail at insert time.
func (s *accountService) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := s.db.Collection(accountsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("Failed to ensure unique email index on %s: %v", accountsCollection, err)
	}
}

// Register creates an account plus the matching donor or rescuer record
// sharing the account's ID.
func (s *accountService) Register(ctx context.Context, name, email, password string, role models.Role, location *geo.Coordinate) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, NewValidationError("email", "is required")
	}
	if password == "" {
		return nil, NewValidationError("password", "is required")
	}
	if role != models.RoleDonor && role != models.RoleRescuer {
		return nil, NewValidationError("role", "must be donor or rescuer")
	}

	collection := s.db.Collection(accountsCollection)

	count, err := collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to check email %s: %w", email, err)
	}
	if count > 0 {
		return nil, NewValidationError("email", "already registered")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = email
	}

	now := time.Now().UTC()
	var account *models.Account
	operation := func() error {
		account = &models.Account{
			Base:         models.NewBase(),
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		_, insertErr := collection.InsertOne(ctx, account)
		return insertErr
	}
	if err := db.Try(operation); err != nil {
		// A concurrent registration can slip past the count check above and
		// trip the unique email index instead
		if mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), "email_1") {
			return nil, NewValidationError("email", "already registered")
		}
		return nil, fmt.Errorf("failed to insert account for %s: %w", email, err)
	}

	// The actor record shares the account ID so JWT subjects double as
	// donor/rescuer IDs on lifecycle operations.
	switch role {
	case models.RoleDonor:
		_, err = s.donors.RegisterDonor(ctx, &account.ID, name, "")
	case models.RoleRescuer:
		_, err = s.rescuers.RegisterRescuer(ctx, &account.ID, name, "", location)
	}
	if err != nil {
		return nil, fmt.Errorf("account %s created but actor record failed: %w", account.ID.String(), err)
	}

	return account, nil
}

// Login verifies credentials and returns the account.
func (s *accountService) Login(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var account models.Account
	err := s.db.Collection(accountsCollection).FindOne(ctx, bson.M{"email": email}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error finding account for %s: %w", email, err)
	}

	if !auth.CheckPasswordHash(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &account, nil
}
