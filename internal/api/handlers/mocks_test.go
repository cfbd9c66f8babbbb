package handlers_test

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"

	"github.com/tolo017/eco-sawa/internal/geo"
	"github.com/tolo017/eco-sawa/internal/models"
	"github.com/tolo017/eco-sawa/internal/services"
	"github.com/tolo017/eco-sawa/internal/utils"
)

// --- Mocks ---

// MockListingService
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) CreateListing(ctx context.Context, req services.CreateListingRequest) (*models.Listing, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) FindListingByID(ctx context.Context, listingID utils.SixID) (*models.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) FindListingsByIDs(ctx context.Context, listingIDs []utils.SixID) ([]models.Listing, error) {
	args := m.Called(ctx, listingIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockListingService) Claim(ctx context.Context, listingID, rescuerID utils.SixID) error {
	args := m.Called(ctx, listingID, rescuerID)
	return args.Error(0)
}

func (m *MockListingService) ConfirmCompletion(ctx context.Context, listingID, rescuerID utils.SixID, token string) (float64, error) {
	args := m.Called(ctx, listingID, rescuerID, token)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockListingService) ListAvailable(ctx context.Context) ([]models.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

// MockDonorService
type MockDonorService struct {
	mock.Mock
}

func (m *MockDonorService) RegisterDonor(ctx context.Context, id *utils.SixID, name, phone string) (*models.Donor, error) {
	args := m.Called(ctx, id, name, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Donor), args.Error(1)
}

func (m *MockDonorService) FindDonorByID(ctx context.Context, donorID utils.SixID) (*models.Donor, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Donor), args.Error(1)
}

func (m *MockDonorService) RecomputeReputation(ctx context.Context, donorID utils.SixID) (float64, error) {
	args := m.Called(ctx, donorID)
	return args.Get(0).(float64), args.Error(1)
}

// MockRescuerService
type MockRescuerService struct {
	mock.Mock
}

func (m *MockRescuerService) RegisterRescuer(ctx context.Context, id *utils.SixID, name, phone string, location *geo.Coordinate) (*models.Rescuer, error) {
	args := m.Called(ctx, id, name, phone, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rescuer), args.Error(1)
}

func (m *MockRescuerService) FindRescuerByID(ctx context.Context, rescuerID utils.SixID) (*models.Rescuer, error) {
	args := m.Called(ctx, rescuerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rescuer), args.Error(1)
}

func (m *MockRescuerService) FindNearby(ctx context.Context, center geo.Coordinate, radiusKm float64) ([]models.Rescuer, error) {
	args := m.Called(ctx, center, radiusKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rescuer), args.Error(1)
}

func (m *MockRescuerService) ClaimedListingIDs(ctx context.Context, rescuerID utils.SixID) ([]utils.SixID, error) {
	args := m.Called(ctx, rescuerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]utils.SixID), args.Error(1)
}

// MockImpactService
type MockImpactService struct {
	mock.Mock
}

func (m *MockImpactService) RecordCompletion(ctx context.Context, day string, quantityKg float64) error {
	args := m.Called(ctx, day, quantityKg)
	return args.Error(0)
}

func (m *MockImpactService) CurrentImpact(ctx context.Context) (*models.Impact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Impact), args.Error(1)
}

func (m *MockImpactService) ImpactForDay(ctx context.Context, day string) (*models.ImpactEntry, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImpactEntry), args.Error(1)
}

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, listingID utils.SixID, amountKES float64) (*models.RescueBooking, error) {
	args := m.Called(ctx, listingID, amountKES)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RescueBooking), args.Error(1)
}

func (m *MockBookingService) ConfirmBooking(ctx context.Context, bookingID string) (*models.RescueBooking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RescueBooking), args.Error(1)
}

func (m *MockBookingService) FindBookingByID(ctx context.Context, bookingID string) (*models.RescueBooking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RescueBooking), args.Error(1)
}

// MockAccountService
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, name, email, password string, role models.Role, location *geo.Coordinate) (*models.Account, error) {
	args := m.Called(ctx, name, email, password, role, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, email, password string) (*models.Account, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// MockAsynqClient
type MockAsynqClient struct {
	mock.Mock
}

func (m *MockAsynqClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}
