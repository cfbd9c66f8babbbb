package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/tolo017/eco-sawa/internal/config"
	"github.com/tolo017/eco-sawa/internal/models"
	"github.com/tolo017/eco-sawa/internal/notify"
	"github.com/tolo017/eco-sawa/internal/services"
	"github.com/tolo017/eco-sawa/internal/utils"
)

// TaskType defines the type of a background task.
const (
	TypeNotifyNearby = "listing:notify_nearby"
)

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// NotifyNearbyPayload carries the listing whose nearby rescuers should be pinged.
type NotifyNearbyPayload struct {
	ListingID string `json:"listing_id"`
}

// NewNotifyNearbyTask builds the fan-out task for a freshly created listing.
func NewNotifyNearbyTask(listingID utils.SixID) (*asynq.Task, error) {
	payload, err := json.Marshal(NotifyNearbyPayload{ListingID: listingID.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notify-nearby payload: %w", err)
	}
	return asynq.NewTask(TypeNotifyNearby, payload, asynq.Queue("default"), asynq.MaxRetry(3)), nil
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	cfg            *config.Config
	notifier       notify.Notifier
	listingService services.IListingService
	rescuerService services.IRescuerService
}

func NewTaskProcessor(
	cfg *config.Config,
	notifier notify.Notifier,
	listingService services.IListingService,
	rescuerService services.IRescuerService,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:            cfg,
		notifier:       notifier,
		listingService: listingService,
		rescuerService: rescuerService,
	}
}

// SetupServer configures an Asynq server and its handler mux. The caller
// runs them. In API-only mode no task server is configured.
func SetupServer(rdb *redis.Client, processor *TaskProcessor, isBgWorker bool) (*asynq.Server, *asynq.ServeMux) {
	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	if !isBgWorker {
		log.Println("Running in API mode, no task server started.")
		return nil, nil
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeNotifyNearby, processor.HandleNotifyNearbyTask)
	log.Println("Registered background task handlers.")

	return srv, mux
}

// --- Task Handlers ---

// HandleNotifyNearbyTask resolves rescuers near a new listing and pushes them a
// heads-up. Delivery is best-effort: a failed push is logged, never retried at
// the task level, so a flaky provider cannot hold the queue hostage.
func (p *TaskProcessor) HandleNotifyNearbyTask(ctx context.Context, t *asynq.Task) error {
	var payload NotifyNearbyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal notify-nearby payload: %v: %w", err, asynq.SkipRetry)
	}

	listingID, err := utils.ParseSixID(payload.ListingID)
	if err != nil {
		log.Printf("Invalid ListingID in notify-nearby payload: %s", payload.ListingID)
		return fmt.Errorf("invalid listing ID in payload: %w", asynq.SkipRetry)
	}

	listing, err := p.listingService.FindListingByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			log.Printf("Listing %s gone before fan-out, skipping.", payload.ListingID)
			return fmt.Errorf("listing not found: %w", asynq.SkipRetry)
		}
		return fmt.Errorf("failed to load listing %s: %w", payload.ListingID, err)
	}

	// Someone may have claimed it between creation and now.
	if listing.Status != models.StatusAvailable {
		log.Printf("Listing %s is %s, skipping fan-out.", payload.ListingID, listing.Status)
		return nil
	}

	rescuers, err := p.rescuerService.FindNearby(ctx, listing.Location, p.cfg.NotifyRadiusKm)
	if err != nil {
		return fmt.Errorf("failed to find rescuers near listing %s: %w", payload.ListingID, err)
	}
	if len(rescuers) == 0 {
		log.Printf("No rescuers within %.1fkm of listing %s.", p.cfg.NotifyRadiusKm, payload.ListingID)
		return nil
	}

	pushes := BuildNearbyPushes(listing, rescuers)
	if err := p.notifier.Notify(ctx, pushes); err != nil {
		log.Printf("Push delivery for listing %s partially failed: %v", payload.ListingID, err)
	}

	log.Printf("Notify-nearby task processed: Listing=%s, Rescuers=%d", payload.ListingID, len(pushes))
	return nil
}

// BuildNearbyPushes renders one push per rescuer for a new listing.
func BuildNearbyPushes(listing *models.Listing, rescuers []models.Rescuer) []notify.Push {
	body := fmt.Sprintf("%gkg %s", listing.QuantityKg, listing.FoodType)
	if listing.PerishabilityTag != "" {
		body = fmt.Sprintf("%s (%s)", body, listing.PerishabilityTag)
	}

	pushes := make([]notify.Push, 0, len(rescuers))
	for _, r := range rescuers {
		pushes = append(pushes, notify.Push{
			RescuerID: r.ID.String(),
			Title:     "New Pickup Nearby",
			Body:      body,
			Data: map[string]string{
				"listing_id": listing.ID.String(),
				"urgency":    string(listing.UrgencyClass),
			},
		})
	}
	return pushes
}
