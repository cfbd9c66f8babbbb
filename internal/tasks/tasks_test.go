package tasks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tolo017/eco-sawa/internal/models"
	"github.com/tolo017/eco-sawa/internal/urgency"
	"github.com/tolo017/eco-sawa/internal/utils"
)

func TestNewNotifyNearbyTask(t *testing.T) {
	listingID := utils.NewSixID()
	task, err := NewNotifyNearbyTask(listingID)
	require.NoError(t, err)
	assert.Equal(t, TypeNotifyNearby, task.Type())

	var payload NotifyNearbyPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, listingID.String(), payload.ListingID)

	parsed, err := utils.ParseSixID(payload.ListingID)
	require.NoError(t, err)
	assert.Equal(t, listingID, parsed)
}

func TestBuildNearbyPushes(t *testing.T) {
	listing := &models.Listing{
		ID:               utils.NewSixID(),
		FoodType:         "ugali",
		QuantityKg:       5,
		PerishabilityTag: "perishable-2hr",
		UrgencyClass:     urgency.Urgent,
	}
	rescuers := []models.Rescuer{
		{ID: utils.NewSixID()},
		{ID: utils.NewSixID()},
	}

	pushes := BuildNearbyPushes(listing, rescuers)
	require.Len(t, pushes, 2)
	for i, p := range pushes {
		assert.Equal(t, rescuers[i].ID.String(), p.RescuerID)
		assert.Equal(t, "New Pickup Nearby", p.Title)
		assert.Equal(t, "5kg ugali (perishable-2hr)", p.Body)
		assert.Equal(t, listing.ID.String(), p.Data["listing_id"])
		assert.Equal(t, "URGENT", p.Data["urgency"])
	}
}

func TestBuildNearbyPushes_NoTag(t *testing.T) {
	listing := &models.Listing{
		ID:           utils.NewSixID(),
		FoodType:     "rice",
		QuantityKg:   2.5,
		UrgencyClass: urgency.Stable,
	}
	pushes := BuildNearbyPushes(listing, []models.Rescuer{{ID: utils.NewSixID()}})
	require.Len(t, pushes, 1)
	assert.Equal(t, "2.5kg rice", pushes[0].Body)
}
