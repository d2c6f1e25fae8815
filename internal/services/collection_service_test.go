// internal/services/collection_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
)

func setupCollectionDB(t *testing.T) *gorm.DB {
	return setupShopDB(t, &models.Product{}, &models.ColorVariant{}, &models.Collection{})
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "piper-cheer-2026", Slugify("Piper Cheer 2026!"))
	assert.Equal(t, "mom-dad-shirts", Slugify("  Mom & Dad Shirts  "))
	assert.Equal(t, "fall-fest", Slugify("Fall---Fest"))
}

func TestCreateCollectionGeneratesSlugAndShareToken(t *testing.T) {
	db := setupCollectionDB(t)
	svc := NewCollectionService(db)

	collection, err := svc.CreateCollection(&CreateCollectionRequest{Name: "Piper Cheer 2026"})
	assert.NoError(t, err)
	assert.Equal(t, "piper-cheer-2026", collection.Slug)
	assert.NotEmpty(t, collection.ShareToken)
	assert.True(t, collection.IsActive)
	assert.Equal(t, "/c/piper-cheer-2026", collection.ShareURL())
}

func TestCreateCollectionRejectsDuplicateSlug(t *testing.T) {
	db := setupCollectionDB(t)
	svc := NewCollectionService(db)

	_, err := svc.CreateCollection(&CreateCollectionRequest{Name: "Piper Cheer 2026"})
	assert.NoError(t, err)
	_, err = svc.CreateCollection(&CreateCollectionRequest{Name: "Piper! Cheer? 2026"})
	assert.EqualError(t, err, "a collection with this slug already exists")
}

func TestPasswordProtectedCollectionAccess(t *testing.T) {
	db := setupCollectionDB(t)
	svc := NewCollectionService(db)

	collection, err := svc.CreateCollection(&CreateCollectionRequest{
		Name:     "Team Store",
		Password: "gopipers",
	})
	assert.NoError(t, err)
	assert.True(t, collection.IsPasswordProtected)

	assert.False(t, svc.VerifyAccess(collection, "wrong"))
	assert.False(t, svc.VerifyAccess(collection, ""))
	assert.True(t, svc.VerifyAccess(collection, "gopipers"))

	open, err := svc.CreateCollection(&CreateCollectionRequest{Name: "Open Store"})
	assert.NoError(t, err)
	assert.True(t, svc.VerifyAccess(open, ""))
}

func TestUpdateCollectionClearsPassword(t *testing.T) {
	db := setupCollectionDB(t)
	svc := NewCollectionService(db)

	collection, err := svc.CreateCollection(&CreateCollectionRequest{
		Name:     "Team Store",
		Password: "gopipers",
	})
	assert.NoError(t, err)

	empty := ""
	updated, err := svc.UpdateCollection(collection.ID, &UpdateCollectionRequest{Password: &empty})
	assert.NoError(t, err)
	assert.False(t, updated.IsPasswordProtected)
	assert.True(t, svc.VerifyAccess(updated, ""))
}

func TestGetBySlugSkipsInactiveCollections(t *testing.T) {
	db := setupCollectionDB(t)
	svc := NewCollectionService(db)

	collection, err := svc.CreateCollection(&CreateCollectionRequest{Name: "Retired Store"})
	assert.NoError(t, err)

	inactive := false
	_, err = svc.UpdateCollection(collection.ID, &UpdateCollectionRequest{IsActive: &inactive})
	assert.NoError(t, err)

	_, err = svc.GetBySlug("retired-store")
	assert.EqualError(t, err, "collection not found")
}

func TestCollectionProductAssignment(t *testing.T) {
	db := setupCollectionDB(t)
	svc := NewCollectionService(db)

	tee := activeProduct(t, db, "3001", 25)
	hoodie := activeProduct(t, db, "3719", 45)

	collection, err := svc.CreateCollection(&CreateCollectionRequest{
		Name:       "Spirit Wear",
		ProductIDs: []uuid.UUID{tee.ID, hoodie.ID},
	})
	assert.NoError(t, err)
	assert.Len(t, collection.Products, 2)

	// Reassignment replaces the whole set.
	updated, err := svc.UpdateCollection(collection.ID, &UpdateCollectionRequest{
		ProductIDs: []uuid.UUID{hoodie.ID},
	})
	assert.NoError(t, err)
	assert.Len(t, updated.Products, 1)
	assert.Equal(t, "3719", updated.Products[0].StyleNumber)
}

func TestCollectionProductAssignmentRejectsUnknownID(t *testing.T) {
	db := setupCollectionDB(t)
	svc := NewCollectionService(db)

	_, err := svc.CreateCollection(&CreateCollectionRequest{
		Name:       "Spirit Wear",
		ProductIDs: []uuid.UUID{uuid.New()},
	})
	assert.Error(t, err)
}

func TestDeadlinePassed(t *testing.T) {
	db := setupCollectionDB(t)
	svc := NewCollectionService(db)

	past := time.Now().Add(-time.Hour)
	closed, err := svc.CreateCollection(&CreateCollectionRequest{Name: "Closed Store", OrderDeadline: &past})
	assert.NoError(t, err)
	assert.True(t, svc.DeadlinePassed(closed))

	future := time.Now().Add(48 * time.Hour)
	open, err := svc.CreateCollection(&CreateCollectionRequest{Name: "Open Deadline", OrderDeadline: &future})
	assert.NoError(t, err)
	assert.False(t, svc.DeadlinePassed(open))

	none, err := svc.CreateCollection(&CreateCollectionRequest{Name: "No Deadline"})
	assert.NoError(t, err)
	assert.False(t, svc.DeadlinePassed(none))
}
