package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"blogapi/internal/models"
)

func openPostTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Post{},
		&models.UploadedImage{},
		&models.Comment{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

func TestPostRepository_CreateWithRelations(t *testing.T) {
	db := openPostTestDB(t)
	repo := NewPostRepository(db)

	image := &models.UploadedImage{ObjectKey: "images/a.jpg"}
	require.NoError(t, db.Create(image).Error)

	post := &models.Post{Title: "First", ReviewStatus: models.ReviewStatusApproved}
	tags := []*models.Tag{{Name: "golang"}}
	require.NoError(t, repo.CreateWithRelations(post, tags, []models.UploadedImage{*image}))

	var stored models.UploadedImage
	require.NoError(t, db.First(&stored, "id = ?", image.ID).Error)
	require.NotNil(t, stored.PostID)
	require.Equal(t, post.ID, *stored.PostID)

	loaded, err := repo.FindByID(post.ID, "Tags", "Images")
	require.NoError(t, err)
	require.Len(t, loaded.Tags, 1)
	require.Len(t, loaded.Images, 1)
}

func TestPostRepository_UpdateReviewStatus_WritesOnlyModerationColumns(t *testing.T) {
	db := openPostTestDB(t)
	repo := NewPostRepository(db)

	post := &models.Post{Title: "Pending", ReviewStatus: models.ReviewStatusPending}
	require.NoError(t, repo.CreateWithRelations(post, []*models.Tag{{Name: "news"}}, nil))
	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, Name: "Anon", Email: "a@example.com", Text: "hi"}).Error)

	loaded, err := repo.FindByID(post.ID, "Tags", "Comments")
	require.NoError(t, err)

	loaded.ReviewStatus = models.ReviewStatusApproved
	now := loaded.DateCreated
	loaded.DatePublished = &now
	loaded.Title = "mutated in memory only"
	require.NoError(t, repo.UpdateReviewStatus(loaded))

	stored, err := repo.FindByID(post.ID, "Tags", "Comments")
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusApproved, stored.ReviewStatus)
	require.NotNil(t, stored.DatePublished)
	require.Equal(t, "Pending", stored.Title)
	require.Len(t, stored.Tags, 1)
	require.Len(t, stored.Comments, 1)
}

func TestPostRepository_CreateWithRelations_ImageClaimedConcurrently(t *testing.T) {
	db := openPostTestDB(t)
	repo := NewPostRepository(db)

	image := &models.UploadedImage{ObjectKey: "images/a.jpg"}
	require.NoError(t, db.Create(image).Error)

	// Both requests validated the image as free before writing.
	first := &models.Post{Title: "First", ReviewStatus: models.ReviewStatusApproved}
	require.NoError(t, repo.CreateWithRelations(first, nil, []models.UploadedImage{*image}))

	second := &models.Post{Title: "Second", ReviewStatus: models.ReviewStatusApproved}
	err := repo.CreateWithRelations(second, nil, []models.UploadedImage{*image})
	require.ErrorIs(t, err, ErrImageTaken)

	// The losing post rolled back entirely and the image kept its owner.
	var postCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	require.Equal(t, int64(1), postCount)

	var stored models.UploadedImage
	require.NoError(t, db.First(&stored, "id = ?", image.ID).Error)
	require.NotNil(t, stored.PostID)
	require.Equal(t, first.ID, *stored.PostID)
}
