package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blogapi/internal/models"
	"blogapi/internal/repository"
)

type stubTagRepo struct {
	tags map[string]*models.Tag
}

func (r *stubTagRepo) FindByNameFold(name string) (*models.Tag, error) {
	tag, ok := r.tags[strings.ToLower(name)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tag, nil
}

type stubPostRepo struct {
	duplicateFailures int
	createCalls       int
	created           *models.Post
	attachErr         error
}

func (r *stubPostRepo) CreateWithRelations(post *models.Post, tags []*models.Tag, images []models.UploadedImage) error {
	r.createCalls++
	if r.duplicateFailures > 0 {
		r.duplicateFailures--
		return gorm.ErrDuplicatedKey
	}
	if r.attachErr != nil {
		return r.attachErr
	}
	post.ID = 1
	for _, tag := range tags {
		post.Tags = append(post.Tags, *tag)
	}
	r.created = post
	return nil
}

func (r *stubPostRepo) FindByID(id uint64, preload ...string) (*models.Post, error) {
	if r.created == nil || r.created.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return r.created, nil
}

func (r *stubPostRepo) List(filter repository.PostFilter) ([]models.Post, int64, error) {
	return nil, 0, nil
}

func (r *stubPostRepo) Update(post *models.Post) error {
	r.created = post
	return nil
}

func (r *stubPostRepo) UpdateReviewStatus(post *models.Post) error {
	r.created = post
	return nil
}

type stubImageRepo struct {
	images map[string]models.UploadedImage
}

func (r *stubImageRepo) Create(image *models.UploadedImage) error {
	return nil
}

func (r *stubImageRepo) FindByID(id string) (*models.UploadedImage, error) {
	image, ok := r.images[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &image, nil
}

func (r *stubImageRepo) FindByIDs(ids []string) ([]models.UploadedImage, error) {
	var found []models.UploadedImage
	for _, id := range ids {
		if image, ok := r.images[id]; ok {
			found = append(found, image)
		}
	}
	return found, nil
}

func redactorUser() *models.User {
	regType := models.RegTypeRedactor
	return &models.User{ID: 7, UserType: models.UserTypeClient, RegType: &regType}
}

func TestCreatePost_RetriesOnceOnDuplicateTag(t *testing.T) {
	postRepo := &stubPostRepo{duplicateFailures: 1}
	tagRepo := &stubTagRepo{tags: map[string]*models.Tag{}}
	svc := NewPostService(postRepo, tagRepo, &stubImageRepo{})

	// The tag appears between the two attempts, as if another request
	// inserted it first.
	tagRepo.tags["golang"] = &models.Tag{ID: 3, Name: "golang"}

	post, err := svc.CreatePost(CreatePostInput{
		Title:       "Raced",
		Description: "body",
		Tags:        []string{"golang"},
		Creator:     redactorUser(),
	})
	require.NoError(t, err)
	require.Equal(t, 2, postRepo.createCalls)
	require.Len(t, post.Tags, 1)
	require.Equal(t, uint64(3), post.Tags[0].ID)
}

func TestCreatePost_GivesUpAfterSecondDuplicate(t *testing.T) {
	postRepo := &stubPostRepo{duplicateFailures: 2}
	tagRepo := &stubTagRepo{tags: map[string]*models.Tag{}}
	svc := NewPostService(postRepo, tagRepo, &stubImageRepo{})

	_, err := svc.CreatePost(CreatePostInput{
		Title:       "Raced",
		Description: "body",
		Tags:        []string{"golang"},
		Creator:     redactorUser(),
	})
	require.Error(t, err)
	require.Equal(t, 2, postRepo.createCalls)
}

func TestCreatePost_RejectsAttachedImage(t *testing.T) {
	postID := uint64(9)
	imageRepo := &stubImageRepo{images: map[string]models.UploadedImage{
		"img-1": {ID: "img-1", PostID: &postID},
	}}
	svc := NewPostService(&stubPostRepo{}, &stubTagRepo{tags: map[string]*models.Tag{}}, imageRepo)

	_, err := svc.CreatePost(CreatePostInput{
		Title:       "Reuse",
		Description: "body",
		ImageIDs:    []string{"img-1"},
		Creator:     redactorUser(),
	})
	require.ErrorIs(t, err, ErrImageAlreadyAttached)
}

func TestCreatePost_LostImageRaceSurfacesAsAttached(t *testing.T) {
	// Validation saw the image as free, but another request claimed it
	// before the transaction committed.
	postRepo := &stubPostRepo{attachErr: repository.ErrImageTaken}
	imageRepo := &stubImageRepo{images: map[string]models.UploadedImage{
		"img-1": {ID: "img-1"},
	}}
	svc := NewPostService(postRepo, &stubTagRepo{tags: map[string]*models.Tag{}}, imageRepo)

	_, err := svc.CreatePost(CreatePostInput{
		Title:    "Raced",
		ImageIDs: []string{"img-1"},
		Creator:  redactorUser(),
	})
	require.ErrorIs(t, err, ErrImageAlreadyAttached)
}

func TestCreatePost_DuplicateImageIDsCollapse(t *testing.T) {
	postRepo := &stubPostRepo{}
	imageRepo := &stubImageRepo{images: map[string]models.UploadedImage{
		"img-1": {ID: "img-1"},
	}}
	svc := NewPostService(postRepo, &stubTagRepo{tags: map[string]*models.Tag{}}, imageRepo)

	defaultID := "img-1"
	post, err := svc.CreatePost(CreatePostInput{
		Title:          "Repeated",
		ImageIDs:       []string{"img-1", "img-1"},
		DefaultImageID: &defaultID,
		Creator:        redactorUser(),
	})
	require.NoError(t, err)
	require.NotNil(t, post)
}

func TestCreatePost_UnknownImage(t *testing.T) {
	svc := NewPostService(&stubPostRepo{}, &stubTagRepo{tags: map[string]*models.Tag{}}, &stubImageRepo{images: map[string]models.UploadedImage{}})

	_, err := svc.CreatePost(CreatePostInput{
		Title:       "Missing",
		Description: "body",
		ImageIDs:    []string{"does-not-exist"},
		Creator:     redactorUser(),
	})
	require.ErrorIs(t, err, ErrImageNotFound)
}

func TestNormalizeTagNames(t *testing.T) {
	names, err := normalizeTagNames([]string{" Golang ", "golang", "web", ""})
	require.NoError(t, err)
	require.Equal(t, []string{"Golang", "web"}, names)

	_, err = normalizeTagNames([]string{"averyveryverylongtagname"})
	require.ErrorIs(t, err, ErrTagNameTooLong)

	tooMany := make([]string, 11)
	for i := range tooMany {
		tooMany[i] = strings.Repeat("x", i+1)
	}
	_, err = normalizeTagNames(tooMany)
	require.ErrorIs(t, err, ErrTooManyTags)
}

func TestReview_RejectsInvalidStatus(t *testing.T) {
	svc := NewPostService(&stubPostRepo{}, &stubTagRepo{tags: map[string]*models.Tag{}}, &stubImageRepo{})

	_, err := svc.Review(1, models.ReviewStatus("maybe"))
	require.ErrorIs(t, err, ErrInvalidReviewStatus)

	_, err = svc.Review(1, models.ReviewStatusPending)
	require.ErrorIs(t, err, ErrInvalidReviewStatus)
}

func TestReview_ApproveStampsPublicationDate(t *testing.T) {
	postRepo := &stubPostRepo{created: &models.Post{ID: 1, ReviewStatus: models.ReviewStatusPending}}
	svc := NewPostService(postRepo, &stubTagRepo{tags: map[string]*models.Tag{}}, &stubImageRepo{})

	post, err := svc.Review(1, models.ReviewStatusApproved)
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusApproved, post.ReviewStatus)
	require.NotNil(t, post.DatePublished)
}
