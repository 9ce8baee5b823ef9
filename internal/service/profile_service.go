package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"

	"formaai/backend/internal/domain"
	"formaai/backend/internal/repository"
	"formaai/backend/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidContentType = errors.New("invalid or missing content type")
)

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // The key the client reports back on confirm
}

// UserSummary is the public slice of a user embedded in posts, chats and
// follower lists.
type UserSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"profilePicUrl,omitempty"`
}

// UpdateProfileInput carries a partial profile update; nil fields are left
// untouched.
type UpdateProfileInput struct {
	Name              *string
	Username          *string
	Bio               *string
	Age               *int
	Gender            *string
	HeightCm          *float64
	WeightKg          *float64
	Goal              *string
	ActivityLevel     *string
	DietaryPreference *string
	CuisinePrefs      []string
}

// --- Service Interface ---
type ProfileService interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*domain.User, error)

	// Avatar upload: the client PUTs the image to the presigned URL, then
	// confirms with the object key.
	RequestAvatarUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmAvatar(ctx context.Context, userID primitive.ObjectID, objectKey string) (*domain.User, error)

	// AvatarURL resolves a user's stored avatar key to a temporary download
	// URL. Returns "" when the user has no avatar or resolution fails.
	AvatarURL(ctx context.Context, user *domain.User) string
	Summarize(ctx context.Context, user *domain.User) UserSummary
}

// --- Service Implementation ---

type profileService struct {
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(userRepo repository.UserRepository, fileStorage storage.FileStorage) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		fileStorage: fileStorage,
	}
}

func (s *profileService) Get(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *profileService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update applies a partial profile update. Any update through this path marks
// the profile as complete, matching the onboarding flow.
func (s *profileService) Update(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*domain.User, error) {
	fields := map[string]any{"profileComplete": true}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Username != nil {
		fields["username"] = strings.TrimSpace(*input.Username)
	}
	if input.Bio != nil {
		fields["bio"] = *input.Bio
	}
	if input.Age != nil {
		fields["age"] = *input.Age
	}
	if input.Gender != nil {
		fields["gender"] = *input.Gender
	}
	if input.HeightCm != nil {
		fields["heightCm"] = *input.HeightCm
	}
	if input.WeightKg != nil {
		fields["weightKg"] = *input.WeightKg
	}
	if input.Goal != nil {
		fields["goal"] = *input.Goal
	}
	if input.ActivityLevel != nil {
		fields["activityLevel"] = *input.ActivityLevel
	}
	if input.DietaryPreference != nil {
		fields["dietaryPreference"] = *input.DietaryPreference
	}
	if input.CuisinePrefs != nil {
		fields["cuisinePrefs"] = input.CuisinePrefs
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// RequestAvatarUploadURL generates a presigned PUT URL for a profile picture.
func (s *profileService) RequestAvatarUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrInvalidContentType
	}

	objectKey := path.Join("avatars", userID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), extensionFor(contentType)))
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmAvatar records the uploaded object key and retires the previous
// avatar object, best-effort.
func (s *profileService) ConfirmAvatar(ctx context.Context, userID primitive.ObjectID, objectKey string) (*domain.User, error) {
	if objectKey == "" {
		return nil, errors.New("object key is required")
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	oldKey := user.AvatarKey

	if err := s.userRepo.SetAvatarKey(ctx, userID, objectKey); err != nil {
		return nil, err
	}

	if oldKey != "" && oldKey != objectKey {
		if err := s.fileStorage.DeleteObject(ctx, oldKey); err != nil {
			log.Printf("WARN: could not delete previous avatar %s for user %s: %v", oldKey, userID.Hex(), err)
		}
	}

	user.AvatarKey = objectKey
	return user, nil
}

func (s *profileService) AvatarURL(ctx context.Context, user *domain.User) string {
	if user == nil || user.AvatarKey == "" {
		return ""
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, user.AvatarKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		log.Printf("WARN: could not resolve avatar URL for user %s: %v", user.ID.Hex(), err)
		return ""
	}
	return url
}

func (s *profileService) Summarize(ctx context.Context, user *domain.User) UserSummary {
	if user == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:        user.ID.Hex(),
		Name:      user.Name,
		Username:  user.Username,
		AvatarURL: s.AvatarURL(ctx, user),
	}
}

func extensionFor(contentType string) string {
	parts := strings.Split(contentType, "/")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}
	return "bin"
}
