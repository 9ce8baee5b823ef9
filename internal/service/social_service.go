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
	ErrPostNotFound     = errors.New("post not found")
	ErrEmptyPostContent = errors.New("post content is required")
	ErrEmptyComment     = errors.New("comment text is required")
	ErrSelfFollow       = errors.New("you cannot follow yourself")
)

// FeedLimit caps how many posts the personalized feed returns.
const FeedLimit = 50

// DiscoverLimit caps how many follow suggestions are returned.
const DiscoverLimit = 10

// FollowStatus is the outcome of a follow toggle.
type FollowStatus struct {
	Following bool   `json:"following"`
	Message   string `json:"message"`
}

// PostView is a post enriched with its author summary and resolved media URLs.
type PostView struct {
	domain.Post
	Author    UserSummary `json:"author"`
	MediaURLs []string    `json:"mediaUrls,omitempty"`
}

// --- Service Interface ---
type SocialService interface {
	CreatePost(ctx context.Context, authorID primitive.ObjectID, content string, mediaKeys []string) (*PostView, error)
	Feed(ctx context.Context, userID primitive.ObjectID) ([]PostView, error)
	PostsByUser(ctx context.Context, authorID primitive.ObjectID) ([]PostView, error)
	GetPost(ctx context.Context, postID primitive.ObjectID) (*PostView, error)
	ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (*PostView, error)
	AddComment(ctx context.Context, postID, userID primitive.ObjectID, text string) (*PostView, error)
	RequestMediaUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error)

	// ToggleFollow follows the target, or unfollows when already following.
	ToggleFollow(ctx context.Context, userID, targetID primitive.ObjectID) (*FollowStatus, error)
	// DiscoverUsers suggests users the caller does not follow yet.
	DiscoverUsers(ctx context.Context, userID primitive.ObjectID) ([]UserSummary, error)
}

// --- Service Implementation ---

type socialService struct {
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	profiles    ProfileService
	fileStorage storage.FileStorage
}

// NewSocialService creates a new instance of socialService.
func NewSocialService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	profiles ProfileService,
	fileStorage storage.FileStorage,
) SocialService {
	return &socialService{
		postRepo:    postRepo,
		userRepo:    userRepo,
		profiles:    profiles,
		fileStorage: fileStorage,
	}
}

func (s *socialService) CreatePost(ctx context.Context, authorID primitive.ObjectID, content string, mediaKeys []string) (*PostView, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyPostContent
	}

	post := &domain.Post{
		AuthorID:  authorID,
		Content:   content,
		MediaKeys: mediaKeys,
	}
	if _, err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.enrich(ctx, post, nil), nil
}

// Feed returns the newest posts authored by users the caller follows.
func (s *socialService) Feed(ctx context.Context, userID primitive.ObjectID) ([]PostView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	posts, err := s.postRepo.GetFeed(ctx, user.Following, FeedLimit)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, posts), nil
}

func (s *socialService) PostsByUser(ctx context.Context, authorID primitive.ObjectID) ([]PostView, error) {
	posts, err := s.postRepo.GetByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, posts), nil
}

func (s *socialService) GetPost(ctx context.Context, postID primitive.ObjectID) (*PostView, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.enrich(ctx, post, nil), nil
}

func (s *socialService) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (*PostView, error) {
	post, err := s.postRepo.ToggleLike(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.enrich(ctx, post, nil), nil
}

func (s *socialService) AddComment(ctx context.Context, postID, userID primitive.ObjectID, text string) (*PostView, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}

	post, err := s.postRepo.AddComment(ctx, postID, domain.Comment{UserID: userID, Text: text})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.enrich(ctx, post, nil), nil
}

// RequestMediaUploadURL generates a presigned PUT URL for post media
// (images or videos).
func (s *socialService) RequestMediaUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	ct := strings.ToLower(contentType)
	if !strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "video/") {
		return nil, ErrInvalidContentType
	}

	objectKey := path.Join("media", userID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), extensionFor(contentType)))
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ToggleFollow updates the social graph edge in both directions. The toggle
// decision reads the caller's current following list, matching the read-
// then-write pattern of ToggleLike.
func (s *socialService) ToggleFollow(ctx context.Context, userID, targetID primitive.ObjectID) (*FollowStatus, error) {
	if userID == targetID {
		return nil, ErrSelfFollow
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	following := false
	for _, id := range user.Following {
		if id == targetID {
			following = true
			break
		}
	}

	if err := s.userRepo.SetFollowing(ctx, userID, targetID, !following); err != nil {
		return nil, err
	}

	if following {
		return &FollowStatus{Following: false, Message: fmt.Sprintf("Unfollowed %s", target.Name)}, nil
	}
	return &FollowStatus{Following: true, Message: fmt.Sprintf("Now following %s", target.Name)}, nil
}

// DiscoverUsers suggests accounts to follow, excluding the caller and anyone
// they already follow.
func (s *socialService) DiscoverUsers(ctx context.Context, userID primitive.ObjectID) ([]UserSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	exclude := append([]primitive.ObjectID{user.ID}, user.Following...)
	users, err := s.userRepo.FindDiscoverable(ctx, exclude, DiscoverLimit)
	if err != nil {
		return nil, err
	}

	summaries := make([]UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, s.profiles.Summarize(ctx, &users[i]))
	}
	return summaries, nil
}

// enrichAll resolves authors with a per-call memo so a feed of posts by one
// user costs one lookup.
func (s *socialService) enrichAll(ctx context.Context, posts []domain.Post) []PostView {
	memo := make(map[primitive.ObjectID]UserSummary)
	views := make([]PostView, 0, len(posts))
	for i := range posts {
		views = append(views, *s.enrich(ctx, &posts[i], memo))
	}
	return views
}

func (s *socialService) enrich(ctx context.Context, post *domain.Post, memo map[primitive.ObjectID]UserSummary) *PostView {
	view := &PostView{Post: *post}

	author, ok := memo[post.AuthorID]
	if !ok {
		if u, err := s.userRepo.GetByID(ctx, post.AuthorID); err == nil {
			author = s.profiles.Summarize(ctx, u)
		} else {
			log.Printf("WARN: could not load author %s for post %s: %v", post.AuthorID.Hex(), post.ID.Hex(), err)
		}
		if memo != nil {
			memo[post.AuthorID] = author
		}
	}
	view.Author = author

	for _, key := range post.MediaKeys {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
		if err != nil {
			log.Printf("WARN: could not resolve media URL for post %s: %v", post.ID.Hex(), err)
			continue
		}
		view.MediaURLs = append(view.MediaURLs, url)
	}
	return view
}
