// Package directory is the identity directory: user records and
// primary-identifier lookups. It owns no follow edges; the social engine
// mutates those, keeping the denormalized counts on the user row.
package directory

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/AbdulBaasithere/socializeNotion/config"
	"github.com/AbdulBaasithere/socializeNotion/internal/apperr"
	"github.com/AbdulBaasithere/socializeNotion/internal/models"
)

type Service struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

// ProfileView is a user profile annotated with the viewer's relationship.
type ProfileView struct {
	models.UserBrief
	FollowsBack bool   `json:"follows_back"`
	Email       string `json:"email,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, lookupErr(err, "user")
	}
	if count > 0 {
		return nil, apperr.Conflict("username or email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("username or email already registered")
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies credentials. Callers should present any failure as
// a uniform "invalid credentials" to avoid username probing.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.ResolveUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Forbidden("invalid credentials")
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", id)
		}
		return nil, lookupErr(err, "user")
	}
	return &user, nil
}

func (s *Service) ResolveUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %q not found", username)
		}
		return nil, lookupErr(err, "user")
	}
	return &user, nil
}

// Profile returns the user plus is_following / follows_back as seen by the
// viewer. Email is only included on the viewer's own profile.
func (s *Service) Profile(ctx context.Context, viewerID, userID uint) (*ProfileView, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := ProfileView{
		UserBrief: user.Brief(false),
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if viewerID == userID {
		view.Email = user.Email
		return &view, nil
	}

	var edges []models.Follow
	if err := s.db.WithContext(ctx).
		Where("(follower_id = ? AND followee_id = ?) OR (follower_id = ? AND followee_id = ?)",
			viewerID, userID, userID, viewerID).
		Find(&edges).Error; err != nil {
		return nil, lookupErr(err, "follow state")
	}
	for _, e := range edges {
		if e.FollowerID == viewerID {
			view.IsFollowing = true
		} else {
			view.FollowsBack = true
		}
	}
	return &view, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uint, avatar, bio *string) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if avatar != nil {
		updates["avatar"] = *avatar
	}
	if bio != nil {
		updates["bio"] = *bio
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// lookupCtx bounds every directory lookup so a stalled database surfaces a
// retryable error instead of hanging the request.
func (s *Service) lookupCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.LookupTimeout
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func lookupErr(err error, what string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Unavailable(err, "%s lookup timed out", what)
	}
	return err
}
