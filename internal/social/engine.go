// Package social maintains the follow graph and everything downstream of
// it: follower/following counters, the reverse-chronological feed, posts,
// likes, and comments. Every counter lives in the same transaction as the
// edge or row that moves it.
package social

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/AbdulBaasithere/socializeNotion/config"
	"github.com/AbdulBaasithere/socializeNotion/internal/apperr"
	"github.com/AbdulBaasithere/socializeNotion/internal/models"
	"github.com/AbdulBaasithere/socializeNotion/internal/retry"
)

type Engine struct {
	db       *gorm.DB
	cfg      *config.Config
	txPolicy retry.Policy
}

func NewEngine(db *gorm.DB, cfg *config.Config) *Engine {
	return &Engine{
		db:       db,
		cfg:      cfg,
		txPolicy: retry.DefaultPolicy(cfg.TxMaxRetries),
	}
}

// runTx executes fn in a transaction, retrying transient failures. When
// retries are exhausted the caller sees an unavailability error, not the
// raw driver error.
func (e *Engine) runTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := retry.Do(ctx, e.txPolicy, func() error {
		return e.db.WithContext(ctx).Transaction(fn)
	})
	if errors.Is(err, retry.ErrMaxRetriesExceeded) {
		return apperr.Unavailable(err, "storage did not accept the write")
	}
	return err
}

func (e *Engine) findUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := e.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user %d not found", userID)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// followedIDs returns the set of users viewerID follows among candidates.
// Used to annotate listings without a per-row query.
func (e *Engine) followedIDs(ctx context.Context, viewerID uint, candidates []uint) (map[uint]bool, error) {
	followed := make(map[uint]bool, len(candidates))
	if len(candidates) == 0 {
		return followed, nil
	}
	var ids []uint
	err := e.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id IN ?", viewerID, candidates).
		Pluck("followee_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}

func (e *Engine) page(p int) (limit, offset int) {
	limit = e.cfg.PageSize
	offset = (p - 1) * limit
	return limit, offset
}
