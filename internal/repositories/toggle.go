package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/food-roulette/backend/internal/observability"
	"github.com/anonto42/food-roulette/backend/pkg/logger"
	"gorm.io/gorm"
)

// softDeletable is implemented by the like tables that are switched off with
// an is_active flag instead of being deleted.
type softDeletable[T any] interface {
	*T
	Active() bool
	SetActive(on bool)
}

// toggleOn switches on the row matching match, creating it from fresh when no
// row exists yet. An inactive row is reactivated in place so its id survives
// unlike/re-like cycles. If a concurrent request inserts the same pair first,
// the unique constraint rejects our insert and the winner's row is returned.
func toggleOn[T any, P softDeletable[T]](ctx context.Context, db *gorm.DB, kind string, match map[string]any, fresh P) (P, error) {
	var result P
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing := P(new(T))
		err := tx.Where(match).Take(existing).Error
		switch {
		case err == nil:
			if !existing.Active() {
				if err := tx.Model(existing).Update("is_active", true).Error; err != nil {
					return err
				}
				existing.SetActive(true)
				observability.LikeToggles.WithLabelValues(kind, "reactivated").Inc()
			} else {
				observability.LikeToggles.WithLabelValues(kind, "unchanged").Inc()
			}
			result = existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		fresh.SetActive(true)
		if err := tx.Create(fresh).Error; err != nil {
			return err
		}
		observability.LikeToggles.WithLabelValues(kind, "created").Inc()
		result = fresh
		return nil
	})
	if err == nil {
		return result, nil
	}

	if err = classify(err); !errors.Is(err, ErrAlreadyExists) {
		return nil, err
	}
	logger.Debug(ctx).Str("kind", kind).Interface("match", match).Msg("duplicate like insert rolled back")
	observability.LikeToggles.WithLabelValues(kind, "duplicate").Inc()

	winner := P(new(T))
	if err := db.WithContext(ctx).Where(match).Take(winner).Error; err != nil {
		return nil, classify(err)
	}
	return winner, nil
}

// switchOff clears is_active on every row of model matching match and reports
// how many rows it touched.
func switchOff(ctx context.Context, db *gorm.DB, model any, kind string, match map[string]any) (int64, error) {
	res := db.WithContext(ctx).Model(model).Where(match).Update("is_active", false)
	if res.Error != nil {
		return 0, classify(res.Error)
	}
	if res.RowsAffected > 0 {
		observability.LikeToggles.WithLabelValues(kind, "deactivated").Add(float64(res.RowsAffected))
	}
	return res.RowsAffected, nil
}
