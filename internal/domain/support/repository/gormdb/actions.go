package gormdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Conte777/SupportFlow/internal/domain/support/consts"
	"github.com/Conte777/SupportFlow/internal/domain/support/deps"
	"github.com/Conte777/SupportFlow/internal/domain/support/entities"
)

type actionStatRepository struct {
	db     *gorm.DB
	schema schemaGuard
}

// NewActionStatRepository creates a new action counter repository
func NewActionStatRepository(db *gorm.DB) deps.ActionStatRepository {
	return &actionStatRepository{db: db}
}

// Increment adds one to today's counter for the kind. The upsert is
// resolved through the unique-constraint fallback: try the insert first,
// on a duplicate key switch to an additive update. Two concurrent first
// increments therefore end up as one row with count 2, never two rows
// and never a lost update.
func (r *actionStatRepository) Increment(ctx context.Context, kind consts.ActionKind) error {
	if err := r.schema.ensure(r.db, &entities.ActionStat{}); err != nil {
		return err
	}

	today := dayUTC(time.Now())
	row := entities.ActionStat{Kind: string(kind), Date: today, Count: 1}

	err := r.db.WithContext(ctx).Create(&row).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return storage("increment action", err)
	}

	err = r.db.WithContext(ctx).
		Model(&entities.ActionStat{}).
		Where("kind = ? AND date = ?", string(kind), today).
		UpdateColumn("count", gorm.Expr("count + ?", 1)).Error
	if err != nil {
		return storage("increment action", err)
	}
	return nil
}

// SumRange returns kind totals between from and to inclusive
func (r *actionStatRepository) SumRange(ctx context.Context, from, to time.Time) (map[consts.ActionKind]int64, error) {
	if err := r.schema.ensure(r.db, &entities.ActionStat{}); err != nil {
		return nil, err
	}
	if to.IsZero() {
		to = time.Now()
	}

	return r.sum(r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", dayUTC(from), dayUTC(to)))
}

// SumAllTime returns kind totals over the whole store
func (r *actionStatRepository) SumAllTime(ctx context.Context) (map[consts.ActionKind]int64, error) {
	if err := r.schema.ensure(r.db, &entities.ActionStat{}); err != nil {
		return nil, err
	}
	return r.sum(r.db.WithContext(ctx))
}

func (r *actionStatRepository) sum(tx *gorm.DB) (map[consts.ActionKind]int64, error) {
	var rows []struct {
		Kind  string
		Total int64
	}
	err := tx.Model(&entities.ActionStat{}).
		Select("kind, SUM(count) AS total").
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, storage("sum actions", err)
	}

	out := make(map[consts.ActionKind]int64, len(rows))
	for _, row := range rows {
		out[consts.ActionKind(row.Kind)] = row.Total
	}
	return out, nil
}
