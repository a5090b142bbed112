package gormdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Conte777/SupportFlow/internal/domain/support/consts"
	"github.com/Conte777/SupportFlow/internal/domain/support/deps"
	"github.com/Conte777/SupportFlow/internal/domain/support/dto"
	"github.com/Conte777/SupportFlow/internal/domain/support/entities"
)

// statColumns whitelists the bumpable counter columns
var statColumns = map[consts.AdminStatField]string{
	consts.StatReplies: "replies",
	consts.StatEdits:   "edits",
	consts.StatDeletes: "deletes",
}

type adminStatRepository struct {
	db     *gorm.DB
	schema schemaGuard
}

// NewAdminStatRepository creates a new admin stats repository
func NewAdminStatRepository(db *gorm.DB) deps.AdminStatRepository {
	return &adminStatRepository{db: db}
}

// Bump adds one to today's field for the admin, following the same
// insert-then-fallback discipline as action counters. The admin name is
// refreshed on every bump (last write wins). Unknown fields are a silent
// no-op.
func (r *adminStatRepository) Bump(ctx context.Context, adminID int64, adminName string, field consts.AdminStatField) error {
	col, ok := statColumns[field]
	if !ok {
		return nil
	}
	if err := r.schema.ensure(r.db, &entities.AdminStat{}); err != nil {
		return err
	}
	if adminName == "" {
		adminName = "—"
	}

	today := dayUTC(time.Now())
	row := entities.AdminStat{AdminID: adminID, AdminName: adminName, Date: today}
	switch field {
	case consts.StatReplies:
		row.Replies = 1
	case consts.StatEdits:
		row.Edits = 1
	case consts.StatDeletes:
		row.Deletes = 1
	}

	err := r.db.WithContext(ctx).Create(&row).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return storage("bump admin stat", err)
	}

	err = r.db.WithContext(ctx).
		Model(&entities.AdminStat{}).
		Where("admin_id = ? AND date = ?", adminID, today).
		UpdateColumns(map[string]any{
			col:          gorm.Expr(col + " + 1"),
			"admin_name": adminName,
		}).Error
	if err != nil {
		return storage("bump admin stat", err)
	}
	return nil
}

// SumRange returns per-admin totals between from and to inclusive,
// ordered by reply count descending
func (r *adminStatRepository) SumRange(ctx context.Context, from, to time.Time) ([]dto.AdminTotals, error) {
	if err := r.schema.ensure(r.db, &entities.AdminStat{}); err != nil {
		return nil, err
	}
	if to.IsZero() {
		to = time.Now()
	}

	var rows []dto.AdminTotals
	err := r.db.WithContext(ctx).
		Model(&entities.AdminStat{}).
		Select("admin_id, admin_name, SUM(replies) AS replies, SUM(edits) AS edits, SUM(deletes) AS deletes").
		Where("date >= ? AND date <= ?", dayUTC(from), dayUTC(to)).
		Group("admin_id, admin_name").
		Order("SUM(replies) DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, storage("sum admin stats", err)
	}
	return rows, nil
}
