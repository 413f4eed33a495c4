package commission

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/nadeos/bmd-exporter/internal/commission/domain"
	"github.com/nadeos/bmd-exporter/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NumberAllocator hands out the per-(year,month,group) statement sequence.
// First call for a key inserts the row, every later call re-reads the same
// stored value. Numbers are never reused or renumbered.
type NumberAllocator struct {
	log  *zap.Logger
	db   *gorm.DB
	node *snowflake.Node
}

func NewNumberAllocator(log *zap.Logger, gdb *gorm.DB, node *snowflake.Node) *NumberAllocator {
	return &NumberAllocator{log: log.Named("commission.numbers"), db: gdb, node: node}
}

// Allocate returns the sequence value for the key, creating it on first
// use. A concurrent first-time allocation for the same key trips the
// unique constraint and surfaces as ErrNumberConflict instead of handing
// out a second value.
func (a *NumberAllocator) Allocate(ctx context.Context, group string, year, month int) (int64, error) {
	var seq int64

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := readNumber(tx, group, year, month)
		if err == nil {
			seq = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		record := domain.Number{
			ID:        a.node.Generate().Int64(),
			GroupName: group,
			Year:      year,
			Month:     month,
		}
		if err := tx.Create(&record).Error; err != nil {
			if db.IsDuplicateKeyErr(err) {
				return fmt.Errorf("%w: group=%s year=%d month=%d", domain.ErrNumberConflict, group, year, month)
			}
			return err
		}

		seq, err = readNumber(tx, group, year, month)
		return err
	})
	if err != nil {
		return 0, err
	}

	return seq, nil
}

func readNumber(tx *gorm.DB, group string, year, month int) (int64, error) {
	var record domain.Number
	err := tx.
		Where("group_name = ? AND year = ? AND month = ?", group, year, month).
		First(&record).Error
	if err != nil {
		return 0, err
	}
	return record.Ida, nil
}
