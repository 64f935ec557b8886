package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/baharkarakas/wallet-api/internal/models"
	"github.com/baharkarakas/wallet-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type balanceRecord struct {
	ID        string          `gorm:"primaryKey;type:text"`
	UserID    int64           `gorm:"not null;uniqueIndex:unq_user_currency,priority:1"`
	Code      string          `gorm:"type:text;size:3;not null;uniqueIndex:unq_user_currency,priority:2"`
	Amount    decimal.Decimal `gorm:"type:text;not null"` // text keeps the exact decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (balanceRecord) TableName() string { return "balances" }

func (r balanceRecord) toModel() models.Balance {
	return models.Balance{
		ID:        r.ID,
		UserID:    r.UserID,
		Code:      r.Code,
		Amount:    r.Amount,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type balancesRepo struct{ db *gorm.DB }

// NewBalances expects a database opened with Open, whose single connection
// serializes all writers.
func NewBalances(db *gorm.DB) repository.Balances {
	return &balancesRepo{db: db}
}

func (r *balancesRepo) Get(ctx context.Context, userID int64, code string) (models.Balance, error) {
	var rec balanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND code = ?", userID, code).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Balance{}, repository.ErrNotFound
	}
	if err != nil {
		return models.Balance{}, err
	}
	return rec.toModel(), nil
}

func (r *balancesRepo) List(ctx context.Context, userID int64) ([]models.Balance, error) {
	var recs []balanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("rowid").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.Balance, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toModel())
	}
	return out, nil
}

func (r *balancesRepo) AddAmount(ctx context.Context, userID int64, code string, delta decimal.Decimal) (models.Balance, error) {
	var rec balanceRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND code = ?", userID, code).Take(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if !models.ValidAmount(delta) {
				return repository.ErrInvalidAmount
			}
			rec = balanceRecord{ID: uuid.NewString(), UserID: userID, Code: code, Amount: delta}
			return tx.Create(&rec).Error
		}
		if err != nil {
			return err
		}

		next := rec.Amount.Add(delta)
		if !models.ValidAmount(next) {
			return repository.ErrInvalidAmount
		}
		rec.Amount = next
		return tx.Save(&rec).Error
	})
	if err != nil {
		return models.Balance{}, err
	}
	return rec.toModel(), nil
}

func (r *balancesRepo) Delete(ctx context.Context, userID int64, code string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND code = ?", userID, code).
		Delete(&balanceRecord{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
