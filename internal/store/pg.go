package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tunemint/market-ledger/internal/domain"
	"github.com/tunemint/market-ledger/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the journal tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.Token{},
		&schema.Balance{},
		&schema.Listing{},
		&schema.SettlementEvent{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings
// into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// RecordOutcome appends the outcome to the journal and maintains the token,
// balance, and listing read models in a single transaction. Replays are
// idempotent: the journal insert conflicts on the outcome ULID and the read
// model updates are absolute (they write resulting state, not deltas).
func (s *pgStore) RecordOutcome(ctx context.Context, outcome *domain.SettlementOutcome) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome payload: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Append the journal entry. A conflict on the ULID means the
		// outcome was already recorded; skip the read-model updates too.
		event := schema.SettlementEvent{
			ID:        outcome.ID,
			Kind:      string(outcome.Kind),
			TokenID:   uint64(outcome.TokenID),
			Actor:     outcome.Actor.String(),
			Payload:   payload,
			Timestamp: outcome.Timestamp,
		}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&event)
		if result.Error != nil {
			return fmt.Errorf("failed to append settlement event: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}

		// 2. Maintain the read models per operation kind.
		switch outcome.Kind {
		case domain.OperationCreate:
			if err := s.upsertToken(tx, outcome); err != nil {
				return err
			}
		case domain.OperationMint:
			if outcome.ResultingSupply != nil {
				if err := tx.Model(&schema.Token{}).
					Where("id = ?", uint64(outcome.TokenID)).
					Update("current_supply", *outcome.ResultingSupply).Error; err != nil {
					return fmt.Errorf("failed to update token supply: %w", err)
				}
			}
			if err := s.upsertBalances(tx, outcome); err != nil {
				return err
			}
		case domain.OperationList:
			if err := s.upsertListing(tx, outcome); err != nil {
				return err
			}
		case domain.OperationBuy:
			if err := s.upsertBalances(tx, outcome); err != nil {
				return err
			}
			if err := s.upsertListing(tx, outcome); err != nil {
				return err
			}
		case domain.OperationDeactivate:
			if err := tx.Model(&schema.Token{}).
				Where("id = ?", uint64(outcome.TokenID)).
				Update("active", false).Error; err != nil {
				return fmt.Errorf("failed to deactivate token: %w", err)
			}
		case domain.OperationApproval:
			// Journal entry only; approvals have no read model.
		}

		return nil
	})
}

// upsertToken writes the full token read model from a creation outcome.
func (s *pgStore) upsertToken(tx *gorm.DB, outcome *domain.SettlementOutcome) error {
	if outcome.Token == nil {
		return fmt.Errorf("creation outcome %s carries no token record", outcome.ID)
	}

	token := schema.Token{
		ID:            uint64(outcome.Token.ID),
		Name:          outcome.Token.Name,
		Description:   outcome.Token.Description,
		MusicURL:      outcome.Token.MusicURL,
		ImageURL:      outcome.Token.ImageURL,
		UnitPrice:     outcome.Token.UnitPrice,
		MaxSupply:     outcome.Token.MaxSupply,
		CurrentSupply: outcome.Token.CurrentSupply,
		RoyaltyBps:    outcome.Token.RoyaltyBps,
		Creator:       outcome.Token.Creator.String(),
		Active:        outcome.Token.Active,
		CreatedAt:     outcome.Token.CreatedAt,
	}

	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&token).Error; err != nil {
		return fmt.Errorf("failed to upsert token: %w", err)
	}

	return nil
}

// upsertBalances writes the resulting balances carried by the outcome.
func (s *pgStore) upsertBalances(tx *gorm.DB, outcome *domain.SettlementOutcome) error {
	for holder, quantity := range outcome.ResultingBalances {
		balance := schema.Balance{
			TokenID:   uint64(outcome.TokenID),
			Holder:    holder.String(),
			Quantity:  quantity,
			UpdatedAt: outcome.Timestamp,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_id"}, {Name: "holder"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).Create(&balance).Error; err != nil {
			return fmt.Errorf("failed to upsert balance: %w", err)
		}
	}
	return nil
}

// upsertListing writes the resulting listing, deleting the row at zero
// quantity since a zero listing is absent.
func (s *pgStore) upsertListing(tx *gorm.DB, outcome *domain.SettlementOutcome) error {
	if outcome.ResultingListing == nil {
		return nil
	}

	l := outcome.ResultingListing
	if l.Quantity == 0 {
		if err := tx.Where("token_id = ? AND seller = ?", uint64(l.TokenID), l.Seller.String()).
			Delete(&schema.Listing{}).Error; err != nil {
			return fmt.Errorf("failed to delete exhausted listing: %w", err)
		}
		return nil
	}

	listing := schema.Listing{
		TokenID:   uint64(l.TokenID),
		Seller:    l.Seller.String(),
		Price:     l.Price,
		Quantity:  l.Quantity,
		UpdatedAt: outcome.Timestamp,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_id"}, {Name: "seller"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "quantity", "updated_at"}),
	}).Create(&listing).Error; err != nil {
		return fmt.Errorf("failed to upsert listing: %w", err)
	}

	return nil
}

// GetToken retrieves a token read model by ledger id
func (s *pgStore) GetToken(ctx context.Context, tokenID uint64) (*schema.Token, error) {
	var token schema.Token
	err := s.db.WithContext(ctx).Where("id = ?", tokenID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return &token, nil
}

// GetBalance retrieves one (token, holder) balance read model
func (s *pgStore) GetBalance(ctx context.Context, tokenID uint64, holder string) (*schema.Balance, error) {
	var balance schema.Balance
	err := s.db.WithContext(ctx).
		Where("token_id = ? AND holder = ?", tokenID, holder).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &balance, nil
}

// GetListing retrieves one (token, seller) listing read model
func (s *pgStore) GetListing(ctx context.Context, tokenID uint64, seller string) (*schema.Listing, error) {
	var listing schema.Listing
	err := s.db.WithContext(ctx).
		Where("token_id = ? AND seller = ?", tokenID, seller).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

// GetSettlementEvents retrieves journal entries for a token in emission order
func (s *pgStore) GetSettlementEvents(ctx context.Context, tokenID uint64, limit int, offset uint64) ([]schema.SettlementEvent, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.SettlementEvent{}).Where("token_id = ?", tokenID)

	// Count total before pagination
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count settlement events: %w", err)
	}

	// ULIDs sort lexically in emission order
	query = query.Order("id ASC").Limit(limit).Offset(int(offset)) //nolint:gosec,G115

	var events []schema.SettlementEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get settlement events: %w", err)
	}

	return events, uint64(total), nil //nolint:gosec,G115
}
