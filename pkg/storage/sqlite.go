package storage

import (
	"context"
	"errors"

	"github.com/nhc-marketplace/storefront/pkg/db"
	"github.com/nhc-marketplace/storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLite persists values in a local file for single-node deployments.
type SQLite struct {
	client *db.Client
}

func NewSQLite(client *db.Client) (*SQLite, error) {
	if client == nil {
		return nil, errors.New("sqlite client required")
	}
	return &SQLite{client: client}, nil
}

// Models lists the tables the backend needs migrated.
func Models() []any {
	return []any{&models.WorkspaceValue{}}
}

func (s *SQLite) scoped(ctx context.Context) *gorm.DB {
	return s.client.DB().WithContext(ctx)
}

func (s *SQLite) Get(ctx context.Context, sessionID, key string) (string, error) {
	var row models.WorkspaceValue
	err := s.scoped(ctx).
		Where("session_id = ? AND key = ?", sessionID, key).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

func (s *SQLite) Set(ctx context.Context, sessionID, key, value string) error {
	row := models.WorkspaceValue{SessionID: sessionID, Key: key, Value: value}
	return s.scoped(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}

func (s *SQLite) Delete(ctx context.Context, sessionID, key string) error {
	return s.scoped(ctx).
		Where("session_id = ? AND key = ?", sessionID, key).
		Delete(&models.WorkspaceValue{}).Error
}

func (s *SQLite) Purge(ctx context.Context, sessionID string) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Where("session_id = ?", sessionID).Delete(&models.WorkspaceValue{}).Error
	})
}
