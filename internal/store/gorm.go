package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"drawpoker/internal/game"
)

// gameRow persists a snapshot whole, as one JSON document. Status and
// created_at are lifted into columns so the waiting list is a plain
// indexed query.
type gameRow struct {
	ID        string `gorm:"primaryKey"`
	Status    string `gorm:"index"`
	Snapshot  datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (gameRow) TableName() string { return "games" }

type actionRow struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Type      string
	GameID    string
	UserID    string
	Indices   datatypes.JSON
	Timestamp time.Time `gorm:"index"`
}

func (actionRow) TableName() string { return "pending_actions" }

// Gorm implements SnapshotStore and ActionQueue over any gorm
// dialector. The server opens it on postgres for the authoritative
// store; clients open the same code on a local sqlite file.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&gameRow{}, &actionRow{}); err != nil {
		return nil, fmt.Errorf("%w: migrate: %v", ErrStorage, err)
	}
	return &Gorm{db: db}, nil
}

func (g *Gorm) Load(ctx context.Context, gameID string) (*game.Session, error) {
	var row gameRow
	err := g.db.WithContext(ctx).First(&row, "id = ?", gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", ErrStorage, gameID, err)
	}
	return decodeSnapshot(row.Snapshot)
}

func (g *Gorm) Save(ctx context.Context, s *game.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStorage, s.ID, err)
	}
	row := gameRow{
		ID:        s.ID,
		Status:    string(s.Status),
		Snapshot:  doc,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.LastUpdated,
	}
	err = g.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrStorage, s.ID, err)
	}
	return nil
}

func (g *Gorm) Delete(ctx context.Context, gameID string) error {
	if err := g.db.WithContext(ctx).Delete(&gameRow{}, "id = ?", gameID).Error; err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrStorage, gameID, err)
	}
	return nil
}

func (g *Gorm) ListWaiting(ctx context.Context) ([]*game.Session, error) {
	var rows []gameRow
	err := g.db.WithContext(ctx).
		Where("status = ?", string(game.StatusWaiting)).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list waiting: %v", ErrStorage, err)
	}
	out := make([]*game.Session, 0, len(rows))
	for _, row := range rows {
		s, err := decodeSnapshot(row.Snapshot)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (g *Gorm) Append(ctx context.Context, a PendingAction) (int64, error) {
	indices, err := json.Marshal(a.Indices)
	if err != nil {
		return 0, fmt.Errorf("%w: encode action: %v", ErrStorage, err)
	}
	row := actionRow{
		Type:      a.Type,
		GameID:    a.GameID,
		UserID:    a.UserID,
		Indices:   indices,
		Timestamp: a.Timestamp,
	}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("%w: append action: %v", ErrStorage, err)
	}
	return row.ID, nil
}

func (g *Gorm) List(ctx context.Context) ([]PendingAction, error) {
	var rows []actionRow
	if err := g.db.WithContext(ctx).Order("timestamp ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: list actions: %v", ErrStorage, err)
	}
	out := make([]PendingAction, 0, len(rows))
	for _, row := range rows {
		var indices []int
		if err := json.Unmarshal(row.Indices, &indices); err != nil {
			return nil, fmt.Errorf("%w: decode action %d: %v", ErrStorage, row.ID, err)
		}
		out = append(out, PendingAction{
			ID:        row.ID,
			Type:      row.Type,
			GameID:    row.GameID,
			UserID:    row.UserID,
			Indices:   indices,
			Timestamp: row.Timestamp,
		})
	}
	return out, nil
}

func (g *Gorm) Remove(ctx context.Context, id int64) error {
	if err := g.db.WithContext(ctx).Delete(&actionRow{}, id).Error; err != nil {
		return fmt.Errorf("%w: remove action %d: %v", ErrStorage, id, err)
	}
	return nil
}

func decodeSnapshot(doc []byte) (*game.Session, error) {
	var s game.Session
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %v", ErrStorage, err)
	}
	// A snapshot that fails validation is rejected here, not trusted
	// downstream.
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid snapshot: %v", ErrStorage, err)
	}
	return &s, nil
}
