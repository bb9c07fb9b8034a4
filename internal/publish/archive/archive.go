// Package archive persists the event stream to a relational database so a
// finished match can be replayed or audited without the live feed.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pitchside/matchcast/internal/queue"
	"github.com/pitchside/matchcast/pkg/core"
)

// Row is one archived event. The full envelope is kept as a JSON column;
// the header fields are broken out for querying.
type Row struct {
	ID        uint           `gorm:"primarykey"`
	EventID   uint64         `gorm:"index"`
	MatchTime string         `gorm:"size:8"`
	Type      string         `gorm:"size:32;index"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time
}

// TableName keeps the table name stable across gorm naming strategies.
func (Row) TableName() string { return "match_events" }

// Archive buffers events and writes them in batches.
type Archive struct {
	db         *gorm.DB
	pending    *queue.Queue[Row]
	flushEvery int
	logger     zerolog.Logger

	// Serializes flushes; Publish itself only stages.
	mu sync.Mutex
}

// New creates an archive over an open gorm DB and migrates its table.
func New(db *gorm.DB, flushEvery int, log zerolog.Logger) (*Archive, error) {
	if flushEvery <= 0 {
		flushEvery = 50
	}
	if err := db.AutoMigrate(&Row{}); err != nil {
		return nil, fmt.Errorf("migrating match_events: %w", err)
	}
	return &Archive{
		db:         db,
		pending:    queue.New[Row](),
		flushEvery: flushEvery,
		logger:     log,
	}, nil
}

// Publish stages one event and flushes when the batch threshold is reached.
func (a *Archive) Publish(ctx context.Context, env *core.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", env.Type, err)
	}

	a.pending.Push(Row{
		EventID:   env.EventID,
		MatchTime: env.MatchTime,
		Type:      string(env.Type),
		Payload:   datatypes.JSON(data),
	})

	if a.pending.Len() >= a.flushEvery || env.Type == core.EventEndOfMatch {
		return a.Flush(ctx)
	}
	return nil
}

// Flush writes all staged rows in one batched insert. Rows are requeued
// on failure so a transient database outage loses nothing.
func (a *Archive) Flush(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	rows := a.pending.GetAndEmpty()
	if len(rows) == 0 {
		return nil
	}

	if err := a.db.WithContext(ctx).Create(&rows).Error; err != nil {
		a.pending.Push(rows...)
		return fmt.Errorf("archiving %d events: %w", len(rows), err)
	}

	a.logger.Debug().Int("count", len(rows)).Msg("Archived event batch")
	return nil
}

// Close flushes any staged rows.
func (a *Archive) Close() error {
	return a.Flush(context.Background())
}
