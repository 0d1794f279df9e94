package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"

	"github.com/davidenochk/symgraph/internal/store"
	"github.com/davidenochk/symgraph/internal/store/postgres"
	"github.com/davidenochk/symgraph/internal/symbols"
)

const (
	cacheKeyPrefix = "symgraph:summaries:"
	cacheTTL       = 10 * time.Minute
)

// Loader fetches a project's summary rows from Postgres, fronted by Valkey.
// The Valkey client is optional; with a nil client every load hits the store.
type Loader struct {
	store  *store.Store
	client valkey.Client
	logger *slog.Logger
}

func NewLoader(s *store.Store, client valkey.Client, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{store: s, client: client, logger: logger}
}

// Load returns the project's summaries as a Set interned through cache.
func (l *Loader) Load(ctx context.Context, projectID uuid.UUID, cache *symbols.Cache) (*Set, error) {
	if records, ok := l.fromCache(ctx, projectID); ok {
		return FromRecords(cache, records)
	}

	records, err := l.store.ListSummariesByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list summaries for project %s: %w", projectID, err)
	}

	l.toCache(ctx, projectID, records)
	return FromRecords(cache, records)
}

// Invalidate drops the cached rows for a project. Called after re-ingestion.
func (l *Loader) Invalidate(ctx context.Context, projectID uuid.UUID) {
	if l.client == nil {
		return
	}
	key := cacheKeyPrefix + projectID.String()
	resp := l.client.Do(ctx, l.client.B().Del().Key(key).Build())
	if err := resp.Error(); err != nil {
		l.logger.Warn("invalidate summary cache", "project_id", projectID, "error", err)
	}
}

func (l *Loader) fromCache(ctx context.Context, projectID uuid.UUID) ([]postgres.SummaryRecord, bool) {
	if l.client == nil {
		return nil, false
	}
	key := cacheKeyPrefix + projectID.String()
	resp := l.client.Do(ctx, l.client.B().Get().Key(key).Build())
	data, err := resp.AsBytes()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			l.logger.Warn("read summary cache", "project_id", projectID, "error", err)
		}
		return nil, false
	}
	var records []postgres.SummaryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		l.logger.Warn("decode summary cache", "project_id", projectID, "error", err)
		return nil, false
	}
	return records, true
}

func (l *Loader) toCache(ctx context.Context, projectID uuid.UUID, records []postgres.SummaryRecord) {
	if l.client == nil {
		return
	}
	data, err := json.Marshal(records)
	if err != nil {
		l.logger.Warn("encode summary cache", "project_id", projectID, "error", err)
		return
	}
	key := cacheKeyPrefix + projectID.String()
	resp := l.client.Do(ctx, l.client.B().Set().Key(key).Value(string(data)).Ex(cacheTTL).Build())
	if err := resp.Error(); err != nil {
		l.logger.Warn("write summary cache", "project_id", projectID, "error", err)
	}
}
