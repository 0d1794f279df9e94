package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SummaryRecord is one precompiled symbol resolution: the resolved metadata
// tree for (file_path, name), stored as the resolver's JSON wire form.
type SummaryRecord struct {
	ProjectID uuid.UUID `json:"project_id"`
	FilePath  string    `json:"file_path"`
	Name      string    `json:"name"`
	Metadata  []byte    `json:"metadata"`
}

// UpsertSummaries writes a batch of summary records, replacing existing
// entries for the same (project, file, name).
func (q *Queries) UpsertSummaries(ctx context.Context, records []SummaryRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(
			`INSERT INTO summaries (project_id, file_path, name, metadata, updated_at)
			 VALUES ($1, $2, $3, $4, now())
			 ON CONFLICT (project_id, file_path, name)
			 DO UPDATE SET metadata = EXCLUDED.metadata, updated_at = now()`,
			rec.ProjectID, rec.FilePath, rec.Name, rec.Metadata)
	}

	results := q.db.SendBatch(ctx, batch)
	defer results.Close()
	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert summary: %w", err)
		}
	}
	return nil
}

// ListSummariesByProject returns every summary record of a project.
func (q *Queries) ListSummariesByProject(ctx context.Context, projectID uuid.UUID) ([]SummaryRecord, error) {
	rows, err := q.db.Query(ctx,
		`SELECT project_id, file_path, name, metadata
		 FROM summaries WHERE project_id = $1
		 ORDER BY file_path, name`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SummaryRecord
	for rows.Next() {
		var rec SummaryRecord
		if err := rows.Scan(&rec.ProjectID, &rec.FilePath, &rec.Name, &rec.Metadata); err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}

// DeleteSummariesByProject removes all summaries of a project, used before
// a full re-resolve.
func (q *Queries) DeleteSummariesByProject(ctx context.Context, projectID uuid.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM summaries WHERE project_id = $1`, projectID)
	return err
}
