package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Project is one indexed codebase whose metadata bundles this service
// resolves.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateProjectParams struct {
	Slug        string
	Name        string
	Description string
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO projects (id, slug, name, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 RETURNING id, slug, name, description, created_at, updated_at`,
		uuid.New(), arg.Slug, arg.Name, arg.Description)

	var p Project
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (q *Queries) GetProject(ctx context.Context, slug string) (Project, error) {
	row := q.db.QueryRow(ctx,
		`SELECT id, slug, name, description, created_at, updated_at
		 FROM projects WHERE slug = $1`,
		slug)

	var p Project
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (q *Queries) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, slug, name, description, created_at, updated_at
		 FROM projects ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
