package repository

import (
	"context"
	"errors"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/berthonipasso/portfolio-api/internal/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO projects (id, title, description, tags, github_url, demo_url, powerbi_url, thumbnail_url, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Title, p.Description, nullableString(p.Tags),
		nullableString(p.GitHubURL), nullableString(p.DemoURL),
		nullableString(p.PowerBIURL), nullableString(p.ThumbnailURL),
		p.PublishedAt,
	)
	if err != nil {
		return storageErr("failed to create project", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, title, description, tags, github_url, demo_url, powerbi_url, thumbnail_url, published_at
		 FROM projects WHERE id = $1`,
		id,
	)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, storageErr("failed to load project", err)
	}
	return p, nil
}

// List returns projects ordered by published_at DESC then id, newest first.
// A nil cursor means the first page.
func (r *ProjectRepository) List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]*domain.Project, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error
	if cursor == nil {
		rows, err = r.pool.Query(ctx,
			`SELECT id, title, description, tags, github_url, demo_url, powerbi_url, thumbnail_url, published_at
			 FROM projects ORDER BY published_at DESC, id LIMIT $1`,
			limit,
		)
	} else {
		rows, err = r.pool.Query(ctx,
			`SELECT id, title, description, tags, github_url, demo_url, powerbi_url, thumbnail_url, published_at
			 FROM projects
			 WHERE published_at < $1 OR (published_at = $1 AND id > $2)
			 ORDER BY published_at DESC, id LIMIT $3`,
			cursor.Timestamp, cursor.LastID, limit,
		)
	}
	if err != nil {
		return nil, storageErr("failed to list projects", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, storageErr("failed to scan project", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("failed to read projects", err)
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE projects
		 SET title = $1, description = $2, tags = $3, github_url = $4, demo_url = $5, powerbi_url = $6, thumbnail_url = $7
		 WHERE id = $8`,
		p.Title, p.Description, nullableString(p.Tags),
		nullableString(p.GitHubURL), nullableString(p.DemoURL),
		nullableString(p.PowerBIURL), nullableString(p.ThumbnailURL),
		p.ID,
	)
	if err != nil {
		return storageErr("failed to update project", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.pool.Exec(ctx,
		`DELETE FROM projects WHERE id = $1`,
		id,
	)
	if err != nil {
		return storageErr("failed to delete project", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) AddImage(ctx context.Context, img *domain.ProjectImage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO project_images (id, project_id, url, caption) VALUES ($1, $2, $3, $4)`,
		img.ID, img.ProjectID, img.URL, nullableString(img.Caption),
	)
	if err != nil {
		return storageErr("failed to add project image", err)
	}
	return nil
}

func (r *ProjectRepository) ListImages(ctx context.Context, projectID string) ([]*domain.ProjectImage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, project_id, url, caption FROM project_images WHERE project_id = $1 ORDER BY id`,
		projectID,
	)
	if err != nil {
		return nil, storageErr("failed to list project images", err)
	}
	defer rows.Close()

	var images []*domain.ProjectImage
	for rows.Next() {
		var img domain.ProjectImage
		var caption *string
		if err := rows.Scan(&img.ID, &img.ProjectID, &img.URL, &caption); err != nil {
			return nil, storageErr("failed to scan project image", err)
		}
		if caption != nil {
			img.Caption = *caption
		}
		images = append(images, &img)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("failed to read project images", err)
	}
	return images, nil
}

func (r *ProjectRepository) DeleteImage(ctx context.Context, id string) error {
	cmdTag, err := r.pool.Exec(ctx,
		`DELETE FROM project_images WHERE id = $1`,
		id,
	)
	if err != nil {
		return storageErr("failed to delete project image", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.NewDomainError(domain.ErrCodeNotFound, "project image not found")
	}
	return nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	var tags, github, demo, powerbi, thumbnail *string
	err := row.Scan(&p.ID, &p.Title, &p.Description, &tags, &github, &demo, &powerbi, &thumbnail, &p.PublishedAt)
	if err != nil {
		return nil, err
	}
	if tags != nil {
		p.Tags = *tags
	}
	if github != nil {
		p.GitHubURL = *github
	}
	if demo != nil {
		p.DemoURL = *demo
	}
	if powerbi != nil {
		p.PowerBIURL = *powerbi
	}
	if thumbnail != nil {
		p.ThumbnailURL = *thumbnail
	}
	return &p, nil
}
