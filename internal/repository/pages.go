package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medscan/facesheet-extractor/internal/entity"
	"github.com/medscan/facesheet-extractor/internal/facesheet"
)

type PageRepository interface {
	Create(ctx context.Context, sourcePath string, tokenCount int, meanConf float64) (*entity.Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Page, error)
	List(ctx context.Context) ([]entity.Page, error)
	SaveFields(ctx context.Context, pageID uuid.UUID, fields []facesheet.Field) error
	ListFields(ctx context.Context, pageID uuid.UUID) ([]entity.PageField, error)
}

type pageRepo struct {
	db  *sql.DB
	log *slog.Logger
}

func NewPageRepository(db *sql.DB, log *slog.Logger) PageRepository {
	if log == nil {
		log = slog.Default()
	}
	return &pageRepo{db: db, log: log}
}

func (r *pageRepo) Create(ctx context.Context, sourcePath string, tokenCount int, meanConf float64) (*entity.Page, error) {
	p := &entity.Page{
		ID:         uuid.New(),
		SourcePath: sourcePath,
		MeanConf:   meanConf,
		TokenCount: tokenCount,
		IngestedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pages (id, source_path, mean_conf, token_count, ingested_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID.String(), p.SourcePath, p.MeanConf, p.TokenCount, p.IngestedAt,
	)
	if err != nil {
		r.log.Error("page create failed", "source_path", sourcePath, "err", err)
		return nil, err
	}
	r.log.Info("page created", "page_id", p.ID, "source_path", sourcePath, "tokens", tokenCount)
	return p, nil
}

func (r *pageRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Page, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, source_path, mean_conf, token_count, ingested_at FROM pages WHERE id = ?`,
		id.String(),
	)
	return scanPage(row)
}

func (r *pageRepo) List(ctx context.Context) ([]entity.Page, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source_path, mean_conf, token_count, ingested_at FROM pages ORDER BY ingested_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// SaveFields replaces the page's extracted fields, keeping configuration order.
func (r *pageRepo) SaveFields(ctx context.Context, pageID uuid.UUID, fields []facesheet.Field) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM page_fields WHERE page_id = ?`, pageID.String()); err != nil {
		return err
	}
	for i, f := range fields {
		var first, middle, last *string
		if f.Name != nil {
			first, middle, last = &f.Name.First, &f.Name.Middle, &f.Name.Last
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO page_fields (page_id, position, label, value, first_name, middle_name, last_name)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			pageID.String(), i, f.Label, f.Value, first, middle, last,
		)
		if err != nil {
			r.log.Error("field save failed", "page_id", pageID, "label", f.Label, "err", err)
			return err
		}
	}
	return tx.Commit()
}

func (r *pageRepo) ListFields(ctx context.Context, pageID uuid.UUID) ([]entity.PageField, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT page_id, position, label, value, first_name, middle_name, last_name
		 FROM page_fields WHERE page_id = ? ORDER BY position`,
		pageID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.PageField
	for rows.Next() {
		var f entity.PageField
		var id string
		if err := rows.Scan(&id, &f.Position, &f.Label, &f.Value, &f.First, &f.Middle, &f.Last); err != nil {
			return nil, err
		}
		if f.PageID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*entity.Page, error) {
	var p entity.Page
	var id string
	if err := row.Scan(&id, &p.SourcePath, &p.MeanConf, &p.TokenCount, &p.IngestedAt); err != nil {
		return nil, err
	}
	var err error
	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	return &p, nil
}
