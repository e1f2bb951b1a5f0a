package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kmohsen11/Argos/internal/entity"
	"github.com/kmohsen11/Argos/internal/repository"
)

const preorderColumns = "id, email, first_name, last_name, product_type, size, device_type, status, created_at"

type preorderRepository struct {
	db *sql.DB
}

// NewPreorderRepository creates a new PreorderRepository backed by Postgres.
func NewPreorderRepository(db *sql.DB) repository.PreorderRepository {
	return &preorderRepository{db: db}
}

func (r *preorderRepository) Create(ctx context.Context, req entity.PreorderRequest) (*entity.PreorderRecord, error) {
	rec := &entity.PreorderRecord{
		ID:          uuid.NewString(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		ProductType: req.ProductType,
		Size:        req.Size,
		DeviceType:  req.DeviceType,
		Status:      entity.StatusPending,
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO preorders (id, email, first_name, last_name, product_type, size, device_type, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		rec.ID, rec.Email, rec.FirstName, rec.LastName,
		string(rec.ProductType), string(rec.Size), string(rec.DeviceType), string(rec.Status),
	).Scan(&rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert preorder: %w", err)
	}
	return rec, nil
}

func (r *preorderRepository) FindByID(ctx context.Context, id string) (*entity.PreorderRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+preorderColumns+" FROM preorders WHERE id = $1", id)

	rec, err := scanPreorder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preorder %s: %w", id, err)
	}
	return rec, nil
}

func (r *preorderRepository) FindRecent(ctx context.Context, limit int) ([]entity.PreorderRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+preorderColumns+" FROM preorders ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query preorders: %w", err)
	}
	defer rows.Close()

	var out []entity.PreorderRecord
	for rows.Next() {
		rec, err := scanPreorder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preorder: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preorder rows: %w", err)
	}
	return out, nil
}

func (r *preorderRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreorder(row rowScanner) (*entity.PreorderRecord, error) {
	var (
		rec                         entity.PreorderRecord
		product, size, device, stat string
	)
	if err := row.Scan(&rec.ID, &rec.Email, &rec.FirstName, &rec.LastName, &product, &size, &device, &stat, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.ProductType = entity.ProductType(product)
	rec.Size = entity.Size(size)
	rec.DeviceType = entity.DeviceType(device)
	rec.Status = entity.PreorderStatus(stat)
	return &rec, nil
}
