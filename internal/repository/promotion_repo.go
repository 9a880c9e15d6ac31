package repository

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq"

	"github.com/R0llcre/promotions/internal/metrics"
	"github.com/R0llcre/promotions/internal/models"
)

// PromotionRepository is the Postgres store for promotions. Every
// mutation runs inside its own transaction: on failure the in-flight
// change is rolled back and a *models.DatabaseError is returned.
type PromotionRepository struct {
	db *sql.DB
}

func NewPromotionRepository(db *sql.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

const promotionColumns = "id, name, promotion_type, value, product_id, start_date, end_date"

// Insert persists a new promotion. The id is always allocated by the
// database; any id already set on p is ignored and overwritten.
func (r *PromotionRepository) Insert(ctx context.Context, p *models.Promotion) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.NewDatabaseError("insert", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO promotions (name, promotion_type, value, product_id, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.Name, p.PromotionType, p.Value, p.ProductID, p.StartDate, p.EndDate).Scan(&p.ID)
	if err != nil {
		return models.NewDatabaseError("insert", err)
	}

	if err := tx.Commit(); err != nil {
		return models.NewDatabaseError("insert", err)
	}
	metrics.DatabaseOperations.WithLabelValues("create").Inc()
	return nil
}

// Get returns the promotion with the given id, or models.ErrNotFound.
func (r *PromotionRepository) Get(ctx context.Context, id int) (*models.Promotion, error) {
	var p models.Promotion
	err := r.db.QueryRowContext(ctx,
		"SELECT "+promotionColumns+" FROM promotions WHERE id = $1", id).
		Scan(&p.ID, &p.Name, &p.PromotionType, &p.Value, &p.ProductID, &p.StartDate, &p.EndDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, models.NewDatabaseError("get", err)
	}
	metrics.DatabaseOperations.WithLabelValues("read").Inc()
	return &p, nil
}

// All returns every promotion ordered by id.
func (r *PromotionRepository) All(ctx context.Context) ([]*models.Promotion, error) {
	return r.list(ctx, "SELECT "+promotionColumns+" FROM promotions ORDER BY id")
}

func (r *PromotionRepository) FindByName(ctx context.Context, name string) ([]*models.Promotion, error) {
	return r.list(ctx, "SELECT "+promotionColumns+" FROM promotions WHERE name = $1 ORDER BY id", name)
}

func (r *PromotionRepository) FindByProductID(ctx context.Context, productID int) ([]*models.Promotion, error) {
	return r.list(ctx, "SELECT "+promotionColumns+" FROM promotions WHERE product_id = $1 ORDER BY id", productID)
}

func (r *PromotionRepository) FindByType(ctx context.Context, promotionType string) ([]*models.Promotion, error) {
	return r.list(ctx, "SELECT "+promotionColumns+" FROM promotions WHERE promotion_type = $1 ORDER BY id", promotionType)
}

// FindActive returns promotions whose window contains today, inclusive
// on both ends.
func (r *PromotionRepository) FindActive(ctx context.Context, today models.Date) ([]*models.Promotion, error) {
	return r.list(ctx,
		"SELECT "+promotionColumns+" FROM promotions WHERE start_date <= $1 AND end_date >= $1 ORDER BY id", today)
}

// FindInactive returns promotions not active today: the window has not
// started yet or has already ended.
func (r *PromotionRepository) FindInactive(ctx context.Context, today models.Date) ([]*models.Promotion, error) {
	return r.list(ctx,
		"SELECT "+promotionColumns+" FROM promotions WHERE start_date > $1 OR end_date < $1 ORDER BY id", today)
}

func (r *PromotionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Promotion, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, models.NewDatabaseError("list", err)
	}
	defer rows.Close()

	promotions := []*models.Promotion{}
	for rows.Next() {
		var p models.Promotion
		if err := rows.Scan(&p.ID, &p.Name, &p.PromotionType, &p.Value, &p.ProductID, &p.StartDate, &p.EndDate); err != nil {
			return nil, models.NewDatabaseError("list", err)
		}
		promotions = append(promotions, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewDatabaseError("list", err)
	}
	metrics.DatabaseOperations.WithLabelValues("read").Inc()
	return promotions, nil
}

// Replace overwrites all six fields of an existing promotion. A missing
// id is models.ErrNotFound.
func (r *PromotionRepository) Replace(ctx context.Context, p *models.Promotion) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.NewDatabaseError("update", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE promotions
		 SET name = $1, promotion_type = $2, value = $3, product_id = $4,
		     start_date = $5, end_date = $6, last_updated = now()
		 WHERE id = $7`,
		p.Name, p.PromotionType, p.Value, p.ProductID, p.StartDate, p.EndDate, p.ID)
	if err != nil {
		return models.NewDatabaseError("update", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return models.NewDatabaseError("update", err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return models.NewDatabaseError("update", err)
	}
	metrics.DatabaseOperations.WithLabelValues("update").Inc()
	return nil
}

// Delete removes a promotion by id. A missing id is models.ErrNotFound.
func (r *PromotionRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.NewDatabaseError("delete", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM promotions WHERE id = $1", id)
	if err != nil {
		return models.NewDatabaseError("delete", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return models.NewDatabaseError("delete", err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return models.NewDatabaseError("delete", err)
	}
	metrics.DatabaseOperations.WithLabelValues("delete").Inc()
	return nil
}

// Clear removes every promotion. If the bulk delete leaves residual rows
// the table is truncated outright, so the table always ends empty.
func (r *PromotionRepository) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.NewDatabaseError("clear", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM promotions"); err != nil {
		return models.NewDatabaseError("clear", err)
	}

	var remaining int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM promotions").Scan(&remaining); err != nil {
		return models.NewDatabaseError("clear", err)
	}
	if remaining > 0 {
		if _, err := tx.ExecContext(ctx, "TRUNCATE TABLE promotions RESTART IDENTITY"); err != nil {
			return models.NewDatabaseError("clear", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.NewDatabaseError("clear", err)
	}
	metrics.DatabaseOperations.WithLabelValues("clear").Inc()
	return nil
}
