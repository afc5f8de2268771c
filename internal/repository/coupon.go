package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/okhld/orderdesk/internal/domain/coupon"
)

const (
	listCouponsSQL = `SELECT id, code, kind, amount, min_purchase, item_ids, description, active
		FROM coupons ORDER BY code`

	getCouponByIDSQL = `SELECT id, code, kind, amount, min_purchase, item_ids, description, active
		FROM coupons WHERE id = $1`

	getCouponByCodeSQL = `SELECT id, code, kind, amount, min_purchase, item_ids, description, active
		FROM coupons WHERE UPPER(code) = UPPER($1) AND active = TRUE`

	insertCouponSQL = `INSERT INTO coupons (id, code, kind, amount, min_purchase, item_ids, description, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateCouponSQL = `UPDATE coupons
		SET code = $2, kind = $3, amount = $4, min_purchase = $5, item_ids = $6, description = $7, active = $8
		WHERE id = $1`

	deleteCouponSQL = `DELETE FROM coupons WHERE id = $1`
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// List returns every coupon rule, active or not, ordered by code.
func (r *CouponRepository) List(ctx context.Context) ([]coupon.Rule, error) {
	rows, err := r.pool.Query(ctx, listCouponsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}
	return pgx.CollectRows(rows, scanCouponRule)
}

// GetByID returns a single coupon rule by its identifier.
func (r *CouponRepository) GetByID(ctx context.Context, id string) (*coupon.Rule, error) {
	rows, err := r.pool.Query(ctx, getCouponByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting coupon %q: %w", id, err)
	}

	rule, err := pgx.CollectExactlyOneRow(rows, scanCouponRule)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("getting coupon %q: %w", id, err)
	}
	return &rule, nil
}

// FindByCode looks up an active coupon by its code (case-insensitive).
// Returns coupon.ErrNotFound when no matching active coupon exists.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Rule, error) {
	rows, err := r.pool.Query(ctx, getCouponByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}

	rule, err := pgx.CollectExactlyOneRow(rows, scanCouponRule)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}
	return &rule, nil
}

// Create inserts a new coupon rule.
func (r *CouponRepository) Create(ctx context.Context, c *coupon.Rule) error {
	_, err := r.pool.Exec(ctx, insertCouponSQL,
		c.ID, c.Code, string(c.Kind), c.Amount, c.MinPurchase, c.ItemIDs, c.Description, c.Active,
	)
	if err != nil {
		return fmt.Errorf("creating coupon %q: %w", c.Code, err)
	}
	return nil
}

// Update replaces all mutable fields of a coupon rule.
func (r *CouponRepository) Update(ctx context.Context, c *coupon.Rule) error {
	tag, err := r.pool.Exec(ctx, updateCouponSQL,
		c.ID, c.Code, string(c.Kind), c.Amount, c.MinPurchase, c.ItemIDs, c.Description, c.Active,
	)
	if err != nil {
		return fmt.Errorf("updating coupon %q: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrNotFound
	}
	return nil
}

// Delete removes a coupon rule.
func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteCouponSQL, id)
	if err != nil {
		return fmt.Errorf("deleting coupon %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrNotFound
	}
	return nil
}

func scanCouponRule(row pgx.CollectableRow) (coupon.Rule, error) {
	var (
		rule        coupon.Rule
		kind        string
		amount      decimal.Decimal
		minPurchase decimal.Decimal
	)
	err := row.Scan(
		&rule.ID, &rule.Code, &kind, &amount, &minPurchase,
		&rule.ItemIDs, &rule.Description, &rule.Active,
	)
	rule.Kind = coupon.Kind(kind)
	rule.Amount = amount
	rule.MinPurchase = minPurchase
	return rule, err
}
