package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"shopbot/core/logger"
)

// SQL implements Store on top of Postgres via sqlx.
type SQL struct {
	db *sqlx.DB
}

// NewSQL wraps an already-connected pool.
func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := s.db.SelectContext(ctx, &out, `SELECT id, name FROM category ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	return out, nil
}

func (s *SQL) SeedCategories(ctx context.Context, names []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed categories: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT count(*) FROM category`); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		logger.SEED.Debug("categories already seeded",
			slog.String("event", "seed.categories"),
			slog.Int("rows", count),
		)
		return nil
	}
	for _, name := range names {
		if _, err := tx.ExecContext(ctx, `INSERT INTO category (name) VALUES ($1)`, name); err != nil {
			return fmt.Errorf("insert category %q: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed categories: %w", err)
	}
	logger.SEED.Info("categories seeded",
		slog.String("event", "seed.categories"),
		slog.Int("rows", len(names)),
	)
	return nil
}

func (s *SQL) Banners(ctx context.Context) ([]Banner, error) {
	var out []Banner
	if err := s.db.SelectContext(ctx, &out, `SELECT id, name, image, description FROM banner ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select banners: %w", err)
	}
	return out, nil
}

func (s *SQL) Banner(ctx context.Context, name string) (*Banner, error) {
	var b Banner
	err := s.db.GetContext(ctx, &b, `SELECT id, name, image, description FROM banner WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select banner %q: %w", name, err)
	}
	return &b, nil
}

func (s *SQL) SeedBanners(ctx context.Context, pages map[string]string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed banners: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT count(*) FROM banner`); err != nil {
		return fmt.Errorf("count banners: %w", err)
	}
	if count > 0 {
		logger.SEED.Debug("banners already seeded",
			slog.String("event", "seed.banners"),
			slog.Int("rows", count),
		)
		return nil
	}
	for name, description := range pages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO banner (name, description) VALUES ($1, $2)`, name, description,
		); err != nil {
			return fmt.Errorf("insert banner %q: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed banners: %w", err)
	}
	logger.SEED.Info("banners seeded",
		slog.String("event", "seed.banners"),
		slog.Int("rows", len(pages)),
	)
	return nil
}

func (s *SQL) SetBannerImage(ctx context.Context, name, image string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE banner SET image = $2 WHERE name = $1`, name, image)
	if err != nil {
		return fmt.Errorf("update banner %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	logger.SVCBanners.Info("banner image updated",
		slog.String("event", "banner.image"),
		slog.String("banner", name),
	)
	return nil
}

func (s *SQL) CreateProduct(ctx context.Context, f ProductFields) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO product (name, description, price, quantity, image, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		f.Name, f.Description, f.Price, f.Quantity, f.Image, f.CategoryID,
	); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	logger.SVCProducts.Info("product created",
		slog.String("event", "product.create"),
		slog.Int64("category_id", f.CategoryID),
	)
	return nil
}

func (s *SQL) ProductsByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	var out []Product
	if err := s.db.SelectContext(ctx, &out,
		`SELECT id, name, description, price, image, category_id, quantity
		 FROM product WHERE category_id = $1 ORDER BY id`, categoryID,
	); err != nil {
		return nil, fmt.Errorf("select products for category %d: %w", categoryID, err)
	}
	return out, nil
}

func (s *SQL) Product(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := s.db.GetContext(ctx, &p,
		`SELECT id, name, description, price, image, category_id, quantity
		 FROM product WHERE id = $1`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select product %d: %w", id, err)
	}
	return &p, nil
}

func (s *SQL) UpdateProduct(ctx context.Context, id int64, f ProductFields) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE product
		 SET name = $2, description = $3, price = $4, quantity = $5, image = $6, category_id = $7
		 WHERE id = $1`,
		id, f.Name, f.Description, f.Price, f.Quantity, f.Image, f.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	logger.SVCProducts.Info("product updated",
		slog.String("event", "product.update"),
		slog.Int64("product_id", id),
	)
	return nil
}

func (s *SQL) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM product WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	logger.SVCProducts.Info("product deleted",
		slog.String("event", "product.delete"),
		slog.Int64("product_id", id),
	)
	return nil
}

func (s *SQL) EnsureUser(ctx context.Context, userID int64, firstName, lastName string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO shop_user (user_id, first_name, last_name)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, firstName, lastName,
	); err != nil {
		return fmt.Errorf("ensure user %d: %w", userID, err)
	}
	return nil
}

// AddToCart holds row locks on both the product and the cart line so that
// concurrent additions cannot oversell: each reservation sees the stock left
// by the previous one.
func (s *SQL) AddToCart(ctx context.Context, userID, productID int64) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin add to cart: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var stock int64
	err = tx.GetContext(ctx, &stock, `SELECT quantity FROM product WHERE id = $1 FOR UPDATE`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lock product %d: %w", productID, err)
	}
	if stock <= 0 {
		logger.SVCCart.Debug("add refused, out of stock",
			slog.String("event", "cart.add"),
			slog.Int64("user", userID),
			slog.Int64("product_id", productID),
		)
		return false, nil
	}

	var lineID int64
	err = tx.GetContext(ctx, &lineID,
		`SELECT id FROM cart WHERE user_id = $1 AND product_id = $2 FOR UPDATE`, userID, productID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cart (user_id, product_id, quantity) VALUES ($1, $2, 1)`, userID, productID,
		); err != nil {
			return false, fmt.Errorf("insert cart line: %w", err)
		}
	case err != nil:
		return false, fmt.Errorf("lock cart line: %w", err)
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE cart SET quantity = quantity + 1 WHERE id = $1`, lineID,
		); err != nil {
			return false, fmt.Errorf("grow cart line: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE product SET quantity = quantity - 1 WHERE id = $1`, productID,
	); err != nil {
		return false, fmt.Errorf("reserve stock: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit add to cart: %w", err)
	}
	logger.SVCCart.Debug("unit reserved",
		slog.String("event", "cart.add"),
		slog.Int64("user", userID),
		slog.Int64("product_id", productID),
	)
	return true, nil
}

func (s *SQL) ReduceCart(ctx context.Context, userID, productID int64) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin reduce cart: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var line struct {
		ID       int64 `db:"id"`
		Quantity int64 `db:"quantity"`
	}
	err = tx.GetContext(ctx, &line,
		`SELECT id, quantity FROM cart WHERE user_id = $1 AND product_id = $2 FOR UPDATE`, userID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lock cart line: %w", err)
	}

	kept := line.Quantity > 1
	if kept {
		if _, err := tx.ExecContext(ctx,
			`UPDATE cart SET quantity = quantity - 1 WHERE id = $1`, line.ID,
		); err != nil {
			return false, fmt.Errorf("shrink cart line: %w", err)
		}
	} else {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cart WHERE id = $1`, line.ID); err != nil {
			return false, fmt.Errorf("delete cart line: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE product SET quantity = quantity + 1 WHERE id = $1`, productID,
	); err != nil {
		return false, fmt.Errorf("release stock: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit reduce cart: %w", err)
	}
	logger.SVCCart.Debug("unit released",
		slog.String("event", "cart.reduce"),
		slog.Int64("user", userID),
		slog.Int64("product_id", productID),
		slog.Bool("line_kept", kept),
	)
	return kept, nil
}

func (s *SQL) RemoveFromCart(ctx context.Context, userID, productID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin remove from cart: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var line struct {
		ID       int64 `db:"id"`
		Quantity int64 `db:"quantity"`
	}
	err = tx.GetContext(ctx, &line,
		`SELECT id, quantity FROM cart WHERE user_id = $1 AND product_id = $2 FOR UPDATE`, userID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lock cart line: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart WHERE id = $1`, line.ID); err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE product SET quantity = quantity + $2 WHERE id = $1`, productID, line.Quantity,
	); err != nil {
		return fmt.Errorf("release stock: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit remove from cart: %w", err)
	}
	logger.SVCCart.Debug("line removed",
		slog.String("event", "cart.remove"),
		slog.Int64("user", userID),
		slog.Int64("product_id", productID),
		slog.Int64("qty", line.Quantity),
	)
	return nil
}

func (s *SQL) UserCart(ctx context.Context, userID int64) ([]CartLine, error) {
	var out []CartLine
	if err := s.db.SelectContext(ctx, &out,
		`SELECT c.id, c.user_id, c.product_id, c.quantity,
		        p.id AS "product.id", p.name AS "product.name",
		        p.description AS "product.description", p.price AS "product.price",
		        p.image AS "product.image", p.category_id AS "product.category_id",
		        p.quantity AS "product.quantity"
		 FROM cart c
		 JOIN product p ON p.id = c.product_id
		 WHERE c.user_id = $1
		 ORDER BY c.id`, userID,
	); err != nil {
		return nil, fmt.Errorf("select cart for user %d: %w", userID, err)
	}
	return out, nil
}
