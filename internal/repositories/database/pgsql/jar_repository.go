package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/apperrors"
	"github.com/sixjars/six_jars_app/internal/core/domain"
	portsrepo "github.com/sixjars/six_jars_app/internal/core/ports/repositories"
	"github.com/sixjars/six_jars_app/internal/models"
)

type PgxJarRepository struct {
	BaseRepository
}

// newPgxJarRepository creates a new repository for jar data.
func newPgxJarRepository(pool *pgxpool.Pool) portsrepo.JarRepositoryFacade {
	return &PgxJarRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.JarRepositoryFacade = (*PgxJarRepository)(nil)

func toModelJar(d domain.Jar) models.Jar {
	return models.Jar{
		JarID:         d.JarID,
		UserID:        d.UserID,
		Name:          d.Name,
		Description:   d.Description,
		Percentage:    d.Percentage,
		TargetAmount:  d.TargetAmount,
		CurrentAmount: d.CurrentAmount,
		Color:         d.Color,
		Icon:          d.Icon,
		Priority:      string(d.Priority),
		Category:      d.Category,
		IsActive:      d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainJar(m models.Jar) domain.Jar {
	return domain.Jar{
		JarID:         m.JarID,
		UserID:        m.UserID,
		Name:          m.Name,
		Description:   m.Description,
		Percentage:    m.Percentage,
		TargetAmount:  m.TargetAmount,
		CurrentAmount: m.CurrentAmount,
		Color:         m.Color,
		Icon:          m.Icon,
		Priority:      domain.JarPriority(m.Priority),
		Category:      m.Category,
		IsActive:      m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const jarColumns = `jar_id, user_id, name, description, percentage, target_amount, current_amount, color, icon, priority, category, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanJar(row pgx.Row) (*models.Jar, error) {
	var m models.Jar
	err := row.Scan(
		&m.JarID,
		&m.UserID,
		&m.Name,
		&m.Description,
		&m.Percentage,
		&m.TargetAmount,
		&m.CurrentAmount,
		&m.Color,
		&m.Icon,
		&m.Priority,
		&m.Category,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// lockUserJars serializes jar writers for one user within the current
// transaction. The lock is released automatically at commit/rollback.
func lockUserJars(ctx context.Context, tx pgx.Tx, userID string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, userID); err != nil {
		return fmt.Errorf("failed to acquire jar lock for user %s: %w", userID, err)
	}
	return nil
}

func sumActivePercentagesTx(ctx context.Context, tx pgx.Tx, userID string, excludeJarID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(percentage), 0)
		FROM jars
		WHERE user_id = $1 AND is_active = TRUE AND ($2 = '' OR jar_id <> $2);
	`
	var total decimal.Decimal
	if err := tx.QueryRow(ctx, query, userID, excludeJarID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum jar percentages for user %s: %w", userID, err)
	}
	return total, nil
}

func insertJarTx(ctx context.Context, tx pgx.Tx, m models.Jar) error {
	query := `
		INSERT INTO jars (` + jarColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := tx.Exec(ctx, query,
		m.JarID,
		m.UserID,
		m.Name,
		m.Description,
		m.Percentage,
		m.TargetAmount,
		m.CurrentAmount,
		m.Color,
		m.Icon,
		m.Priority,
		m.Category,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: jar with ID %s already exists", apperrors.ErrDuplicate, m.JarID)
		}
		return fmt.Errorf("failed to insert jar %s: %w", m.JarID, err)
	}
	return nil
}

// SaveJar persists a new jar. The percentage budget is re-validated under a
// per-user advisory lock so concurrent creates cannot jointly exceed 100%.
func (r *PgxJarRepository) SaveJar(ctx context.Context, jar domain.Jar) error {
	return r.SaveJars(ctx, []domain.Jar{jar})
}

// SaveJars persists a batch of jars all-or-nothing. All jars must belong to
// the same user; the whole batch's percentage sum is validated once under
// the user's advisory lock.
func (r *PgxJarRepository) SaveJars(ctx context.Context, jars []domain.Jar) error {
	if len(jars) == 0 {
		return nil
	}
	userID := jars[0].UserID
	for _, jar := range jars[1:] {
		if jar.UserID != userID {
			return fmt.Errorf("%w: batch spans multiple users", apperrors.ErrValidation)
		}
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	if err := lockUserJars(ctx, tx, userID); err != nil {
		return err
	}

	existingTotal, err := sumActivePercentagesTx(ctx, tx, userID, "")
	if err != nil {
		return err
	}
	batchTotal := decimal.Zero
	for _, jar := range jars {
		if jar.IsActive {
			batchTotal = batchTotal.Add(jar.Percentage)
		}
	}
	if existingTotal.Add(batchTotal).GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: active jars would total %s%%", apperrors.ErrBudgetExceeded, existingTotal.Add(batchTotal).String())
	}

	for _, jar := range jars {
		if err := insertJarTx(ctx, tx, toModelJar(jar)); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// UpdateJar updates an existing jar, re-validating the percentage budget
// under the user's advisory lock with the jar itself excluded.
func (r *PgxJarRepository) UpdateJar(ctx context.Context, jar domain.Jar) error {
	m := toModelJar(jar)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	if err := lockUserJars(ctx, tx, m.UserID); err != nil {
		return err
	}

	if m.IsActive {
		existingTotal, err := sumActivePercentagesTx(ctx, tx, m.UserID, m.JarID)
		if err != nil {
			return err
		}
		if existingTotal.Add(m.Percentage).GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: active jars would total %s%%", apperrors.ErrBudgetExceeded, existingTotal.Add(m.Percentage).String())
		}
	}

	query := `
		UPDATE jars
		SET name = $2, description = $3, percentage = $4, target_amount = $5,
		    color = $6, icon = $7, priority = $8, category = $9, is_active = $10,
		    last_updated_at = $11, last_updated_by = $12
		WHERE jar_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.JarID,
		m.Name,
		m.Description,
		m.Percentage,
		m.TargetAmount,
		m.Color,
		m.Icon,
		m.Priority,
		m.Category,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update jar %s: %w", m.JarID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// DeactivateJar flags a jar inactive, freeing its percentage budget.
func (r *PgxJarRepository) DeactivateJar(ctx context.Context, jarID string, updatedAt time.Time, updatedBy string) error {
	query := `
		UPDATE jars
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE jar_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, jarID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to deactivate jar %s: %w", jarID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteJar removes a jar. A foreign key violation from referencing
// transactions or report snapshots maps to ErrConflict.
func (r *PgxJarRepository) DeleteJar(ctx context.Context, jarID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM jars WHERE jar_id = $1;`, jarID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // Foreign key violation
			return fmt.Errorf("%w: jar %s is still referenced", apperrors.ErrConflict, jarID)
		}
		return fmt.Errorf("failed to delete jar %s: %w", jarID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindJarByID retrieves a specific jar by its ID.
func (r *PgxJarRepository) FindJarByID(ctx context.Context, jarID string) (*domain.Jar, error) {
	query := `SELECT ` + jarColumns + ` FROM jars WHERE jar_id = $1;`

	m, err := scanJar(r.Pool.QueryRow(ctx, query, jarID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find jar by ID %s: %w", jarID, err)
	}

	j := toDomainJar(*m)
	return &j, nil
}

// ListJarsByUser retrieves all jars belonging to a user, optionally
// including deactivated ones. Ordered by creation time for stable listings.
func (r *PgxJarRepository) ListJarsByUser(ctx context.Context, userID string, includeInactive bool) ([]domain.Jar, error) {
	query := `
		SELECT ` + jarColumns + `
		FROM jars
		WHERE user_id = $1 AND (is_active = TRUE OR $2)
		ORDER BY created_at ASC, jar_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, userID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list jars for user %s: %w", userID, err)
	}
	defer rows.Close()

	var jars []domain.Jar
	for rows.Next() {
		m, err := scanJar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan jar row: %w", err)
		}
		jars = append(jars, toDomainJar(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jar rows: %w", err)
	}
	return jars, nil
}

// SumActivePercentages totals the percentage of the user's active jars,
// excluding excludeJarID when non-empty.
func (r *PgxJarRepository) SumActivePercentages(ctx context.Context, userID string, excludeJarID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(percentage), 0)
		FROM jars
		WHERE user_id = $1 AND is_active = TRUE AND ($2 = '' OR jar_id <> $2);
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, userID, excludeJarID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum jar percentages for user %s: %w", userID, err)
	}
	return total, nil
}
