package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainerrors "gatekeeper/contexts/access-control/gateway-service/domain/errors"
	"gatekeeper/contexts/access-control/gateway-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository is the PostgreSQL whitelist adapter. The table name is built
// from a deployment-specific prefix; row values always go through bound
// parameters so untrusted addresses and identity names can never alter
// query structure.
type Repository struct {
	db     *gorm.DB
	table  string
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, tablePrefix string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		table:  strings.TrimSpace(tablePrefix) + "address_grants",
		logger: logger,
	}
}

type grantModel struct {
	GrantID      string    `gorm:"column:grant_id;primaryKey"`
	IdentityName string    `gorm:"column:identity_name"`
	Address      string    `gorm:"column:address;uniqueIndex"`
	GrantedAt    time.Time `gorm:"column:granted_at"`
}

// EnsureSchema idempotently creates the grants table and its unique address
// index. Safe to call on every process start.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	err := r.db.WithContext(ctx).Table(r.table).AutoMigrate(&grantModel{})
	if err != nil {
		return fmt.Errorf("%w: ensure schema: %v", domainerrors.ErrStoreUnavailable, err)
	}
	r.logger.Info("whitelist schema ensured",
		"event", "gateway_schema_ensured",
		"module", "access-control/gateway-service",
		"layer", "adapter",
		"table", r.table,
	)
	return nil
}

func (r *Repository) Contains(ctx context.Context, address string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(r.table).
		Where("address = ?", address).
		Count(&count).
		Error
	if err != nil {
		return false, fmt.Errorf("%w: lookup address: %v", domainerrors.ErrStoreUnavailable, err)
	}
	return count > 0, nil
}

func (r *Repository) Insert(ctx context.Context, grant ports.GrantInput) error {
	row := grantModel{
		GrantID:      grant.GrantID,
		IdentityName: grant.IdentityName,
		Address:      grant.Address,
		GrantedAt:    grant.GrantedAt,
	}
	if err := r.db.WithContext(ctx).Table(r.table).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateGrant
		}
		return fmt.Errorf("%w: insert grant: %v", domainerrors.ErrStoreUnavailable, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
