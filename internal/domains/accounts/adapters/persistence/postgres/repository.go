package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/ports"
)

var _ ports.Repository = (*Repository)(nil)

const uniqueViolationCode = "23505"

// constraintFields maps unique index names to the field they protect.
var constraintFields = map[string]string{
	"uq_accounts_username": ports.FieldUsername,
	"uq_accounts_email":    ports.FieldEmail,
}

// Repository persists accounts in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed account repository. Schema is owned by the migrations package.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type accountRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Username     string    `gorm:"column:username;size:150;not null;uniqueIndex:uq_accounts_username"`
	Email        string    `gorm:"column:email;size:254;not null;uniqueIndex:uq_accounts_email"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Staff        bool      `gorm:"column:is_staff;not null;default:false"`
	DateJoined   time.Time `gorm:"column:date_joined;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (accountRecord) TableName() string { return "accounts" }

// Create inserts an account. Unique index collisions surface as *ports.UniqueViolation.
func (r *Repository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.New("account is nil")
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	record := accountRecord{
		Username:     account.Username,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		Staff:        account.Staff,
		DateJoined:   time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translateError(err)
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *Repository) SetStaff(ctx context.Context, id int64, staff bool) (*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []accountRecord
	result := r.db.WithContext(ctx).
		Model(&records).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_staff": staff, "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || len(records) == 0 {
		return nil, ports.ErrNotFound
	}
	return records[0].toDomain(), nil
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record accountRecord
	if err := r.db.WithContext(ctx).Where(query, arg).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// translateError turns a Postgres unique violation into a typed error naming
// the offending field, taken from the constraint name.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return err
	}
	return &ports.UniqueViolation{Field: constraintFields[pgErr.ConstraintName], Err: err}
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres account repository not configured")
	}
	return nil
}

func (r accountRecord) toDomain() *domain.Account {
	return &domain.Account{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Staff:        r.Staff,
		DateJoined:   r.DateJoined,
	}
}
