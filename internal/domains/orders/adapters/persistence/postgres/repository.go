package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed order repository. Schema is owned by the migrations package.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID               int64     `gorm:"primaryKey;column:id"`
	CustomerID       int64     `gorm:"column:customer_id;not null;index"`
	CustomerUsername string    `gorm:"column:customer_username"`
	Status           string    `gorm:"column:status;type:varchar(32);not null;index"`
	CreatedAt        time.Time `gorm:"column:created_at;index"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := orderRecord{
		CustomerID:       order.CustomerID,
		CustomerUsername: order.CustomerUsername,
		Status:           string(order.Status),
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Find applies the ownership predicate first, then status, search and ordering.
func (r *Repository) Find(ctx context.Context, filter ports.Filter) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&orderRecord{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	for _, term := range filter.SearchTerms {
		query = query.Where("strpos(lower(status), lower(?)) > 0", term)
	}
	for _, s := range filter.Sort {
		switch s.Field {
		case ports.SortByCreatedAt, ports.SortByStatus:
			query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: string(s.Field)}, Desc: s.Descending})
		}
	}
	query = query.Order("id")

	var records []orderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.Order, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	normalized, err := domain.NormalizeStatus(status)
	if err != nil {
		return nil, err
	}
	var records []orderRecord
	result := r.db.WithContext(ctx).
		Model(&records).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(normalized),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || len(records) == 0 {
		return nil, ports.ErrNotFound
	}
	return records[0].toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:               r.ID,
		CustomerID:       r.CustomerID,
		CustomerUsername: r.CustomerUsername,
		Status:           domain.Status(r.Status),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
