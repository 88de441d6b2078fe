package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

const (
	numericOutOfRangeCode = "22003"
	checkViolationCode    = "23514"
	quantityCheck         = "chk_books_quantity"
)

// Repository persists books in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Schema is owned by the migrations package.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// bookRecord maps the book aggregate to a relational table.
type bookRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Title       string          `gorm:"column:title;not null"`
	Author      string          `gorm:"column:author"`
	ISBN        string          `gorm:"column:isbn;size:32;index"`
	Description string          `gorm:"column:description"`
	Tags        pq.StringArray  `gorm:"column:tags;type:text[]"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	Quantity    int64           `gorm:"column:quantity;not null;default:0;check:chk_books_quantity,quantity >= 0"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (bookRecord) TableName() string { return "books" }

// Save inserts a new book (ID zero) or updates an existing one.
func (r *Repository) Save(ctx context.Context, book *domain.Book) (*projection.Projection[*domain.Book], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if book == nil {
		return nil, errors.New("book is nil")
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(book)
	if record.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
		return record.toProjection(), nil
	}
	result := r.db.WithContext(ctx).
		Model(&bookRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"title":       record.Title,
			"author":      record.Author,
			"isbn":        record.ISBN,
			"description": record.Description,
			"tags":        record.Tags,
			"price":       record.Price,
			"quantity":    record.Quantity,
			"updated_at":  gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a book by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Book], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record bookRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// Delete removes a book by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&bookRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns every book ordered by id.
func (r *Repository) List(ctx context.Context) ([]*projection.Projection[*domain.Book], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []bookRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Book], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

// IncrementQuantity performs quantity = quantity + amount in a single statement
// and returns the updated row, so concurrent restocks never lose updates.
func (r *Repository) IncrementQuantity(ctx context.Context, id int64, amount int64) (*projection.Projection[*domain.Book], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, domain.ErrInvalidRestock
	}
	var records []bookRecord
	result := r.db.WithContext(ctx).
		Model(&records).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", amount),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, translateIncrementError(result.Error)
	}
	if result.RowsAffected == 0 || len(records) == 0 {
		return nil, ports.ErrNotFound
	}
	return records[0].toProjection(), nil
}

// translateIncrementError reports a bigint overflow or a failed quantity
// check as an invalid restock.
func translateIncrementError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code == numericOutOfRangeCode ||
		(pgErr.Code == checkViolationCode && pgErr.ConstraintName == quantityCheck) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRestock, err)
	}
	return err
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres book repository not configured")
	}
	return nil
}

func toRecord(book *domain.Book) bookRecord {
	return bookRecord{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		ISBN:        book.ISBN,
		Description: book.Description,
		Tags:        pq.StringArray(append([]string{}, book.Tags...)),
		Price:       book.Price,
		Quantity:    book.Quantity,
	}
}

func (r bookRecord) toProjection() *projection.Projection[*domain.Book] {
	book := &domain.Book{
		ID:          r.ID,
		Title:       r.Title,
		Author:      r.Author,
		ISBN:        r.ISBN,
		Description: r.Description,
		Tags:        append([]string(nil), r.Tags...),
		Price:       r.Price,
		Quantity:    r.Quantity,
	}
	return projection.New(book, r.CreatedAt, r.UpdatedAt)
}
