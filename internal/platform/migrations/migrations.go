package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters never automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&bookRecord{},
		&accountRecord{},
		&orderRecord{},
		&orderIdempotencyRecord{},
		&sessionRecord{},
	)
}

// Book schema mirrors the catalog Postgres adapter.
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

// Account schema mirrors the accounts Postgres adapter. The unique index names
// are how the adapter tells username conflicts from email conflicts.
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

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID               int64     `gorm:"primaryKey;column:id"`
	CustomerID       int64     `gorm:"column:customer_id;not null;index"`
	CustomerUsername string    `gorm:"column:customer_username"`
	Status           string    `gorm:"column:status;type:varchar(32);not null;index"`
	CreatedAt        time.Time `gorm:"column:created_at;index"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Order idempotency keys are unique per account.
type orderIdempotencyRecord struct {
	AccountID   int64     `gorm:"primaryKey;column:account_id"`
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128;not null"`
	OrderID     int64     `gorm:"column:order_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (orderIdempotencyRecord) TableName() string { return "order_idempotency_keys" }

// Session schema mirrors the accounts session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:64"`
	AccountID int64      `gorm:"column:account_id;not null;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

func (sessionRecord) TableName() string { return "account_sessions" }
