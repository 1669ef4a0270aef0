package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableCustomers      = "general_customers"
	TableProducts       = "stock_products"
	TableOrders         = "stock_orders"
	TableOrdersProducts = "stock_orders_products"
	TableUsers          = "security_users"
	TableRefreshTokens  = "security_refresh_tokens"
)

const (
	EntityCustomers      = "Customers"
	EntityProducts       = "Products"
	EntityOrders         = "Orders"
	EntityOrdersProducts = "OrdersProducts"
	EntityUsers          = "Users"
	EntityRefreshTokens  = "RefreshTokens"
)

// Table describes one persisted entity: where it lives and whether reads
// must filter on the soft-delete column.
type Table struct {
	Entity     string
	Name       string
	SoftDelete bool
	Model      any
}

// Tables lists every entity in migration order.
var Tables = []Table{
	{Entity: EntityCustomers, Name: TableCustomers, SoftDelete: true, Model: &Customer{}},
	{Entity: EntityProducts, Name: TableProducts, SoftDelete: true, Model: &Product{}},
	{Entity: EntityOrders, Name: TableOrders, SoftDelete: true, Model: &Order{}},
	{Entity: EntityOrdersProducts, Name: TableOrdersProducts, SoftDelete: true, Model: &OrderProduct{}},
	{Entity: EntityUsers, Name: TableUsers, SoftDelete: true, Model: &User{}},
	{Entity: EntityRefreshTokens, Name: TableRefreshTokens, SoftDelete: false, Model: &RefreshToken{}},
}

func Migratable() []any {
	out := make([]any, 0, len(Tables))
	for _, t := range Tables {
		out = append(out, t.Model)
	}
	return out
}

type Customer struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name      string `gorm:"size:100;not null;index"   json:"name"`
	IsDeleted bool   `gorm:"not null;default:false"    json:"-"`
}

func (Customer) TableName() string { return TableCustomers }

type Product struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"          json:"id"`
	Name      string          `gorm:"size:100;not null;index"           json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(18,2);not null"       json:"unitPrice"`
	IsDeleted bool            `gorm:"not null;default:false"            json:"-"`
}

func (Product) TableName() string { return TableProducts }

type Order struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"  json:"id"`
	CreatedOn  time.Time `gorm:"not null"                  json:"createdOn"`
	CustomerID int64     `gorm:"not null;index"            json:"customerId"`
	IsDeleted  bool      `gorm:"not null;default:false"    json:"-"`
}

func (Order) TableName() string { return TableOrders }

// OrderView is an order joined with its customer name and line-item total.
type OrderView struct {
	ID           int64
	CreatedOn    time.Time
	CustomerID   int64
	CustomerName string
	Total        decimal.Decimal
}

type OrderProduct struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"      json:"id"`
	OrderID   int64           `gorm:"not null;index"                json:"orderId"`
	ProductID int64           `gorm:"not null;index"                json:"productId"`
	Qty       int             `gorm:"not null"                      json:"qty"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(18,2);not null"   json:"unitPrice"`
	IsDeleted bool            `gorm:"not null;default:false"        json:"-"`
}

func (OrderProduct) TableName() string { return TableOrdersProducts }

// OrderProductView is a line item joined with its product name.
type OrderProductView struct {
	ID          int64
	ProductID   int64
	ProductName string
	Qty         int
	UnitPrice   decimal.Decimal
}

func (v OrderProductView) Total() decimal.Decimal {
	return v.UnitPrice.Mul(decimal.NewFromInt(int64(v.Qty)))
}

type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"  json:"id"`
	Email     string `gorm:"size:100"                  json:"email"`
	Name      string `gorm:"size:100"                  json:"name"`
	Username  string `gorm:"size:50;not null;index"    json:"username"`
	Password  string `gorm:"size:100"                  json:"-"`
	IsDeleted bool   `gorm:"not null;default:false"    json:"-"`
}

func (User) TableName() string { return TableUsers }

type RefreshToken struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"  json:"id"`
	UserID     int64      `gorm:"not null;index"            json:"userId"`
	Token      string     `gorm:"size:50;not null;index"    json:"token"`
	CreatedOn  time.Time  `gorm:"not null"                  json:"createdOn"`
	Expiration time.Time  `gorm:"not null"                  json:"expiration"`
	RevokedOn  *time.Time `json:"revokedOn,omitempty"`
}

func (RefreshToken) TableName() string { return TableRefreshTokens }

func (t RefreshToken) IsExpired(now time.Time) bool { return !now.Before(t.Expiration) }

func (t RefreshToken) IsRevoked() bool { return t.RevokedOn != nil }

func (t RefreshToken) IsActive(now time.Time) bool { return !t.IsRevoked() && !t.IsExpired(now) }
