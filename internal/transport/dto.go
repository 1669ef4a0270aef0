package transport

import (
	"time"

	"github.com/shopspring/decimal"
)

type CustomerInsert struct {
	Name string `json:"name"`
}

type CustomerUpdate struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CustomerListItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ProductInsert struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type ProductUpdate struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type ProductListItem struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type OrderInsert struct {
	CustomerID int64 `json:"customerId"`
}

type OrderUpdate struct {
	ID         int64 `json:"id"`
	CustomerID int64 `json:"customerId"`
}

type OrderDisplay struct {
	ID           int64           `json:"id"`
	CreatedOn    time.Time       `json:"createdOn"`
	CustomerID   int64           `json:"customerId"`
	CustomerName string          `json:"customerId_Name"`
	Total        decimal.Decimal `json:"total"`
}

type OrdersListItem = OrderDisplay

// OrderProductUpdate is one entry of a batch. ID <= 0 means insert; the
// value is echoed back in validation errors so callers can correlate rows.
type OrderProductUpdate struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"orderId"`
	ProductID int64 `json:"productId"`
	Qty       int   `json:"qty"`
}

type OrderProductListItem struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productId_Name"`
	Qty         int             `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

type OrderProductsBatch struct {
	EntitiesToAddUpdate []OrderProductUpdate `json:"entitiesToAddUpdate"`
	EntitiesToDelete    []int64              `json:"entitiesToDelete"`
}

func (b OrderProductsBatch) Empty() bool {
	return len(b.EntitiesToAddUpdate) == 0 && len(b.EntitiesToDelete) == 0
}

type UserInsert struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserUpdate struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type UserListItem struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	Username     string `json:"username"`
	RefreshToken string `json:"refreshToken"`
}

type AuthResult struct {
	Token                  string    `json:"token"`
	RefreshToken           string    `json:"refreshToken"`
	RefreshTokenExpiration time.Time `json:"refreshTokenExpiration"`
	Username               string    `json:"username"`
	Email                  string    `json:"email"`
}

// ValidationProblem is the 400 body returned for a ValidationFailure.
type ValidationProblem struct {
	Title     string              `json:"title"`
	Status    int                 `json:"status"`
	EntityKey int64               `json:"entityKey"`
	Errors    map[string][]string `json:"errors"`
}

type SearchResponse struct {
	Total int64             `json:"total"`
	Items []ProductListItem `json:"items"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
