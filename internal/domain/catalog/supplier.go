package catalog

import (
	"context"
	"time"

	"github.com/shopsync/backend/internal/domain/shared"
)

var (
	ErrProductNotFound  = shared.NewDomainError("NOT_FOUND", "catalog: product not found")
	ErrSupplierNotFound = shared.NewDomainError("NOT_FOUND", "catalog: supplier not found")
)

// Supplier is an upstream source of products. ProviderType selects the adapter
// used to read its feed; ProviderConfig is passed to that adapter as-is.
type Supplier struct {
	ID             int64
	Name           string
	ProviderType   string
	ProviderConfig map[string]any
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SupplierRepository provides supplier lookups
type SupplierRepository interface {
	FindByID(ctx context.Context, id int64) (*Supplier, error)
}
