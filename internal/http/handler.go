// Package httpapi exposes the HTTP API of the store backend.
package httpapi

import (
	"go.uber.org/zap"

	"github.com/cdyhdrxj/store-backend/internal/auth"
	"github.com/cdyhdrxj/store-backend/internal/catalog"
	"github.com/cdyhdrxj/store-backend/internal/media"
	"github.com/cdyhdrxj/store-backend/internal/notify"
	"github.com/cdyhdrxj/store-backend/internal/purchase"
	"github.com/cdyhdrxj/store-backend/internal/user"
)

type Handler struct {
	items     catalog.ItemStore
	taxonomy  catalog.TaxonomyStore
	images    catalog.ImageStore
	users     user.Store
	tokens    *auth.TokenManager
	purchases *purchase.Service
	registry  *notify.Registry
	media     *media.Storage
	logger    *zap.Logger
}

type Deps struct {
	Items     catalog.ItemStore
	Taxonomy  catalog.TaxonomyStore
	Images    catalog.ImageStore
	Users     user.Store
	Tokens    *auth.TokenManager
	Purchases *purchase.Service
	Registry  *notify.Registry
	Media     *media.Storage
	Logger    *zap.Logger
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		items:     d.Items,
		taxonomy:  d.Taxonomy,
		images:    d.Images,
		users:     d.Users,
		tokens:    d.Tokens,
		purchases: d.Purchases,
		registry:  d.Registry,
		media:     d.Media,
		logger:    d.Logger,
	}
}
