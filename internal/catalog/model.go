package catalog

// MaxQuantity bounds item stock; MaxPrice bounds item price. Both are also
// enforced by CHECK constraints in the schema.
const (
	MaxQuantity = 100_000_000
	MaxPrice    = 100_000_000
)

type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Image struct {
	ID     int64  `json:"id"`
	ItemID int64  `json:"item_id"`
	Name   string `json:"name"`
}

type Cover struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Item struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	Quantity    int64   `json:"quantity"`
	BrandID     int64   `json:"brand_id"`
	CategoryID  int64   `json:"category_id"`
	CoverID     *int64  `json:"cover_id,omitempty"`
	Cover       *Cover  `json:"cover,omitempty"`
	Images      []Image `json:"images,omitempty"`
}

// ItemUpdate carries a partial update; nil fields are left untouched.
type ItemUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	BrandID     *int64  `json:"brand_id"`
	CategoryID  *int64  `json:"category_id"`
	CoverID     *int64  `json:"cover_id"`
}

// ListFilter narrows and pages an item listing. Limit is capped at MaxLimit.
type ListFilter struct {
	Offset int64
	Limit  int64
	Search string
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

func (f ListFilter) normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
