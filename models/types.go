package models

// Reorder actions
const (
	ActionSaveTermOrder = "term_order_save"
)

// Request types

type CreateTermRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Taxonomy string `json:"taxonomy"`
}

// Rows may hold numbers or numeric strings, index i is position i+1
type ReorderRequest struct {
	Action string `json:"action"`
	Rows   []any  `json:"rows"`
}

// Response types

type ReorderResult struct {
	TermID  int64  `json:"term_id"`
	Ordinal int    `json:"ordinal"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

type ReorderResponse struct {
	Results []ReorderResult `json:"results"`
}

// Returned when at least one row failed to save
type ReorderErrorResponse struct {
	Msg     string          `json:"msg"`
	Errors  []string        `json:"errors"`
	Results []ReorderResult `json:"results"`
}

type CreateTermResponse struct {
	TermID int64 `json:"term_id"`
}

type ListTermsResponse struct {
	Taxonomy string `json:"taxonomy,omitempty"`
	Terms    []Term `json:"terms"`
}

type TermOrderResponse struct {
	Entries []OrderEntry `json:"entries"`
}

type PruneResponse struct {
	Removed int64 `json:"removed"`
}

type ProvisionSiteResponse struct {
	SiteID      int64  `json:"site_id"`
	TablePrefix string `json:"table_prefix"`
	AdminKey    string `json:"admin_key"`
}

// Domain types

type Term struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Taxonomy string `json:"taxonomy"`
	Ordinal  *int   `json:"ordinal,omitempty"` // nil when the term has no stored order
}

type OrderEntry struct {
	ID      int64  `json:"meta_id"`
	TermID  int64  `json:"term_id"`
	Key     string `json:"meta_key"`
	Ordinal int    `json:"meta_value"`
}

// TermClauses are the fragments of a term-listing query. Filters on the
// terms_clauses hook receive and return them; the terms table is aliased t.
type TermClauses struct {
	Fields   string
	Join     string
	Where    string
	OrderBy  string
	Taxonomy string
	Args     []any
}

type TermDeleted struct {
	TermID   int64
	Taxonomy string
}

type Site struct {
	ID     int64
	Prefix string
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
