package product

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultLimit = 12
	MaxLimit     = 100

	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

// Query is a catalog listing request. Multi-value filters hold the comma-split values.
type Query struct {
	Categories []string
	Genders    []string
	Sizes      []string
	Colors     []string
	Tags       []string
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       string
	Page       int
	Limit      int
}

// SplitList splits a comma-separated query value, dropping empty entries.
func SplitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (q Query) normalized() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

func (q Query) offset() int { return (q.Page - 1) * q.Limit }

// where renders the filter clause and its positional arguments.
func (q Query) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(format string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}
	if len(q.Categories) > 0 {
		add("category = ANY($%d)", q.Categories)
	}
	if len(q.Genders) > 0 {
		add("gender = ANY($%d)", q.Genders)
	}
	if len(q.Sizes) > 0 {
		add("sizes && $%d", q.Sizes)
	}
	if len(q.Colors) > 0 {
		add("colors && $%d", q.Colors)
	}
	if len(q.Tags) > 0 {
		add("tags && $%d", q.Tags)
	}
	if q.Search != "" {
		add(`name ILIKE '%%' || $%d || '%%' ESCAPE '\'`, escapeLike(q.Search))
	}
	if q.MinPrice != nil {
		add("price >= $%d", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		add("price <= $%d", *q.MaxPrice)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string { return likeEscaper.Replace(s) }

func (q Query) orderBy() string {
	switch q.Sort {
	case SortPriceLow:
		return "ORDER BY price ASC, created_at DESC"
	case SortPriceHigh:
		return "ORDER BY price DESC, created_at DESC"
	default:
		return "ORDER BY created_at DESC"
	}
}

// cacheKey is a stable rendering of the normalized query.
func (q Query) cacheKey() string {
	price := func(d *decimal.Decimal) string {
		if d == nil {
			return ""
		}
		return d.String()
	}
	return strings.Join([]string{
		strings.Join(q.Categories, ","),
		strings.Join(q.Genders, ","),
		strings.Join(q.Sizes, ","),
		strings.Join(q.Colors, ","),
		strings.Join(q.Tags, ","),
		strings.ToLower(q.Search),
		price(q.MinPrice),
		price(q.MaxPrice),
		q.Sort,
		fmt.Sprint(q.Page),
		fmt.Sprint(q.Limit),
	}, "|")
}

func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
