package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Tops", "Bottoms"}, SplitList("Tops, Bottoms,,"))
	assert.Nil(t, SplitList(""))
}

func TestQueryNormalized(t *testing.T) {
	q := Query{Page: 0, Limit: 0, Search: "  tee "}.normalized()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, "tee", q.Search)

	q = Query{Page: 3, Limit: 500}.normalized()
	assert.Equal(t, MaxLimit, q.Limit)
	assert.Equal(t, 200, q.offset())
}

func TestQueryWhere_Empty(t *testing.T) {
	where, args := Query{}.where()
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestQueryWhere_AllFilters(t *testing.T) {
	minP := decimal.NewFromInt(10)
	maxP := decimal.NewFromInt(99)
	q := Query{
		Categories: []string{"Tops"},
		Genders:    []string{"Men", "Women"},
		Sizes:      []string{"M"},
		Colors:     []string{"Black"},
		Tags:       []string{"New"},
		Search:     "tee",
		MinPrice:   &minP,
		MaxPrice:   &maxP,
	}
	where, args := q.where()
	assert.Equal(t, "WHERE category = ANY($1) AND gender = ANY($2) AND sizes && $3 AND colors && $4 AND tags && $5"+
		` AND name ILIKE '%' || $6 || '%' ESCAPE '\' AND price >= $7 AND price <= $8`, where)
	assert.Len(t, args, 8)
	assert.Equal(t, "tee", args[5])
	assert.Equal(t, minP, args[6])
}

func TestQueryWhere_SearchIsLiteral(t *testing.T) {
	_, args := Query{Search: "_"}.where()
	assert.Equal(t, []any{`\_`}, args)

	_, args = Query{Search: `50% off_c:\tmp`}.where()
	assert.Equal(t, []any{`50\% off\_c:\\tmp`}, args)
}

func TestQueryOrderBy(t *testing.T) {
	assert.Equal(t, "ORDER BY price ASC, created_at DESC", Query{Sort: SortPriceLow}.orderBy())
	assert.Equal(t, "ORDER BY price DESC, created_at DESC", Query{Sort: SortPriceHigh}.orderBy())
	assert.Equal(t, "ORDER BY created_at DESC", Query{Sort: "popular"}.orderBy())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 12))
	assert.Equal(t, 1, totalPages(12, 12))
	assert.Equal(t, 2, totalPages(13, 12))
}

func TestCacheKeyDistinguishesQueries(t *testing.T) {
	a := Query{Categories: []string{"Tops"}, Page: 1, Limit: 12}.cacheKey()
	b := Query{Categories: []string{"Tops"}, Page: 2, Limit: 12}.cacheKey()
	c := Query{Search: "TEE", Page: 1, Limit: 12}.cacheKey()
	d := Query{Search: "tee", Page: 1, Limit: 12}.cacheKey()
	assert.NotEqual(t, a, b)
	assert.Equal(t, c, d)
}
