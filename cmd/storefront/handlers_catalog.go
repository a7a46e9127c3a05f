package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/PratyushG434/Ecommerce-backend/internal/httpx"
	"github.com/PratyushG434/Ecommerce-backend/internal/product"
)

func parseProductQuery(c *gin.Context) (product.Query, error) {
	q := product.Query{
		Categories: product.SplitList(c.Query("category")),
		Genders:    product.SplitList(c.Query("gender")),
		Sizes:      product.SplitList(c.Query("sizes")),
		Colors:     product.SplitList(c.Query("colors")),
		Tags:       product.SplitList(c.Query("tags")),
		Search:     c.Query("search"),
		Sort:       c.Query("sort"),
	}
	var err error
	if q.Page, err = intParam(c, "page"); err != nil {
		return q, err
	}
	if q.Limit, err = intParam(c, "limit"); err != nil {
		return q, err
	}
	if q.MinPrice, err = priceParam(c, "minPrice"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = priceParam(c, "maxPrice"); err != nil {
		return q, err
	}
	return q, nil
}

func intParam(c *gin.Context, name string) (int, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func priceParam(c *gin.Context, name string) (*decimal.Decimal, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return nil, fmt.Errorf("invalid %s %q", name, v)
	}
	return &d, nil
}

// listProductsHandler godoc
// @Summary  List products
// @Tags     catalog
// @Produce  json
// @Success  200 {object} product.Page
// @Failure  400 {object} product.HTTPError
// @Router   /products [get]
func listProductsHandler(svc catalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := parseProductQuery(c)
		if err != nil {
			httpx.BadRequest(c, err)
			return
		}
		page, err := svc.List(c.Request.Context(), q)
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func trendingHandler(svc catalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ps, err := svc.Trending(c.Request.Context())
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, ps)
	}
}

func bestsellersHandler(svc catalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ps, err := svc.Bestsellers(c.Request.Context())
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, ps)
	}
}

// getProductHandler godoc
// @Summary  Get a product
// @Tags     catalog
// @Produce  json
// @Param    id  path  string  true  "product id"
// @Success  200 {object} product.Product
// @Failure  404 {object} product.HTTPError
// @Router   /products/{id} [get]
func getProductHandler(svc catalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
