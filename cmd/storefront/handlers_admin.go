package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PratyushG434/Ecommerce-backend/internal/admin"
	"github.com/PratyushG434/Ecommerce-backend/internal/httpx"
	"github.com/PratyushG434/Ecommerce-backend/internal/order"
	"github.com/PratyushG434/Ecommerce-backend/internal/product"
	"github.com/PratyushG434/Ecommerce-backend/internal/user"
)

func dashboardHandler(svc *admin.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.Dashboard(c.Request.Context())
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

func metricsHandler(svc *admin.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := svc.Metrics(c.Request.Context(), c.DefaultQuery("range", "30d"))
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

func createProductHandler(svc *admin.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in product.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		p, err := svc.CreateProduct(c.Request.Context(), httpx.UserID(c), in)
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(svc *admin.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in product.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		p, err := svc.UpdateProduct(c.Request.Context(), httpx.UserID(c), c.Param("id"), in)
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(svc *admin.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteProduct(c.Request.Context(), httpx.UserID(c), c.Param("id")); err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func adminOrdersHandler(svc *admin.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := intParam(c, "page")
		if err != nil {
			httpx.BadRequest(c, err)
			return
		}
		p, err := svc.Orders(c.Request.Context(), c.Query("status"), page)
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func updateOrderStatusHandler(svc *admin.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.StatusRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		o, err := svc.UpdateOrderStatus(c.Request.Context(), httpx.UserID(c), c.Param("id"), in)
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// refundHandler godoc
// @Summary   Refund order items
// @Tags      admin
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     id    path  string               true  "order id"
// @Param     body  body  order.RefundRequest  true  "lines to refund"
// @Success   200 {object} order.Refund
// @Failure   400 {object} product.HTTPError
// @Failure   404 {object} product.HTTPError
// @Router    /admin/orders/{id}/refund [post]
func refundHandler(svc *admin.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.RefundRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		rf, err := svc.Refund(c.Request.Context(), httpx.UserID(c), c.Param("id"), in)
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, rf)
	}
}

func customersHandler(svc *admin.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cs, err := svc.Customers(c.Request.Context())
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, cs)
	}
}

func customerNotesHandler(svc *admin.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.NotesRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		u, err := svc.UpdateCustomerNotes(c.Request.Context(), httpx.UserID(c), c.Param("id"), in)
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func activityHandler(svc *admin.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		as, err := svc.Activity(c.Request.Context())
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, as)
	}
}

func adminMeHandler(svc *admin.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.Me(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}
