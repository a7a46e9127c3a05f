package main

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PratyushG434/Ecommerce-backend/internal/checkout"
	"github.com/PratyushG434/Ecommerce-backend/internal/httpx"
	"github.com/PratyushG434/Ecommerce-backend/internal/payu"
)

// createOrderHandler godoc
// @Summary   Create an order from the cart or direct items
// @Tags      checkout
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     body  body  checkout.Request  true  "order request"
// @Success   200 {object} checkout.Result
// @Failure   400 {object} product.HTTPError
// @Failure   409 {object} product.HTTPError
// @Router    /payment/create-order [post]
func createOrderHandler(svc checkoutService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		res, err := svc.CreateOrder(c.Request.Context(), httpx.UserID(c), req)
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// paymentCallbackHandler always answers with a redirect to the storefront.
// @Summary  Gateway callback
// @Tags     checkout
// @Accept   x-www-form-urlencoded
// @Success  302
// @Router   /payment/payu/callback [post]
func paymentCallbackHandler(svc checkoutService, frontendURL string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cb payu.Callback
		if err := c.ShouldBind(&cb); err != nil {
			log.Warn("callback form unreadable", zap.Error(err))
			c.Redirect(http.StatusFound, failureURL(frontendURL, "", checkout.ReasonServerError))
			return
		}
		out := svc.HandleCallback(c.Request.Context(), cb)
		if out.Success {
			c.Redirect(http.StatusFound, successURL(frontendURL, out.OrderID))
			return
		}
		c.Redirect(http.StatusFound, failureURL(frontendURL, out.OrderID, out.Reason))
	}
}

func successURL(frontendURL, orderID string) string {
	return frontendURL + "/order-success?" + url.Values{"orderId": {orderID}}.Encode()
}

func failureURL(frontendURL, orderID, reason string) string {
	v := url.Values{"reason": {reason}}
	if orderID != "" {
		v.Set("orderId", orderID)
	}
	return frontendURL + "/payment-failed?" + v.Encode()
}
