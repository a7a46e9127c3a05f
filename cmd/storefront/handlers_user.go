package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PratyushG434/Ecommerce-backend/internal/address"
	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
	"github.com/PratyushG434/Ecommerce-backend/internal/cart"
	"github.com/PratyushG434/Ecommerce-backend/internal/httpx"
	"github.com/PratyushG434/Ecommerce-backend/internal/user"
)

func meHandler(svc *user.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.Me(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func updateProfileHandler(svc *user.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.ProfileRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		u, err := svc.UpdateProfile(c.Request.Context(), httpx.UserID(c), in)
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// ===== addresses =====

func listAddressesHandler(svc *address.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		as, err := svc.List(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, as)
	}
}

func addAddressHandler(svc *address.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in address.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		a, err := svc.Add(c.Request.Context(), httpx.UserID(c), in)
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

func deleteAddressHandler(svc *address.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), httpx.UserID(c), c.Param("id")); err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ===== cart & wishlist =====

func getCartHandler(svc *cart.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ct, err := svc.Get(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, ct)
	}
}

func addToCartHandler(svc *cart.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cart.AddRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		ct, err := svc.Add(c.Request.Context(), httpx.UserID(c), in)
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, ct)
	}
}

func removeFromCartHandler(svc *cart.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ct, err := svc.Remove(c.Request.Context(), httpx.UserID(c), c.Param("itemId"))
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, ct)
	}
}

func getWishlistHandler(svc *cart.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := svc.Wishlist(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, ws)
	}
}

func addToWishlistHandler(svc *cart.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cart.WishlistRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		ws, err := svc.AddWishlist(c.Request.Context(), httpx.UserID(c), in.ProductID)
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, ws)
	}
}

func wishlistCheckHandler(svc *cart.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := svc.InWishlist(c.Request.Context(), httpx.UserID(c), c.Param("productId"))
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"inWishlist": ok})
	}
}

func removeFromWishlistHandler(svc *cart.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := svc.RemoveWishlist(c.Request.Context(), httpx.UserID(c), c.Param("productId"))
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, ws)
	}
}

// ===== orders =====

func listMyOrdersHandler(repo orderReader, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sums, err := repo.ListByUser(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		c.JSON(http.StatusOK, sums)
	}
}

// getMyOrderHandler returns 403 for an order placed by someone else.
func getMyOrderHandler(repo orderReader, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, log, err)
			return
		}
		if o.UserID != httpx.UserID(c) {
			httpx.Fail(c, log, apperr.ErrForbidden)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}
