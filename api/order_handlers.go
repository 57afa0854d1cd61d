package api

import (
	"errors"
	"net/http"

	"yumzy-partner/models"
	"yumzy-partner/notify"
	"yumzy-partner/services"

	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type bulkStatusRequest struct {
	OrderIDs []string `json:"orderIds"`
	Status   string   `json:"status" binding:"required"`
}

type customNotificationRequest struct {
	OrderIDs []string `json:"orderIds"`
	Message  string   `json:"message"`
}

// GET /categories
func (s *Server) listCategories(c *gin.Context) {
	cats, err := services.ListDashboardCategories(c.Request.Context(), currentPartnerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, cats)
}

// POST /categories
func (s *Server) createCategory(c *gin.Context) {
	var req models.PreOrderCategory
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	cat, err := services.CreatePreOrderCategory(c.Request.Context(), currentPartnerID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	created(c, services.CategoryWithCount{PreOrderCategory: *cat, Key: cat.Key()})
}

// DELETE /categories/:id
func (s *Server) deleteCategory(c *gin.Context) {
	n, err := services.DeletePreOrderCategory(c.Request.Context(), currentPartnerID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"deleted": c.Param("id"), "menuItemsDeleted": n})
}

// GET /categories/:id/orders?location=
func (s *Server) categoryOrders(c *gin.Context) {
	_, board, err := services.CategoryBoard(c.Request.Context(), currentPartnerID(c), c.Param("id"), c.Query("location"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, board)
}

// GET /categories/:id/sheet?location=
func (s *Server) categorySheet(c *gin.Context) {
	_, board, err := services.CategoryBoard(c.Request.Context(), currentPartnerID(c), c.Param("id"), c.Query("location"))
	if err != nil {
		writeError(c, err)
		return
	}
	html, err := services.RenderProductionSheet(board, s.now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// POST /orders/:id/status
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	o, err := services.DecideOrder(c.Request.Context(), s.notifier, currentPartnerID(c), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, o)
}

// POST /orders/status
func (s *Server) updateOrdersStatus(c *gin.Context) {
	var req bulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	updated, err := services.DecideOrders(c.Request.Context(), s.notifier, currentPartnerID(c), req.OrderIDs, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	if updated == nil {
		updated = []string{}
	}
	ok(c, gin.H{"updated": updated})
}

// POST /notifications/custom
func (s *Server) sendCustomNotification(c *gin.Context) {
	var req customNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	id := currentPartnerID(c)
	orderIDs, err := services.OwnedOrderIDs(ctx, id, req.OrderIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	name, err := services.RestaurantName(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	sent, err := s.notifier.NotifyCustom(ctx, orderIDs, req.Message, name)
	if err != nil {
		if errors.Is(err, notify.ErrEmptyMessage) || errors.Is(err, notify.ErrNoOrders) {
			badRequest(c, err.Error())
			return
		}
		writeError(c, err)
		return
	}
	ok(c, gin.H{"sent": sent})
}

// POST /telegram/link-code
func (s *Server) createLinkCode(c *gin.Context) {
	code, exp, err := services.CreateTelegramLinkCode(c.Request.Context(), currentPartnerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	created(c, gin.H{"code": code, "expiresAt": exp, "command": "/start " + code})
}
