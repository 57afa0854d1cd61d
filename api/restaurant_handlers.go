package api

import (
	"bytes"
	"encoding/json"
	"strings"

	"yumzy-partner/models"
	"yumzy-partner/services"

	"github.com/gin-gonic/gin"
)

type createRestaurantRequest struct {
	Name              string   `json:"name"`
	Cuisine           string   `json:"cuisine"`
	DeliveryLocations []string `json:"deliveryLocations"`
}

type toggleLocationRequest struct {
	Base        string `json:"base" binding:"required"`
	SubLocation string `json:"subLocation" binding:"required"`
}

// GET /locations
func (s *Server) listLocations(c *gin.Context) {
	locs, err := services.ListLocations(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if locs == nil {
		locs = []models.Location{}
	}
	ok(c, locs)
}

// GET /restaurant
func (s *Server) getRestaurant(c *gin.Context) {
	r, err := services.GetRestaurant(c.Request.Context(), currentPartnerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, r)
}

// POST /restaurant
func (s *Server) createRestaurant(c *gin.Context) {
	var req createRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	owner := models.Partner{ID: currentPartnerID(c), Email: c.GetString(ctxEmail)}
	r, err := services.CreateRestaurantProfile(c.Request.Context(), owner, req.Name, req.Cuisine, req.DeliveryLocations)
	if err != nil {
		writeError(c, err)
		return
	}
	created(c, r)
}

// PATCH /restaurant
func (s *Server) updateRestaurant(c *gin.Context) {
	var req services.RestaurantUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	r, err := services.UpdateRestaurantProfile(c.Request.Context(), currentPartnerID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, r)
}

// POST /restaurant/delivery-locations/toggle
func (s *Server) toggleDeliveryLocation(c *gin.Context) {
	var req toggleLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	locs, err := services.ToggleDeliveryLocation(c.Request.Context(), currentPartnerID(c), req.Base, req.SubLocation)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"deliveryLocations": locs})
}

// priceInput accepts a JSON number or a user-typed string; unparsable text is 0.
type priceInput float64

func (p *priceInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = priceInput(services.ParsePrice(s))
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*p = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*p = priceInput(f)
	return nil
}

type addMenuItemRequest struct {
	Name     string     `json:"name"`
	Price    priceInput `json:"price"`
	Category string     `json:"category"`
}

// GET /menu?category=
func (s *Server) listMenu(c *gin.Context) {
	ctx := c.Request.Context()
	id := currentPartnerID(c)
	var (
		items []models.MenuItem
		err   error
	)
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		items, err = services.ListMenuByCategory(ctx, id, cat)
	} else {
		items, err = services.ListMenu(ctx, id)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, items)
}

// POST /menu
func (s *Server) addMenuItem(c *gin.Context) {
	var req addMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	it, err := services.AddMenuItem(c.Request.Context(), currentPartnerID(c), req.Name, float64(req.Price), req.Category)
	if err != nil {
		writeError(c, err)
		return
	}
	created(c, it)
}

// DELETE /menu/:id
func (s *Server) deleteMenuItem(c *gin.Context) {
	if err := services.DeleteMenuItem(c.Request.Context(), currentPartnerID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"deleted": c.Param("id")})
}
