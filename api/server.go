package api

import (
	"context"
	"time"

	"yumzy-partner/auth"
	"yumzy-partner/live"
	"yumzy-partner/services"

	"github.com/gin-gonic/gin"
)

// Notifier is the notification surface the API drives.
type Notifier interface {
	services.StatusNotifier
	NotifyCustom(ctx context.Context, orderIDs []string, message, restaurantName string) (bool, error)
}

type Server struct {
	sessions *auth.Sessions
	google   auth.GoogleVerifier
	notifier Notifier
	hub      *live.Hub
	now      func() time.Time
}

func NewServer(sessions *auth.Sessions, google auth.GoogleVerifier, notifier Notifier, hub *live.Hub) *Server {
	return &Server{sessions: sessions, google: google, notifier: notifier, hub: hub, now: time.Now}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), corsMiddleware())

	r.GET("/health", func(c *gin.Context) { ok(c, gin.H{"status": "up"}) })

	a := r.Group("/auth")
	{
		a.POST("/google", s.googleSignIn)
		a.POST("/register", s.register)
		a.POST("/login", s.login)
		a.GET("/me", s.authMiddleware(false), s.me)
	}

	p := r.Group("/", s.authMiddleware(false))
	{
		p.GET("/locations", s.listLocations)

		p.GET("/restaurant", s.getRestaurant)
		p.POST("/restaurant", s.createRestaurant)
		p.PATCH("/restaurant", s.updateRestaurant)
		p.POST("/restaurant/delivery-locations/toggle", s.toggleDeliveryLocation)

		p.GET("/menu", s.listMenu)
		p.POST("/menu", s.addMenuItem)
		p.DELETE("/menu/:id", s.deleteMenuItem)

		p.GET("/categories", s.listCategories)
		p.POST("/categories", s.createCategory)
		p.DELETE("/categories/:id", s.deleteCategory)
		p.GET("/categories/:id/orders", s.categoryOrders)
		p.GET("/categories/:id/sheet", s.categorySheet)

		p.POST("/orders/:id/status", s.updateOrderStatus)
		p.POST("/orders/status", s.updateOrdersStatus)

		p.POST("/notifications/custom", s.sendCustomNotification)

		p.POST("/telegram/link-code", s.createLinkCode)
	}

	r.GET("/ws/orders", s.authMiddleware(true), s.orderFeed)
	return r
}
