package api

import (
	"time"

	"yumzy-partner/models"
	"yumzy-partner/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type googleRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"displayName"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Partner   *models.Partner `json:"partner"`
	Next      string          `json:"next"`
}

// POST /auth/google
func (s *Server) googleSignIn(c *gin.Context) {
	var req googleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	id, err := s.google.Verify(c.Request.Context(), req.IDToken)
	if err != nil {
		log.WithError(err).Info("[api] google sign-in rejected")
		unauthorized(c, "sign-in failed")
		return
	}
	p, err := services.UpsertGooglePartner(c.Request.Context(), id.Subject, id.Email, id.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	s.startSession(c, p)
}

// POST /auth/register
func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, err := services.RegisterPartner(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeError(c, err)
		return
	}
	s.startSession(c, p)
}

// POST /auth/login
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, err := services.VerifyPartnerPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	s.startSession(c, p)
}

func (s *Server) startSession(c *gin.Context, p *models.Partner) {
	token, exp, err := s.sessions.Issue(p)
	if err != nil {
		writeError(c, err)
		return
	}
	next, err := services.NextScreen(c.Request.Context(), p.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	log.WithField("partner_id", p.ID).Info("[api] partner signed in")
	ok(c, sessionResponse{Token: token, ExpiresAt: exp, Partner: p, Next: next})
}

// GET /auth/me
func (s *Server) me(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := services.GetPartner(ctx, currentPartnerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	next, err := services.NextScreen(ctx, p.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"partner": p, "next": next})
}
