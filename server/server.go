// Package server is the HTTP front door: the chat bridge over REST and
// WebSocket plus direct lookups into the hotel data.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hotelhive/server/agent/agents/concierge"
	"github.com/hotelhive/server/internal/hotel"
	"github.com/hotelhive/server/internal/toolhost"
	logx "github.com/hotelhive/server/pkg/logger"
)

type Config struct {
	Host            string        `envconfig:"HOST" split_words:"true" default:"0.0.0.0"`
	Port            string        `envconfig:"PORT" split_words:"true" default:"8000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"5s"`
}

type Server struct {
	engine    *gin.Engine
	concierge *concierge.Concierge
	host      *toolhost.Host
	cfg       Config
}

func New(c *concierge.Concierge, host *toolhost.Host, cfg Config) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		engine:    engine,
		concierge: c,
		host:      host,
		cfg:       cfg,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/ws", s.handleWebSocket)

	api := s.engine.Group("/api")
	{
		api.POST("/message", s.handleMessage)
		api.GET("/hotels/:name", s.handleHotelDetails)
		api.GET("/bookings/:id", s.handleBookingDetails)
		api.POST("/bookings/:id/cancel", s.handleCancelBooking)
	}
}

// Run serves until the context is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Host + ":" + s.cfg.Port,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logx.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "hotelhive"})
}

type messageRequest struct {
	Content   string `json:"content" binding:"required"`
	SessionID string `json:"session_id"`
}

type messageResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// handleMessage is the stateless REST variant of the chat bridge. Clients
// that want continuity pass the session_id back on the next call.
func (s *Server) handleMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := s.concierge.HandleMessage(c.Request.Context(), sessionID, req.Content)
	if err != nil {
		if errors.Is(err, concierge.ErrInvalidMessage) || errors.Is(err, concierge.ErrInvalidSession) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logx.Error().Err(err).Str("session_id", sessionID).Msg("message handling failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})
		return
	}

	c.JSON(http.StatusOK, messageResponse{Response: reply, SessionID: sessionID})
}

func (s *Server) handleHotelDetails(c *gin.Context) {
	details, err := s.host.HotelDetails(c.Param("name"))
	if err != nil {
		if errors.Is(err, hotel.ErrUnknownHotel) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load hotel"})
		return
	}
	c.JSON(http.StatusOK, details)
}

func (s *Server) handleBookingDetails(c *gin.Context) {
	rec, err := s.host.BookingDetails(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleCancelBooking(c *gin.Context) {
	rec, err := s.host.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, hotel.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, hotel.ErrStatusTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logx.Error().Err(err).Str("booking_id", c.Param("id")).Msg("cancel booking failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel booking"})
		}
		return
	}
	c.JSON(http.StatusOK, rec)
}
