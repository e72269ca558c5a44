// Package server exposes interview sessions over an HTTP API. Each session
// owns an independent agent; turns within a session are serialized.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tsavowest/ai-interviewer/internal/ai"
	"github.com/tsavowest/ai-interviewer/internal/interview"
	"github.com/tsavowest/ai-interviewer/internal/logger"
)

// Config holds HTTP server settings.
type Config struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Debug        bool          `mapstructure:"debug"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
}

// DefaultConfig returns the default server settings.
func DefaultConfig() *Config {
	return &Config{
		Host:         "localhost",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
}

// Server manages interview sessions behind a REST API.
type Server struct {
	gateway      ai.Gateway
	registry     *interview.Registry
	policy       interview.FallbackPolicy
	maxFollowups int
	logger       *zap.Logger

	engine     *gin.Engine
	httpServer *http.Server

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	id    string
	agent *interview.Agent

	// mu serializes turns within the session; distinct sessions are
	// independent.
	mu      sync.Mutex
	created time.Time
}

// New builds the server and its routes.
func New(cfg *Config, gateway ai.Gateway, registry *interview.Registry, policy interview.FallbackPolicy, maxFollowups int, log *zap.Logger) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	defaults := DefaultConfig()
	if cfg.Host == "" {
		cfg.Host = defaults.Host
	}
	if cfg.Port == 0 {
		cfg.Port = defaults.Port
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaults.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if gateway == nil {
		return nil, errors.New("completion gateway is required")
	}
	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("validate qualification registry: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		gateway:      gateway,
		registry:     registry,
		policy:       policy,
		maxFollowups: maxFollowups,
		logger:       log,
		engine:       engine,
		sessions:     make(map[string]*session),
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s, nil
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")
	{
		api.POST("/sessions", s.handleCreateSession)
		api.POST("/sessions/:id/messages", s.handleSubmitMessage)
		api.POST("/sessions/:id/decision", s.handleForceDecision)
		api.GET("/sessions/:id/progress", s.handleProgress)
		api.GET("/sessions/:id/summary", s.handleSummary)
		api.GET("/sessions/:id/history", s.handleHistory)
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("interview server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler exposes the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ── Handlers ────────────────────────────────────────────────────────────────

type createSessionResponse struct {
	SessionID string             `json:"session_id"`
	Reply     string             `json:"reply"`
	Progress  interview.Progress `json:"progress"`
}

func (s *Server) handleCreateSession(c *gin.Context) {
	id := uuid.NewString()

	agent, err := interview.New(s.gateway, s.registry, s.policy, s.maxFollowups, logger.WithSession(s.logger, id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sess := &session{id: id, agent: agent, created: time.Now()}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	sess.mu.Lock()
	reply := agent.Start(c.Request.Context())
	progress := agent.GetProgress()
	sess.mu.Unlock()

	s.logger.Info("session created", zap.String(logger.FieldSession, id))

	c.JSON(http.StatusCreated, createSessionResponse{
		SessionID: id,
		Reply:     reply,
		Progress:  progress,
	})
}

type submitMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type replyResponse struct {
	Reply    string             `json:"reply"`
	Progress interview.Progress `json:"progress"`
}

func (s *Server) handleSubmitMessage(c *gin.Context) {
	sess := s.lookup(c)
	if sess == nil {
		return
	}

	var req submitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	sess.mu.Lock()
	reply := sess.agent.Submit(c.Request.Context(), req.Message)
	progress := sess.agent.GetProgress()
	sess.mu.Unlock()

	c.JSON(http.StatusOK, replyResponse{Reply: reply, Progress: progress})
}

func (s *Server) handleForceDecision(c *gin.Context) {
	sess := s.lookup(c)
	if sess == nil {
		return
	}

	sess.mu.Lock()
	reply := sess.agent.ForceDecision(c.Request.Context())
	progress := sess.agent.GetProgress()
	sess.mu.Unlock()

	c.JSON(http.StatusOK, replyResponse{Reply: reply, Progress: progress})
}

func (s *Server) handleProgress(c *gin.Context) {
	sess := s.lookup(c)
	if sess == nil {
		return
	}

	sess.mu.Lock()
	progress := sess.agent.GetProgress()
	sess.mu.Unlock()

	c.JSON(http.StatusOK, progress)
}

func (s *Server) handleSummary(c *gin.Context) {
	sess := s.lookup(c)
	if sess == nil {
		return
	}

	sess.mu.Lock()
	summary := sess.agent.Summary()
	breakdown := sess.agent.Breakdown()
	sess.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"summary":   summary,
		"breakdown": breakdown,
	})
}

type historyEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (s *Server) handleHistory(c *gin.Context) {
	sess := s.lookup(c)
	if sess == nil {
		return
	}

	sess.mu.Lock()
	history := sess.agent.History()
	sess.mu.Unlock()

	entries := make([]historyEntry, 0, len(history))
	for _, msg := range history {
		entries = append(entries, historyEntry{Role: string(msg.Role), Content: msg.Content})
	}

	c.JSON(http.StatusOK, gin.H{"messages": entries})
}

func (s *Server) handleHealth(c *gin.Context) {
	s.mu.RLock()
	count := len(s.sessions)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": count})
}

func (s *Server) lookup(c *gin.Context) *session {
	id := c.Param("id")

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("session %s not found", id)})
		return nil
	}

	return sess
}
