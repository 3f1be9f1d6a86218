package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Channel/internal/adapters/render"
	"github.com/dkeye/Channel/internal/adapters/ui"
	"github.com/dkeye/Channel/internal/app/orch"
	"github.com/dkeye/Channel/internal/config"
	"github.com/dkeye/Channel/internal/domain"
)

// Controller is the command side of the orchestrator.
type Controller interface {
	Join(ctx context.Context) (domain.JoinOutcome, error)
	Leave(ctx context.Context) error
	ToggleMute(ctx context.Context, slot int) (bool, error)
	Status(ctx context.Context) (orch.Status, error)
}

type PanelView interface {
	View() ui.View
}

type SurfaceView interface {
	Stats() []render.SurfaceStats
	LocalEnabled() bool
	Dropped() uint64
}

type Deps struct {
	Controller Controller
	Panels     PanelView
	Surfaces   SurfaceView
}

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("ChannelSessions", store))
	r.Use(ClientTokenMiddleware())

	h := &handlers{deps: deps}
	api := r.Group("/api")
	api.GET("/status", h.status)
	api.GET("/surfaces", h.surfaces)
	api.POST("/join", h.join)
	api.POST("/leave", h.leave)
	api.POST("/slots/:index/mute", h.toggleMute)

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")
	return r
}

type handlers struct {
	deps Deps
}

func (h *handlers) status(c *gin.Context) {
	st, err := h.deps.Controller.Status(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}

	sess := sessions.Default(c)
	flashes := make([]string, 0)
	for _, f := range sess.Flashes() {
		flashes = append(flashes, fmt.Sprint(f))
	}
	if len(flashes) > 0 {
		if err := sess.Save(); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      st,
		"view":        h.deps.Panels.View(),
		"status_line": ui.StatusLine(st.Occupancy, st.MaxUsers),
		"flashes":     flashes,
	})
}

func (h *handlers) surfaces(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"local":   h.deps.Surfaces.LocalEnabled(),
		"slots":   h.deps.Surfaces.Stats(),
		"dropped": h.deps.Surfaces.Dropped(),
	})
}

func (h *handlers) join(c *gin.Context) {
	outcome, err := h.deps.Controller.Join(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	log.Info().
		Str("module", "adapters.http").
		Str("ct", c.GetString("client_token")).
		Str("outcome", outcome.String()).
		Msg("join requested")

	if outcome != domain.JoinAccepted {
		sess := sessions.Default(c)
		sess.AddFlash(outcome.String())
		if err := sess.Save(); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
		}
		c.JSON(http.StatusConflict, gin.H{"outcome": outcome})
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}

func (h *handlers) leave(c *gin.Context) {
	if err := h.deps.Controller.Leave(c.Request.Context()); err != nil {
		abort(c, err)
		return
	}
	log.Info().Str("module", "adapters.http").Str("ct", c.GetString("client_token")).Msg("leave requested")
	c.Status(http.StatusNoContent)
}

func (h *handlers) toggleMute(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot index"})
		return
	}
	muted, err := h.deps.Controller.ToggleMute(c.Request.Context(), idx)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": idx, "muted": muted})
}

func abort(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("request failed")
	}
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSlotIndex):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionActive),
		errors.Is(err, domain.ErrNotInChannel),
		errors.Is(err, domain.ErrNotJoined),
		errors.Is(err, domain.ErrSlotEmpty):
		return http.StatusConflict
	case errors.Is(err, orch.ErrStopped), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
