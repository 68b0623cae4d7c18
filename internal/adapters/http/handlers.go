package http

import (
	"errors"
	stdhttp "net/http"
	"strconv"

	"github.com/dkeye/livecast/internal/app/orch"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const identityKey = "identity"

type BanRequest struct {
	BannedUserID int64  `json:"banned_user_id" binding:"required,gt=0"`
	Reason       string `json:"reason" binding:"max=255"`
}

type BanResponse struct {
	BannedUserID int64  `json:"banned_user_id"`
	Reason       string `json:"reason"`
	Evicted      int    `json:"evicted"`
}

type PresenceResponse struct {
	StreamID    int64 `json:"stream_id"`
	ViewerCount int   `json:"viewer_count"`
	Connections int   `json:"connections"`
}

type handlers struct {
	orch *orch.Orchestrator
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return stdhttp.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return stdhttp.StatusForbidden
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrBanNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return stdhttp.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyBanned):
		return stdhttp.StatusConflict
	case errors.Is(err, domain.ErrSelfBan):
		return stdhttp.StatusBadRequest
	case errors.Is(err, domain.ErrStorage):
		return stdhttp.StatusServiceUnavailable
	default:
		return stdhttp.StatusInternalServerError
	}
}

func abortWith(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

func (h *handlers) authenticate(c *gin.Context) {
	who, err := h.orch.Auth.Resolve(c.Request.Context(), c.GetString(credentialKey))
	if err != nil {
		if !errors.Is(err, domain.ErrStorage) {
			err = domain.ErrUnauthorized
		}
		abortWith(c, err)
		return
	}
	c.Set(identityKey, who)
	c.Next()
}

func moderator(c *gin.Context) domain.Identity {
	who, _ := c.Get(identityKey)
	return who.(domain.Identity)
}

// createBan commits the ban first and only then evicts live connections, so
// a reconnect racing the eviction is refused by the admission check.
func (h *handlers) createBan(c *gin.Context) {
	var req BanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(stdhttp.StatusBadRequest, gin.H{"error": "missing or invalid banned_user_id"})
		return
	}
	mod := moderator(c)
	target := domain.UserID(req.BannedUserID)
	if target == mod.ID {
		abortWith(c, domain.ErrSelfBan)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.orch.Bans.CreateBan(ctx, domain.Ban{ModeratorID: mod.ID, TargetID: target, Reason: req.Reason}); err != nil {
		abortWith(c, err)
		return
	}
	evicted, err := h.orch.Guard.EnforceBan(ctx, mod.ID, target)
	if err != nil {
		// The ban row exists; admission already refuses the target.
		log.Error().Err(err).Str("module", "adapters.http").Str("target", target.String()).Msg("ban committed but not enforced")
	}
	c.JSON(stdhttp.StatusCreated, BanResponse{BannedUserID: req.BannedUserID, Reason: req.Reason, Evicted: evicted})
}

func (h *handlers) deleteBan(c *gin.Context) {
	target, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || target <= 0 {
		c.JSON(stdhttp.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	if err := h.orch.Bans.DeleteBan(c.Request.Context(), moderator(c).ID, domain.UserID(target)); err != nil {
		abortWith(c, err)
		return
	}
	c.Status(stdhttp.StatusNoContent)
}

func (h *handlers) listBans(c *gin.Context) {
	bans, err := h.orch.Bans.ListBans(c.Request.Context(), moderator(c).ID)
	if err != nil {
		abortWith(c, err)
		return
	}
	if bans == nil {
		bans = []domain.Ban{}
	}
	c.JSON(stdhttp.StatusOK, bans)
}

func (h *handlers) presence(c *gin.Context) {
	sid, err := domain.ParseSessionID(c.Param("id"))
	if err != nil {
		abortWith(c, err)
		return
	}
	if _, err := h.orch.Owners.OwnerOf(c.Request.Context(), sid); err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, PresenceResponse{
		StreamID:    int64(sid),
		ViewerCount: h.orch.Presence.Count(sid),
		Connections: h.orch.Registry.Len(sid),
	})
}
