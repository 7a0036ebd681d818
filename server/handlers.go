package server

import (
	"errors"
	"net/http"
	"strconv"

	"fightbook/models"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createCombatRequest struct {
	Opponent string `json:"opponent" binding:"required"`
}

type placeWagerRequest struct {
	ChosenParticipant string `json:"chosen_participant" binding:"required"`
	Amount            int64  `json:"amount" binding:"required"`
}

type submitProofRequest struct {
	Proof string `json:"proof" binding:"required"`
}

type resolveRequest struct {
	Winner string `json:"winner" binding:"required"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := s.users.RegisterUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"username": user.Username,
		"balance":  user.Balance,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := s.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// Do not reveal whether the username or the password was wrong
		if errors.Is(err, models.ErrUserNotFound) || errors.Is(err, models.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		respondError(c, err)
		return
	}

	token, err := s.issueToken(user.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"username": user.Username,
		"balance":  user.Balance,
	})
}

func (s *Server) handleGetBalance(c *gin.Context) {
	balance, err := s.users.GetBalance(c.Request.Context(), c.GetString("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (s *Server) handleListCombats(c *gin.Context) {
	combats, err := s.combats.ListCombats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"combats": combats})
}

func (s *Server) handleGetCombat(c *gin.Context) {
	combatID, ok := combatIDParam(c)
	if !ok {
		return
	}

	detail, err := s.combats.GetCombat(c.Request.Context(), combatID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"combat": detail.Combat,
		"wagers": detail.Wagers,
		"escrow": detail.EscrowedTotal(),
	})
}

func (s *Server) handleCreateCombat(c *gin.Context) {
	var req createCombatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "opponent is required"})
		return
	}

	combat, err := s.combats.CreateCombat(c.Request.Context(), c.GetString("username"), req.Opponent)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"combat": combat})
}

func (s *Server) handleListWagers(c *gin.Context) {
	combatID, ok := combatIDParam(c)
	if !ok {
		return
	}

	wagers, err := s.wagers.ListWagers(c.Request.Context(), combatID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wagers": wagers})
}

func (s *Server) handlePlaceWager(c *gin.Context) {
	combatID, ok := combatIDParam(c)
	if !ok {
		return
	}

	var req placeWagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chosen_participant and amount are required"})
		return
	}

	wager, err := s.wagers.PlaceWager(c.Request.Context(), combatID, c.GetString("username"), req.ChosenParticipant, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"wager": wager})
}

func (s *Server) handleSubmitProof(c *gin.Context) {
	combatID, ok := combatIDParam(c)
	if !ok {
		return
	}

	var req submitProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "proof is required"})
		return
	}

	combat, err := s.settlements.SubmitProof(c.Request.Context(), combatID, c.GetString("username"), req.Proof)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"combat": combat})
}

// handleResolveCombat is direct participant resolution: the caller must be
// one of the combat's two fighters. The admin route skips this check.
func (s *Server) handleResolveCombat(c *gin.Context) {
	combatID, ok := combatIDParam(c)
	if !ok {
		return
	}
	if !s.callerIsParticipant(c, combatID) {
		return
	}
	s.resolve(c, combatID)
}

func (s *Server) handleCancelCombat(c *gin.Context) {
	combatID, ok := combatIDParam(c)
	if !ok {
		return
	}
	if !s.callerIsParticipant(c, combatID) {
		return
	}
	s.cancel(c, combatID)
}

func (s *Server) handleAdminResolve(c *gin.Context) {
	combatID, ok := combatIDParam(c)
	if !ok {
		return
	}
	s.resolve(c, combatID)
}

func (s *Server) handleAdminCancel(c *gin.Context) {
	combatID, ok := combatIDParam(c)
	if !ok {
		return
	}
	s.cancel(c, combatID)
}

func (s *Server) handleReviewQueue(c *gin.Context) {
	combats, err := s.combats.ListPendingReview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"combats": combats})
}

func (s *Server) handleScoreboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := s.stats.GetScoreboard(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scoreboard": entries})
}

func (s *Server) handleUserStats(c *gin.Context) {
	stats, err := s.stats.GetUserStats(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (s *Server) resolve(c *gin.Context, combatID int64) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "winner is required"})
		return
	}

	result, err := s.settlements.ResolveCombat(c.Request.Context(), combatID, req.Winner)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"combat":   result.Combat,
		"winners":  len(result.Winners),
		"losers":   len(result.Losers),
		"paid_out": result.TotalPaidOut,
	})
}

func (s *Server) cancel(c *gin.Context, combatID int64) {
	result, err := s.settlements.CancelCombat(c.Request.Context(), combatID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"combat":   result.Combat,
		"refunded": result.TotalPaidOut,
	})
}

// callerIsParticipant enforces the direct-resolution deployment policy:
// settlement itself is identity-agnostic, so the check lives here.
func (s *Server) callerIsParticipant(c *gin.Context, combatID int64) bool {
	detail, err := s.combats.GetCombat(c.Request.Context(), combatID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if !detail.Combat.IsParticipant(c.GetString("username")) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only a participant may settle this combat"})
		return false
	}
	return true
}

func combatIDParam(c *gin.Context) (int64, bool) {
	combatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid combat id"})
		return 0, false
	}
	return combatID, true
}

// respondError maps a service error kind to an HTTP status. The kind is
// always determinable with errors.Is, so the mapping is exhaustive.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrCombatNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateUser),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrCombatNotEligible),
		errors.Is(err, models.ErrCombatUnavailable):
		status = http.StatusConflict
	case errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrSelfWager),
		errors.Is(err, models.ErrInvalidParticipant),
		errors.Is(err, models.ErrInvalidParticipants),
		errors.Is(err, models.ErrInvalidWinner),
		errors.Is(err, models.ErrInsufficientFunds):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrContentionTimeout):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Unhandled error in request")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
