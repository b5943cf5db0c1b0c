// ABOUTME: HTTP handlers for the speedrun API
// ABOUTME: Each ranking pass is tagged with a ULID pass id for log correlation
package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/harperreed/speedrun/activity"
	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/rtp"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

type entry struct {
	Record     models.Record     `json:"record"`
	Evaluation models.Evaluation `json:"evaluation"`
}

type passResponse struct {
	PassID   string   `json:"pass_id"`
	Strategy string   `json:"strategy"`
	Count    int      `json:"count"`
	Items    []entry  `json:"items"`
	Warnings []string `json:"warnings,omitempty"`
}

type profileResponse struct {
	Profile  models.Profile `json:"profile"`
	Warnings []string       `json:"warnings,omitempty"`
}

func fail(c *gin.Context, status int, message string, details any) {
	c.AbortWithStatusJSON(status, errorResponse{Error: message, Details: details})
}

func newPass(ranked []rtp.Ranked, e *rtp.Engine) passResponse {
	items := make([]entry, len(ranked))
	for i, r := range ranked {
		items[i] = entry{Record: r.Record, Evaluation: r.Evaluation}
	}
	return passResponse{
		PassID:   ulid.Make().String(),
		Strategy: string(e.Profile().Strategy),
		Count:    len(items),
		Items:    items,
		Warnings: e.Warnings(),
	}
}

// GET /api/records/:id/evaluation
func (s *Server) handleEvaluation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid record id", nil)
		return
	}

	record, err := db.GetRecord(s.ws.DB, id)
	if errors.Is(err, db.ErrNotFound) {
		fail(c, http.StatusNotFound, "record not found", nil)
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}

	e, err := s.ws.Engine()
	if err != nil {
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record":     record,
		"evaluation": e.Evaluate(*record, s.ws.Now()),
		"warnings":   e.Warnings(),
	})
}

type completeRequest struct {
	Outcome string `json:"outcome" binding:"required,outcome"`
	Notes   string `json:"notes" binding:"max=2000"`
}

type completeResponse struct {
	Record   models.Record     `json:"record"`
	Activity activity.Activity `json:"activity"`
	InQueue  bool              `json:"in_queue"`
}

// POST /api/records/:id/complete
func (s *Server) handleComplete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid record id", nil)
		return
	}

	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	outcome, err := activity.ParseOutcome(req.Outcome)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid outcome", req.Outcome)
		return
	}

	record, entry, err := s.ws.Complete(id, outcome, req.Notes)
	if errors.Is(err, db.ErrNotFound) {
		fail(c, http.StatusNotFound, "record not found", nil)
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}

	s.logger.Info("record completed", "id", id, "outcome", outcome, "status", record.Status)
	c.JSON(http.StatusOK, completeResponse{
		Record:   *record,
		Activity: *entry,
		InQueue:  entry.Verb == activity.VerbAttempted,
	})
}

// GET /api/records/:id/activities?limit=20
func (s *Server) handleActivities(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid record id", nil)
		return
	}
	limit := 20
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			fail(c, http.StatusBadRequest, "invalid limit", l)
			return
		}
		limit = n
	}

	history, err := db.ListActivities(s.ws.DB, id, limit)
	if err != nil {
		s.internalError(c, err)
		return
	}
	if history == nil {
		history = []activity.Activity{}
	}
	c.JSON(http.StatusOK, gin.H{"activities": history})
}

// GET /api/rank?kind=lead
func (s *Server) handleRank(c *gin.Context) {
	var kind models.RecordKind
	if k := c.Query("kind"); k != "" {
		parsed, ok := models.ParseRecordKind(k)
		if !ok {
			fail(c, http.StatusBadRequest, "invalid kind", k)
			return
		}
		kind = parsed
	}

	ranked, e, err := s.ws.Rank(kind)
	if err != nil {
		s.internalError(c, err)
		return
	}

	resp := newPass(ranked, e)
	s.logger.Info("ranking pass", "pass_id", resp.PassID, "kind", kind, "count", resp.Count)
	c.JSON(http.StatusOK, resp)
}

// GET /api/queue?limit=50
func (s *Server) handleQueue(c *gin.Context) {
	limit := s.queueLimit
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			fail(c, http.StatusBadRequest, "invalid limit", l)
			return
		}
		limit = n
	}

	queue, e, err := s.ws.Queue(limit)
	if err != nil {
		s.internalError(c, err)
		return
	}

	resp := newPass(queue, e)
	s.logger.Info("queue pass", "pass_id", resp.PassID, "count", resp.Count)
	c.JSON(http.StatusOK, resp)
}

// GET /api/profile
func (s *Server) handleGetProfile(c *gin.Context) {
	p, err := s.ws.Profile()
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{Profile: p, Warnings: p.Warnings()})
}

// PUT /api/profile replaces the whole profile.
func (s *Server) handlePutProfile(c *gin.Context) {
	var p models.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if p.Strategy == "" {
		p.Strategy = models.StrategyCustom
	}
	if err := p.Validate(); err != nil {
		fail(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	if err := db.SaveProfile(s.ws.DB, s.ws.UserID, p); err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{Profile: p, Warnings: p.Warnings()})
}

// POST /api/profile/strategy/:name
func (s *Server) handleApplyStrategy(c *gin.Context) {
	p, err := s.ws.ApplyStrategy(models.Strategy(c.Param("name")))
	if errors.Is(err, models.ErrUnknownStrategy) {
		fail(c, http.StatusBadRequest, "unknown strategy", c.Param("name"))
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{Profile: p, Warnings: p.Warnings()})
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.logger.Error("request failed", "path", c.FullPath(), "err", err)
	fail(c, http.StatusInternalServerError, "internal error", nil)
}
