package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tinytelemetry/backoffice/internal/browser"
	"github.com/tinytelemetry/backoffice/internal/duckdb"
	"github.com/tinytelemetry/backoffice/internal/model"
	"github.com/tinytelemetry/backoffice/internal/screens"
)

// reserved query parameters that are never treated as filter names.
var reservedParams = map[string]bool{"q": true, "page": true, "size": true}

func (s *Server) handleScreens(c *gin.Context) {
	role, _ := guardFrom(c).CurrentRole()
	visible := s.catalog.Visible(role)
	if visible == nil {
		visible = []screens.Info{}
	}
	c.JSON(http.StatusOK, gin.H{"role": role, "screens": visible})
}

// openTable resolves the :screen parameter, checks the caller's role and
// loads the table. It writes the error response when it returns nil.
func (s *Server) openTable(c *gin.Context) screens.Table {
	info, ok := s.catalog.Lookup(c.Param("screen"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown screen"})
		return nil
	}
	if !authorize(c, info.Roles) {
		return nil
	}

	size := s.PageSize
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 && v <= 500 {
		size = v
	}
	tbl, err := s.catalog.Open(info.ID, screens.Options{PageSize: size, Geometry: s.Geometry})
	if err != nil {
		log.Error().Err(err).Str("screen", info.ID).Msg("open screen failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load records"})
		return nil
	}
	return tbl
}

func (s *Server) handleTable(c *gin.Context) {
	tbl := s.openTable(c)
	if tbl == nil {
		return
	}
	defer tbl.Close()

	tbl.Search(c.Query("q"))
	for name, values := range c.Request.URL.Query() {
		if reservedParams[name] || len(values) == 0 {
			continue
		}
		tbl.SetFilter(name, values[0])
	}
	// Out-of-range or malformed pages leave the table on page 1.
	if p, err := strconv.Atoi(c.Query("page")); err == nil {
		tbl.GoToPage(p)
	}

	c.JSON(http.StatusOK, tbl.View())
}

func (s *Server) handleAction(c *gin.Context) {
	tbl := s.openTable(c)
	if tbl == nil {
		return
	}
	defer tbl.Close()

	var req struct {
		Confirm *bool `json:"confirm"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
	}

	id, action := c.Param("id"), c.Param("action")
	record, ok := tbl.Record(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	if action == "view" {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "action": action, "record": record})
		return
	}

	if tbl.RequiresConfirmation(action) && req.Confirm == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "confirmation required", "confirmationRequired": true})
		return
	}
	confirmed := req.Confirm != nil && *req.Confirm

	tbl.OpenMenu(id, browser.Rect{}, 0)
	if err := tbl.Invoke(action, confirmed); err != nil {
		writeActionError(c, err)
		return
	}

	status := "ok"
	if tbl.RequiresConfirmation(action) && !confirmed {
		status = "declined"
	}
	resp := gin.H{"status": status, "action": action}
	if updated, ok := tbl.Record(id); ok {
		resp["record"] = updated
	}
	c.JSON(http.StatusOK, resp)
}

func writeActionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, browser.ErrUnknownAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, duckdb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, screens.ErrInvalidTransition), errors.Is(err, screens.ErrInvalidAdjustment):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("action failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "action failed"})
	}
}

func (s *Server) handleMenuPosition(c *gin.Context) {
	var req struct {
		Trigger       browser.Rect `json:"trigger"`
		ViewportWidth int          `json:"viewportWidth"`
		MenuWidth     int          `json:"menuWidth"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	g := s.Geometry
	if req.MenuWidth > 0 {
		g.Width = req.MenuWidth
	}
	c.JSON(http.StatusOK, browser.PlaceMenu(req.Trigger, req.ViewportWidth, g))
}

func (s *Server) handleAdjustment(c *gin.Context) {
	info, _ := s.catalog.Lookup(string(model.KindWalletAdjustments))
	if !authorize(c, info.Roles) {
		return
	}

	var req screens.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing userId"})
		return
	}
	req.Currency = strings.ToUpper(req.Currency)

	id := "adj_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	adj, err := screens.AdjustWallet(s.catalog.Deps(), id, req)
	if err != nil {
		if errors.Is(err, screens.ErrInvalidAdjustment) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		writeActionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, adj)
}
