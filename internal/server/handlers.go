package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xtding233/booster-sim/internal/gacha"
	"github.com/xtding233/booster-sim/internal/session"
)

// MaxPacksPerRequest caps ?count on the packs endpoint.
const MaxPacksPerRequest = 16

type packsResponse struct {
	Success bool `json:"success"`
	session.Packs
}

func (s *Server) key(c *gin.Context) session.Key {
	return session.Key{ID: visitorID(c), Series: c.Param("series")}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) listSeries(c *gin.Context) {
	series, err := s.store.ListSeries(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	if series == nil {
		series = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "series": series})
}

func (s *Server) cards(c *gin.Context) {
	series := c.Param("series")
	cards, err := s.store.Cards(c.Request.Context(), series)
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "series": series, "cards": cards})
}

// openPacks opens ?count=n packs (default 1).
func (s *Server) openPacks(c *gin.Context) {
	count := 1
	if v := c.Query("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxPacksPerRequest {
			fail(c, http.StatusBadRequest, "count must be an integer between 1 and 16")
			return
		}
		count = n
	}
	s.draw(c, session.OpenN(count))
}

// openBox opens the rest of the current box, or a whole new one.
func (s *Server) openBox(c *gin.Context) {
	s.draw(c, (*gacha.Engine).OpenBox)
}

func (s *Server) draw(c *gin.Context, open func(*gacha.Engine) []gacha.Pack) {
	packs, err := s.sessions.Open(c.Request.Context(), s.key(c), open)
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, packsResponse{Success: true, Packs: packs})
}

func (s *Server) progress(c *gin.Context) {
	p, err := s.sessions.Snapshot(c.Request.Context(), s.key(c))
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "progress": p})
}

func (s *Server) reset(c *gin.Context) {
	existed := s.sessions.Reset(s.key(c))
	c.JSON(http.StatusOK, gin.H{"success": true, "reset": existed})
}
