package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xtding233/booster-sim/internal/catalog"
	"github.com/xtding233/booster-sim/internal/gacha"
	"github.com/xtding233/booster-sim/internal/game"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Success: false, Message: msg})
}

// failErr maps domain errors to a status code. Unknown errors become 500
// and keep their cause in the request log only.
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrSeriesNotFound), errors.Is(err, gacha.ErrEmptyCatalog):
		fail(c, http.StatusNotFound, gacha.ErrEmptyCatalog.Error())
	case errors.Is(err, game.ErrSeriesName):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, "internal error")
	}
}
