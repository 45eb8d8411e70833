package dispatch

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Router *Router
}

func NewHandler(router *Router) *Handler {
	return &Handler{Router: router}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/db", h.dispatch)
}

type dispatchReq struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

func (h *Handler) dispatch(c *gin.Context) {
	var req dispatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Action == "" || len(req.Action) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	data, err := h.Router.Dispatch(c.Request.Context(), req.Action, Params(req.Params), c.GetHeader("Authorization"))
	if err != nil {
		log.Printf("db action %q failed: %v", req.Action, err)
		// auth failures get 401; everything else, store failures
		// included, collapses to a 400 with a short message
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "Unauthorized") {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}
