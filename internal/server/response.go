package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type DataResponse struct {
	Data any `json:"data"`
}

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}
