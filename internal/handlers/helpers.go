// Package handlers exposes the store, the relationship maintainer and the
// order manager over HTTP. Every error body is {"message": "..."}.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/oficina/internal/apierror"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bindJSON decodes the request body into dst. It writes a 400 and returns
// false when the body is not valid JSON for dst.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Response{Message: "JSON inválido: " + err.Error()})
		return false
	}
	return true
}

// respondError maps err to its status code. Backend failures are logged.
func respondError(c *gin.Context, err error) {
	status := apierror.Status(err)
	if status >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"error":  err,
		}).Error("Request failed")
	}
	c.JSON(status, apierror.Response{Message: apierror.Message(err)})
}

func respondRemoved(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, apierror.Response{Message: msg})
}

// filterID parses an id used to filter a listing. A malformed id cannot
// match anything, but it is reported rather than silently returning [].
func filterID(c *gin.Context, param string) (*primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		respondError(c, apierror.InvalidField(param, "id inválido"))
		return nil, false
	}
	return &oid, true
}

// Index describes the API and its resource roots.
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "API Oficina Mecânica OK",
		"endpoints": gin.H{
			"clientes":      "/clientes",
			"veiculos":      "/veiculos",
			"oficinas":      "/oficinas",
			"servicos":      "/servicos",
			"pecas":         "/pecas",
			"ordensServico": "/ordens-servico",
		},
	})
}
