package handlers

import (
	"errors"
	"net/http"
	"strings"

	"tsunami_usgs/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ctxOperatorID = "operatorId"
	bearerScheme  = "Bearer"
	authChallenge = `Bearer realm="diagnostics"`
)

var (
	errNoBearer        = errors.New("missing Authorization header")
	errMalformedBearer = errors.New("invalid Authorization header format")
)

// bearerToken extracts <token> from "Bearer <token>". The scheme is matched
// case-insensitively.
func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errNoBearer
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", errMalformedBearer
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", errMalformedBearer
	}
	return token, nil
}

// requireOperator lets the request through only with a token signed by this
// process that is still inside auth.token_ttl.
func (h *Handler) requireOperator(c *gin.Context) {
	token, err := bearerToken(c.GetHeader("Authorization"))
	if err != nil {
		h.deny(c, err.Error())
		return
	}

	id, err := h.services.ParseToken(token)
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		h.deny(c, "token expired")
		return
	case err != nil:
		if h.log != nil {
			h.log.Debugw("operator_token_rejected", "err", err)
		}
		h.deny(c, "invalid token")
		return
	}

	c.Set(ctxOperatorID, id)
	c.Next()
}

func (h *Handler) deny(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", authChallenge)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// operatorID is only meaningful behind requireOperator.
func operatorID(c *gin.Context) int {
	return c.GetInt(ctxOperatorID)
}
