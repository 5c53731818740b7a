package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kod2ulz/paga-business/client"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const HEADER_REQUEST_ID = "X-Request-Id"

// GatewayRequest is the body accepted by POST /paga/:operation. Photos must be object
// storage references; local paths are refused.
type GatewayRequest struct {
	Params client.Params `json:"params"`
	Photos Photos        `json:"photos"`
}

type OperationInfo struct {
	Name            string   `json:"name"`
	Path            string   `json:"path"`
	Transport       string   `json:"transport"`
	SignatureFields []string `json:"signatureFields"`
}

func RegisterRoutes(r gin.IRouter, px PagaApi) {
	g := r.Group("/paga")
	g.GET("/operations", listOperations)
	g.POST("/:operation", callOperation(px))
}

func RegisterMetrics(r gin.IRouter) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func listOperations(c *gin.Context) {
	ops := Operations()
	out := make([]OperationInfo, len(ops))
	for i, op := range ops {
		out[i] = OperationInfo{op.Name, op.Endpoint().Uri, op.Transport.String(), op.SignatureFields}
	}
	c.JSON(http.StatusOK, out)
}

func abort(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}

func callOperation(px PagaApi) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GatewayRequest
		var requestID uuid.UUID
		if id, err := uuid.Parse(c.GetHeader(HEADER_REQUEST_ID)); err == nil {
			requestID = id
		}
		ctx := getContextWithRequestID(c, requestID)
		c.Header(HEADER_REQUEST_ID, getRequestID(ctx).String())

		decoder := json.NewDecoder(c.Request.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&req); err != nil && err != io.EOF {
			abort(c, http.StatusBadRequest, errors.Wrap(err, "invalid request body"))
			return
		}
		for _, ref := range []string{req.Photos.AccountPhoto, req.Photos.IdPhoto} {
			if ref != "" && !client.IsObjectRef(ref) {
				abort(c, http.StatusBadRequest, errors.Errorf("photo %s must be a %s reference", ref, client.ObjectRefScheme))
				return
			}
		}

		body, err := px.Call(ctx, c.Param("operation"), req.Params, req.Photos)
		if err == nil {
			c.Data(http.StatusOK, client.ContentTypeJSON, []byte(body))
			return
		}
		var unknown *UnknownOperationError
		if remote, ok := client.IsRemoteError(err); ok {
			c.Data(remote.Status, client.ContentTypeJSON, []byte(remote.Body))
		} else if errors.As(err, &unknown) {
			abort(c, http.StatusNotFound, err)
		} else if client.IsAttachmentError(err) {
			abort(c, http.StatusUnprocessableEntity, err)
		} else if client.IsTransportError(err) {
			abort(c, http.StatusBadGateway, err)
		} else if client.IsConfigurationError(err) {
			abort(c, http.StatusInternalServerError, err)
		} else {
			abort(c, http.StatusBadRequest, err)
		}
	}
}
