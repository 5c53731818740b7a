package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	dbp "github.com/kod2ulz/paga-business/sql/db/paga"
	"github.com/pkg/errors"
)

type CallHistory interface {
	ListApiCallsByRequestID(ctx context.Context, requestID uuid.UUID) ([]dbp.PagaApiCall, error)
}

// CallRecord is one audited call as served by GET /paga/calls/:requestId.
type CallRecord struct {
	ID             int64           `json:"id"`
	RequestID      uuid.UUID       `json:"requestId"`
	Operation      string          `json:"operation"`
	Method         string          `json:"method"`
	Url            string          `json:"url"`
	Request        json.RawMessage `json:"request,omitempty"`
	Response       json.RawMessage `json:"response,omitempty"`
	ResponseCode   *int32          `json:"responseCode,omitempty"`
	Outcome        string          `json:"outcome,omitempty"`
	TransportError string          `json:"transportError,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	RespondedAt    *time.Time      `json:"respondedAt,omitempty"`
}

func jsonb(in pgtype.JSONB) json.RawMessage {
	if in.Status != pgtype.Present || len(in.Bytes) == 0 {
		return nil
	}
	return json.RawMessage(in.Bytes)
}

func NewCallRecord(call dbp.PagaApiCall) (out CallRecord) {
	out = CallRecord{
		ID:             call.ID,
		RequestID:      call.RequestID,
		Operation:      call.Operation,
		Method:         call.Method,
		Url:            call.Url,
		Request:        jsonb(call.Request),
		Response:       jsonb(call.Response),
		Outcome:        call.Outcome.String,
		TransportError: call.TransportError.String,
		CreatedAt:      call.CreatedAt,
	}
	if call.ResponseCode.Valid {
		out.ResponseCode = &call.ResponseCode.Int32
	}
	if call.RespondedAt.Valid {
		out.RespondedAt = &call.RespondedAt.Time
	}
	return
}

func RegisterHistoryRoutes(r gin.IRouter, history CallHistory) {
	r.GET("/paga/calls/:requestId", listCalls(history))
}

func listCalls(history CallHistory) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, err := uuid.Parse(c.Param("requestId"))
		if err != nil {
			abort(c, http.StatusBadRequest, errors.Wrap(err, "invalid request id"))
			return
		}
		calls, err := history.ListApiCallsByRequestID(c, requestID)
		if err != nil {
			abort(c, http.StatusInternalServerError, errors.Wrap(err, "failed to list paga calls"))
			return
		}
		out := make([]CallRecord, len(calls))
		for i := range calls {
			out[i] = NewCallRecord(calls[i])
		}
		c.JSON(http.StatusOK, out)
	}
}
