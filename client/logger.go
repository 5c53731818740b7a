package client

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/kod2ulz/gostart/api"
	"github.com/kod2ulz/paga-business/sql/db"
	dbp "github.com/kod2ulz/paga-business/sql/db/paga"
	"github.com/sirupsen/logrus"
)

// CallLog persists request/response pairs.
type CallLog interface {
	LogApiRequest(ctx context.Context, arg dbp.LogApiRequestParams) (dbp.PagaApiCall, error)
	LogApiResponse(ctx context.Context, arg dbp.LogApiResponseParams) (dbp.PagaApiCall, error)
}

type pagaLogger struct {
	*logrus.Entry
	px *Paga
}

func (l *pagaLogger) getRequestID(ctx context.Context) (out uuid.UUID) {
	var ok bool
	var err error
	if val := ctx.Value(api.RequestID); val != nil {
		if out, ok = val.(uuid.UUID); ok {
			return
		} else if out, err = uuid.Parse(fmt.Sprint(val)); err == nil {
			return
		}
	}
	return uuid.New()
}

func maskHeaders(headers http.Header) map[string][]string {
	out := make(map[string][]string, len(headers))
	for name, values := range headers {
		if http.CanonicalHeaderKey(name) == http.CanonicalHeaderKey(HEADER_CREDENTIALS) {
			values = []string{maskedSecret}
		}
		out[name] = values
	}
	return out
}

func bodyValue(body string) any {
	if body == "" {
		return nil
	} else if json.Valid([]byte(body)) {
		return json.RawMessage(body)
	}
	return body
}

func (l *pagaLogger) Request(ctx context.Context, requestID uuid.UUID, op Operation, req *BuiltRequest, body any) (call dbp.PagaApiCall, err error) {
	var request pgtype.JSONB
	data := map[string]any{"body": body, "headers": maskHeaders(req.Header)}
	call = dbp.PagaApiCall{RequestID: requestID, Operation: op.Name, Method: http.MethodPost, Url: req.Url}
	if l.px.db == nil {
		l.WithField("request", data).Debug("paga request")
		return
	} else if err = request.Set(data); err != nil {
		l.WithError(err).Error("failed to encode api request")
		return
	}
	if call, err = l.px.db.LogApiRequest(ctx, dbp.LogApiRequestParams{
		RequestID: requestID,
		Operation: op.Name,
		Method:    http.MethodPost,
		Url:       req.Url,
		Request:   request,
	}); err != nil {
		l.WithError(err).WithField("data", data).Error("failed to save api request")
	} else {
		l.WithField("callId", call.ID).Debug()
	}
	return
}

func (l *pagaLogger) Response(ctx context.Context, call dbp.PagaApiCall, outcome Outcome, kind OutcomeKind) (out dbp.PagaApiCall, err error) {
	var response pgtype.JSONB
	data := map[string]any{"body": bodyValue(outcome.Body)}
	params := dbp.LogApiResponseParams{
		ID:           call.ID,
		ResponseCode: sql.NullInt32{Int32: int32(outcome.Status), Valid: outcome.Status > 0},
		Outcome:      sql.NullString{String: kind.String(), Valid: true},
	}
	if outcome.Err != nil {
		params.TransportError = sql.NullString{String: outcome.Err.Error(), Valid: true}
	}
	if l.px.db == nil {
		l.WithFields(logrus.Fields{"code": outcome.Status, "outcome": kind, "response": data}).Debug("paga response")
		return call, nil
	} else if err = response.Set(data); err != nil {
		l.WithError(err).Error("failed to encode api response")
		return call, err
	}
	params.Response = response
	if out, err = l.px.db.LogApiResponse(ctx, params); err == nil {
		l.WithField("callId", out.ID).Debug()
	} else if db.IsSqlNoRows(err) {
		l.WithField("callId", call.ID).Warn("api request was not logged, response dropped")
	} else {
		l.WithError(err).WithField("data", data).Error("failed to save api response")
	}
	return
}
