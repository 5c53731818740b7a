package client

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/kod2ulz/gostart/logr"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("github.com/kod2ulz/paga-business/client")

type PagaClientOption func(*Paga)

func WithPagaDB(db CallLog) PagaClientOption {
	return func(p *Paga) {
		p.db = db
	}
}

func WithPagaIdentity(identity Identity) PagaClientOption {
	return func(p *Paga) {
		p.identity = identity
	}
}

func WithPagaConfig(conf *PagaConfig) PagaClientOption {
	return func(p *Paga) {
		p.identity = conf.Identity()
		p.dispatcherConf = conf.Dispatcher()
	}
}

func WithPagaStore(store AttachmentStore) PagaClientOption {
	return func(p *Paga) {
		p.store = store
	}
}

func WithPagaDispatcher(dispatcher Dispatcher) PagaClientOption {
	return func(p *Paga) {
		p.dispatcher = dispatcher
	}
}

func WithPagaHosts(hosts Hosts) PagaClientOption {
	return func(p *Paga) {
		p.hosts = hosts
	}
}

func WithSignatureEncoder(encoder ValueEncoder) PagaClientOption {
	return func(p *Paga) {
		if encoder != nil {
			p.encoder = encoder
		}
	}
}

func PagaClient(ctx context.Context, log *logr.Logger, opts ...PagaClientOption) (out *Paga, err error) {
	out = &Paga{
		hosts:          DefaultHosts,
		encoder:        EncodeSignatureValue,
		dispatcherConf: DefaultDispatcherConfig(),
	}
	out.log = &pagaLogger{Entry: log.Entry, px: out}
	for i := range opts {
		opts[i](out)
	}
	if err = out.init(ctx); err != nil {
		return nil, err
	}
	return
}

// Paga signs and dispatches business api calls. It holds no per-call state and is safe for
// concurrent use.
type Paga struct {
	db             CallLog
	log            *pagaLogger
	store          AttachmentStore
	identity       Identity
	hosts          Hosts
	encoder        ValueEncoder
	dispatcher     Dispatcher
	dispatcherConf DispatcherConfig
}

func (p *Paga) Identity() Identity {
	return p.identity
}

func (p *Paga) init(ctx context.Context) (err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(p.identity.Validate)
	g.Go(p.loadDispatcher)
	return g.Wait()
}

func (p *Paga) loadDispatcher() (err error) {
	if p.dispatcherConf.InsecureSkipVerify && !p.identity.test {
		return &ConfigurationError{
			Fields: []string{"insecureSkipVerify"},
			Reason: "certificate verification can only be disabled for the test environment",
		}
	} else if p.dispatcher != nil {
		return
	}
	if p.dispatcherConf.InsecureSkipVerify {
		p.log.Warn("tls certificate verification disabled for test environment")
	}
	p.dispatcher = NewHTTPDispatcher(p.dispatcherConf)
	return
}

// ResolveAttachment maps a reference to an attachment. Empty references resolve to nil,
// minio:// references go through the configured store, anything else is a local path.
func (p *Paga) ResolveAttachment(role AttachmentRole, ref string) (Attachment, error) {
	if ref == "" {
		return nil, nil
	} else if !IsObjectRef(ref) {
		return FileAttachment(ref), nil
	} else if p.store == nil {
		return nil, &AttachmentError{Role: role, Ref: ref, Err: errors.New("object storage not configured")}
	}
	out, err := p.store.Attachment(ref)
	if err != nil {
		return nil, &AttachmentError{Role: role, Ref: ref, Err: err}
	}
	return out, nil
}

// Build signs the payload according to the operation and assembles the request.
func (p *Paga) Build(ctx context.Context, op Operation, payload any, attachments Attachments) (out *BuiltRequest, err error) {
	var params Params
	var values []string
	if params, err = ToParams(payload); err != nil {
		return
	} else if values, err = SignatureInput(params, op.SignatureFields, p.encoder); err != nil {
		return nil, errors.Wrapf(err, "failed to sign %s", op.Name)
	}
	hash := p.identity.Sign(values)
	url := p.hosts.Resolve(p.identity.test, op.Path)
	switch op.Transport {
	case TransportJSON:
		if !attachments.Empty() {
			return nil, errors.Errorf("operation %s does not accept attachments", op.Name)
		}
		return BuildJSON(url, hash, p.identity, payload)
	case TransportMultipart:
		return BuildMultipart(ctx, url, hash, p.identity, payload, attachments)
	}
	return nil, errors.Errorf("operation %s has unknown transport %d", op.Name, op.Transport)
}

// Invoke performs one call and returns the raw response body. Non-200 responses come back
// as *RemoteError with the body, network failures as *TransportError.
func (p *Paga) Invoke(ctx context.Context, op Operation, payload any, attachments Attachments) (out string, err error) {
	var req *BuiltRequest
	requestID := p.log.getRequestID(ctx)
	log := p.log.WithFields(logrus.Fields{"operation": op.Name, "requestId": requestID})
	ctx, span := tracer.Start(ctx, "paga."+op.Name, trace.WithAttributes(
		attribute.String("paga.operation", op.Name),
		attribute.String("paga.transport", op.Transport.String()),
		attribute.Bool("paga.test", p.identity.test),
		attribute.String("paga.request_id", requestID.String()),
	))
	defer span.End()

	if req, err = p.Build(ctx, op, payload, attachments); err != nil {
		label := "build_error"
		if IsAttachmentError(err) {
			label = OutcomeAttachmentError.String()
		}
		requestsTotal.WithLabelValues(op.Name, label).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		log.WithError(err).Error("failed to build request")
		return "", err
	}

	logger := &pagaLogger{Entry: log, px: p}
	call, _ := logger.Request(ctx, requestID, op, req, requestBody(op, payload, attachments))

	started := time.Now()
	outcome := p.dispatcher.Send(ctx, req)
	requestDuration.WithLabelValues(op.Name).Observe(time.Since(started).Seconds())

	kind := Classify(outcome)
	requestsTotal.WithLabelValues(op.Name, kind.String()).Inc()
	span.SetAttributes(attribute.Int("http.status_code", outcome.Status), attribute.String("paga.outcome", kind.String()))
	logger.Response(ctx, call, outcome, kind)

	if out, err = outcome.Result(op.Name); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, kind.String())
		log.WithError(err).WithField("code", outcome.Status).Warn("paga call failed")
	}
	return
}

var maskedFields = map[string]bool{"senderCredentials": true}

func maskParams(value any) any {
	switch v := value.(type) {
	case Params:
		return maskParams(map[string]any(v))
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			if maskedFields[key] && val != nil {
				out[key] = maskedSecret
				continue
			}
			out[key] = maskParams(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = maskParams(v[i])
		}
		return out
	}
	return value
}

func requestBody(op Operation, payload any, attachments Attachments) any {
	params, err := ToParams(payload)
	if err != nil {
		return nil
	}
	body := maskParams(params)
	if op.Transport != TransportMultipart {
		return body
	}
	files := map[string]string{}
	for _, part := range attachments.parts() {
		files[string(part.role)] = part.attachment.Filename()
	}
	return map[string]any{
		MultipartCustomerField:   body,
		"attachments":            files,
		MultipartSubsidiaryField: attachments.Subsidiary(),
	}
}
