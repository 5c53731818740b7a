package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	HEADER_CONTENT_TYPE = "Content-Type"
	HEADER_ACCEPT       = "Accept"
	HEADER_HASH         = "hash"
	HEADER_PRINCIPAL    = "principal"
	HEADER_CREDENTIALS  = "credentials"

	ContentTypeJSON = "application/json"

	MultipartCustomerField   = "customer"
	MultipartSubsidiaryField = "isSubsidiary"
)

type bodyFunc func(ctx context.Context) (io.ReadCloser, error)

// BuiltRequest is an assembled POST. The body is produced on demand so that attachments are
// streamed from their source for every send.
type BuiltRequest struct {
	Url    string
	Header http.Header
	body   bodyFunc
}

func (r *BuiltRequest) Body(ctx context.Context) (io.ReadCloser, error) {
	if r.body == nil {
		return http.NoBody, nil
	}
	return r.body(ctx)
}

func identityHeaders(hash string, identity Identity, contentType string) http.Header {
	out := http.Header{}
	out.Set(HEADER_CONTENT_TYPE, contentType)
	out.Set(HEADER_ACCEPT, ContentTypeJSON)
	out.Set(HEADER_HASH, hash)
	out.Set(HEADER_PRINCIPAL, identity.principal)
	out.Set(HEADER_CREDENTIALS, identity.credential)
	return out
}

// BuildJSON assembles a json POST. A nil payload produces a request without a body.
func BuildJSON(url, hash string, identity Identity, payload any) (out *BuiltRequest, err error) {
	out = &BuiltRequest{Url: url, Header: identityHeaders(hash, identity, ContentTypeJSON)}
	if payload == nil {
		return
	}
	var data []byte
	if data, err = json.Marshal(payload); err != nil {
		return nil, errors.Wrapf(err, "failed to encode %T payload", payload)
	}
	out.body = func(context.Context) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return
}

// BuildMultipart assembles a multipart/form-data POST carrying the payload as the json
// "customer" field plus any attached photos. Attachments are checked for existence here and
// read only when the body is consumed.
func BuildMultipart(ctx context.Context, url, hash string, identity Identity, payload any, attachments Attachments) (out *BuiltRequest, err error) {
	var data []byte
	if data, err = json.Marshal(payload); err != nil {
		return nil, errors.Wrapf(err, "failed to encode %T payload", payload)
	} else if err = statAttachments(ctx, attachments); err != nil {
		return nil, err
	}
	boundary := multipart.NewWriter(io.Discard).Boundary()
	contentType := fmt.Sprintf("multipart/form-data; boundary=%s", boundary)
	out = &BuiltRequest{Url: url, Header: identityHeaders(hash, identity, contentType)}
	out.body = func(ctx context.Context) (io.ReadCloser, error) {
		reader, writer := io.Pipe()
		go func() {
			form := multipart.NewWriter(writer)
			err := form.SetBoundary(boundary)
			if err == nil {
				err = writeMultipart(ctx, form, data, attachments)
			}
			if err == nil {
				err = form.Close()
			}
			writer.CloseWithError(err)
		}()
		return reader, nil
	}
	return
}

func statAttachments(ctx context.Context, attachments Attachments) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, part := range attachments.parts() {
		part := part
		g.Go(func() error {
			if err := part.attachment.Stat(ctx); err != nil {
				return &AttachmentError{Role: part.role, Ref: part.attachment.Filename(), Err: err}
			}
			return nil
		})
	}
	return g.Wait()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func formPartHeader(name, filename, contentType string) textproto.MIMEHeader {
	header := textproto.MIMEHeader{}
	disposition := fmt.Sprintf(`form-data; name="%s"`, quoteEscaper.Replace(name))
	if filename != "" {
		disposition = fmt.Sprintf(`%s; filename="%s"`, disposition, quoteEscaper.Replace(filename))
	}
	header.Set("Content-Disposition", disposition)
	header.Set(HEADER_CONTENT_TYPE, contentType)
	return header
}

func writeMultipart(ctx context.Context, form *multipart.Writer, data []byte, attachments Attachments) (err error) {
	var part io.Writer
	if part, err = form.CreatePart(formPartHeader(MultipartCustomerField, "", ContentTypeJSON)); err != nil {
		return errors.Wrap(err, "failed to create customer part")
	} else if _, err = part.Write(data); err != nil {
		return errors.Wrap(err, "failed to write customer part")
	}
	for _, attachment := range attachments.parts() {
		if err = writeAttachment(ctx, form, attachment); err != nil {
			return
		}
	}
	if !attachments.Subsidiary() {
		return
	}
	if part, err = form.CreatePart(formPartHeader(MultipartSubsidiaryField, "", ContentTypeJSON)); err != nil {
		return errors.Wrap(err, "failed to create subsidiary part")
	}
	_, err = part.Write([]byte("true"))
	return
}

func writeAttachment(ctx context.Context, form *multipart.Writer, p attachmentPart) (err error) {
	var part io.Writer
	var reader io.ReadCloser
	filename := p.attachment.Filename()
	if reader, err = p.attachment.Open(ctx); err != nil {
		return &AttachmentError{Role: p.role, Ref: filename, Err: err}
	}
	defer reader.Close()
	if part, err = form.CreatePart(formPartHeader(string(p.role), filename, AttachmentContentType)); err != nil {
		return errors.Wrapf(err, "failed to create %s part", p.role)
	} else if _, err = io.Copy(part, reader); err != nil {
		return &AttachmentError{Role: p.role, Ref: filename, Err: err}
	}
	return
}
