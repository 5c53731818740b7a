package client

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

type AttachmentRole string

const (
	AccountPhoto AttachmentRole = "customerAccountPhoto"
	IdPhoto      AttachmentRole = "customerIdPhoto"

	AttachmentContentType = "image/jpeg"

	// ObjectRefScheme prefixes attachment references held in object storage, as in
	// minio://bucket/path/to/photo.jpg
	ObjectRefScheme = "minio://"
)

// Attachment is a reference to a photo that is only read while the request body is sent.
type Attachment interface {
	Filename() string
	Stat(ctx context.Context) error
	Open(ctx context.Context) (io.ReadCloser, error)
}

// AttachmentStore resolves object storage references.
type AttachmentStore interface {
	Attachment(ref string) (Attachment, error)
}

type Attachments struct {
	AccountPhoto Attachment
	IdPhoto      Attachment
}

func (a Attachments) Empty() bool {
	return a.AccountPhoto == nil && a.IdPhoto == nil
}

// Subsidiary is true only when both photos are attached.
func (a Attachments) Subsidiary() bool {
	return a.AccountPhoto != nil && a.IdPhoto != nil
}

type attachmentPart struct {
	role       AttachmentRole
	attachment Attachment
}

func (a Attachments) parts() (out []attachmentPart) {
	if a.AccountPhoto != nil {
		out = append(out, attachmentPart{AccountPhoto, a.AccountPhoto})
	}
	if a.IdPhoto != nil {
		out = append(out, attachmentPart{IdPhoto, a.IdPhoto})
	}
	return
}

func IsObjectRef(ref string) bool {
	return strings.HasPrefix(ref, ObjectRefScheme)
}

// FileAttachment is a path on the local file system.
type FileAttachment string

func (f FileAttachment) Filename() string {
	return filepath.Base(string(f))
}

func (f FileAttachment) Stat(ctx context.Context) (err error) {
	var info os.FileInfo
	if info, err = os.Stat(string(f)); err != nil {
		return err
	} else if info.IsDir() {
		return errors.Errorf("%s is a directory", f)
	}
	return
}

func (f FileAttachment) Open(ctx context.Context) (io.ReadCloser, error) {
	return os.Open(string(f))
}
