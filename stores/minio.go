package stores

import (
	"context"
	"io"
	"strings"

	"github.com/kod2ulz/gostart/collections"
	"github.com/kod2ulz/gostart/logr"
	"github.com/kod2ulz/gostart/object"
	"github.com/kod2ulz/gostart/utils"
	"github.com/kod2ulz/paga-business/client"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type MinioConfig struct {
	UseSSL    bool
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
}

func NewMinioConfig(prefix ...string) *MinioConfig {
	env := utils.Env.Helper(prefix...).OrDefault("MINIO_STORAGE")
	return &MinioConfig{
		UseSSL:    env.Get("USE_SSL", "true").Bool(),
		AccessKey: env.Get("ACCESS_KEY", "invalid-minio-key").String(),
		SecretKey: env.Get("SECRET_KEY", "invalid-minio-key").String(),
		Endpoint:  env.Get("ENDPOINT", "minio.example.dev").String(),
		Region:    env.Get("REGION", "us-east-1").String(),
	}
}

func Minio(log *logr.Logger, conf *MinioConfig) (out *MinioClient, err error) {
	var mc *minio.Client
	if mc, err = minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
		Region: conf.Region,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to initialise minio client")
	}
	log.WithField("endpoint", conf.Endpoint).Info("initialised minio client")
	return &MinioClient{Client: mc, log: log}, nil
}

type MinioClient struct {
	log *logr.Logger
	*minio.Client
}

// ObjectReaderFunc expects you to handle the closing yourself
type ObjectReaderFunc func(int64, string, io.ReadCloser) error

func (c *MinioClient) StreamObject(ctx context.Context, bucket, key string, out ObjectReaderFunc) (err error) {
	var reader *minio.Object
	var info minio.ObjectInfo
	if reader, err = c.GetObject(ctx, bucket, key, minio.GetObjectOptions{}); err != nil {
		return errors.Wrapf(err, "error fetching object %s from bucket %s", key, bucket)
	} else if reader == nil {
		return errors.Errorf("object %s/%s returned empty object from storage", bucket, key)
	}
	if info, err = reader.Stat(); err != nil {
		reader.Close()
		return errors.Wrapf(err, "failed to stat file retrieved from %s/%s", bucket, key)
	} else if info.Size == 0 {
		reader.Close()
		return errors.Errorf("object %s/%s returned empty object from storage", bucket, key)
	}
	return out(info.Size, objectFilename(key), reader)
}

func (c *MinioClient) Attachment(ref string) (client.Attachment, error) {
	bucket, key, err := ParseObjectRef(ref)
	if err != nil {
		return nil, err
	}
	return &objectAttachment{store: c, bucket: bucket, key: key}, nil
}

// ParseObjectRef splits minio://bucket/path/to/key into bucket and key.
func ParseObjectRef(ref string) (bucket, key string, err error) {
	var parts collections.List[string]
	if !client.IsObjectRef(ref) {
		return "", "", errors.Errorf("%s is not an object reference", ref)
	} else if parts = strings.SplitN(strings.TrimPrefix(ref, client.ObjectRefScheme), "/", 2); parts.Size() < 2 {
		return "", "", errors.Errorf("object reference %s must name a bucket and a key", ref)
	} else if bucket, key = parts.First(), parts[1]; bucket == "" || strings.Trim(key, "/") == "" {
		return "", "", errors.Errorf("object reference %s must name a bucket and a key", ref)
	}
	return
}

func objectFilename(key string) string {
	return object.String(key).Split("/").Last()
}

type objectAttachment struct {
	store  *MinioClient
	bucket string
	key    string
}

func (a *objectAttachment) Filename() string {
	return objectFilename(a.key)
}

func (a *objectAttachment) Stat(ctx context.Context) (err error) {
	var info minio.ObjectInfo
	if info, err = a.store.StatObject(ctx, a.bucket, a.key, minio.StatObjectOptions{}); err != nil {
		return errors.Wrapf(err, "failed to stat %s/%s", a.bucket, a.key)
	} else if info.Size == 0 {
		return errors.Errorf("object %s/%s is empty", a.bucket, a.key)
	}
	return
}

func (a *objectAttachment) Open(ctx context.Context) (out io.ReadCloser, err error) {
	err = a.store.StreamObject(ctx, a.bucket, a.key, func(size int64, filename string, reader io.ReadCloser) error {
		a.store.log.WithFields(logrus.Fields{"bucket": a.bucket, "key": a.key, "size": size}).Debug("streaming attachment")
		out = reader
		return nil
	})
	return
}
