package cas

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/zerr"
)

// ErrRemoteMiss is returned by a Remote when an object does not exist.
var ErrRemoteMiss = errors.New("remote object not found")

const defaultRegion = "us-east-1"

// Remote is a shared object store behind the local cache.
type Remote interface {
	// Get returns the object stored under name, or ErrRemoteMiss.
	Get(ctx context.Context, name string) ([]byte, error)
	// Put stores data under name.
	Put(ctx context.Context, name string, data []byte) error
}

// MinioRemote stores cache entries in an S3-compatible bucket.
type MinioRemote struct {
	client *minio.Client
	bucket string
	prefix string
	region string

	initOnce sync.Once
	initErr  error
}

// NewMinioRemote creates a client for the bucket described by settings.
func NewMinioRemote(settings domain.RemoteCacheSettings) (*MinioRemote, error) {
	endpoint := strings.TrimSpace(settings.Endpoint)
	bucket := strings.TrimSpace(settings.Bucket)
	if endpoint == "" || bucket == "" {
		return nil, zerr.With(zerr.New("remote cache needs an endpoint and a bucket"), "endpoint", endpoint)
	}
	region := strings.TrimSpace(settings.Region)
	if region == "" {
		region = defaultRegion
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(settings.AccessKey, settings.SecretKey, ""),
		Secure: !settings.Insecure,
		Region: region,
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create remote cache client")
	}

	return &MinioRemote{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(settings.Prefix, "/"),
		region: region,
	}, nil
}

func (r *MinioRemote) ensureBucket(ctx context.Context) error {
	r.initOnce.Do(func() {
		exists, err := r.client.BucketExists(ctx, r.bucket)
		if err != nil {
			r.initErr = err
			return
		}
		if exists {
			return
		}
		r.initErr = r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{Region: r.region})
	})
	return r.initErr
}

func (r *MinioRemote) objectName(name string) string {
	if r.prefix == "" {
		return name
	}
	return path.Join(r.prefix, name)
}

// Get implements Remote.
func (r *MinioRemote) Get(ctx context.Context, name string) ([]byte, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return nil, zerr.Wrap(err, "failed to ensure remote cache bucket")
	}

	obj, err := r.client.GetObject(ctx, r.bucket, r.objectName(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, missOr(err)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, missOr(err)
	}
	return data, nil
}

// Put implements Remote.
func (r *MinioRemote) Put(ctx context.Context, name string, data []byte) error {
	if err := r.ensureBucket(ctx); err != nil {
		return zerr.Wrap(err, "failed to ensure remote cache bucket")
	}
	_, err := r.client.PutObject(ctx, r.bucket, r.objectName(name), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return zerr.Wrap(err, "failed to upload cache object")
	}
	return nil
}

func missOr(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return ErrRemoteMiss
	}
	return zerr.Wrap(err, "failed to download cache object")
}
