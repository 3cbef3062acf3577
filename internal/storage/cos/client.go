// Package cos implements storage.Service on Tencent Cloud Object Storage.
// COS speaks the S3 API, so the backend talks to it through minio-go; any other
// S3-compatible endpoint (a local MinIO, for instance) works for development.
package cos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ovsx/storage/internal/config"
	"github.com/ovsx/storage/internal/storage"
)

// Part is one uploaded part of a multipart upload.
type Part struct {
	Number int
	ETag   string
}

// IncompleteUpload is a multipart upload that was started but never completed or aborted.
type IncompleteUpload struct {
	Key       string
	UploadID  string
	Initiated time.Time
}

// objectAPI is the capability set of the remote store. Errors are raw SDK errors.
type objectAPI interface {
	PutObject(ctx context.Context, key string, r io.Reader, size int64, meta storage.Metadata) error
	NewMultipartUpload(ctx context.Context, key string, meta storage.Metadata) (string, error)
	PutObjectPart(ctx context.Context, key, uploadID string, number int, r io.Reader, size int64) (Part, error)
	CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []Part) error
	AbortMultipartUpload(ctx context.Context, key, uploadID string) error
	// GetObject reads length bytes from offset; a negative length reads to the end.
	GetObject(ctx context.Context, key string, offset, length int64) (io.ReadCloser, error)
	StatObject(ctx context.Context, key string) (int64, error)
	RemoveObject(ctx context.Context, key string) error
	CopyObject(ctx context.Context, srcKey, dstKey string) error
	ListIncompleteUploads(ctx context.Context, prefix string) ([]IncompleteUpload, error)
}

// Client is the connection to one bucket. The underlying SDK client is built
// on first use and shared by every later call; every failure it returns is a
// *storage.Error.
type Client struct {
	api func() (objectAPI, error)
}

// NewClient returns a Client for cfg. No connection is made until the first call.
func NewClient(cfg config.StorageConfig) *Client {
	return &Client{
		api: sync.OnceValues(func() (objectAPI, error) {
			return newMinioAPI(cfg)
		}),
	}
}

func newClientWithAPI(api objectAPI) *Client {
	return &Client{api: func() (objectAPI, error) { return api, nil }}
}

// APIHost returns the S3 API host for region, i.e. cos.<region>.myqcloud.com.
func APIHost(region string) string {
	return fmt.Sprintf("cos.%s.myqcloud.com", region)
}

type minioAPI struct {
	core   *minio.Core
	bucket string
}

func newMinioAPI(cfg config.StorageConfig) (*minioAPI, error) {
	host := APIHost(cfg.Region)
	secure := true
	lookup := minio.BucketLookupDNS
	if cfg.APIEndpoint != "" {
		u, err := url.Parse(cfg.APIEndpoint)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid COS API endpoint %q", cfg.APIEndpoint)
		}
		host = u.Host
		secure = u.Scheme != "http"
		lookup = minio.BucketLookupAuto
	}
	core, err := minio.NewCore(host, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.SecretID, cfg.SecretKey, ""),
		Secure:       secure,
		Region:       cfg.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, fmt.Errorf("create cos client: %w", err)
	}
	return &minioAPI{core: core, bucket: cfg.BucketName}, nil
}

func putOptions(meta storage.Metadata) minio.PutObjectOptions {
	return minio.PutObjectOptions{
		ContentType:        meta.ContentType,
		CacheControl:       meta.CacheControl(),
		ContentDisposition: meta.ContentDisposition(),
	}
}

func (a *minioAPI) PutObject(ctx context.Context, key string, r io.Reader, size int64, meta storage.Metadata) error {
	_, err := a.core.PutObject(ctx, a.bucket, key, r, size, "", "", putOptions(meta))
	return err
}

func (a *minioAPI) NewMultipartUpload(ctx context.Context, key string, meta storage.Metadata) (string, error) {
	return a.core.NewMultipartUpload(ctx, a.bucket, key, putOptions(meta))
}

func (a *minioAPI) PutObjectPart(ctx context.Context, key, uploadID string, number int, r io.Reader, size int64) (Part, error) {
	p, err := a.core.PutObjectPart(ctx, a.bucket, key, uploadID, number, r, size, minio.PutObjectPartOptions{})
	if err != nil {
		return Part{}, err
	}
	return Part{Number: p.PartNumber, ETag: p.ETag}, nil
}

func (a *minioAPI) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []Part) error {
	complete := make([]minio.CompletePart, 0, len(parts))
	for _, p := range parts {
		complete = append(complete, minio.CompletePart{PartNumber: p.Number, ETag: p.ETag})
	}
	_, err := a.core.CompleteMultipartUpload(ctx, a.bucket, key, uploadID, complete, minio.PutObjectOptions{})
	return err
}

func (a *minioAPI) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	return a.core.AbortMultipartUpload(ctx, a.bucket, key, uploadID)
}

func (a *minioAPI) GetObject(ctx context.Context, key string, offset, length int64) (io.ReadCloser, error) {
	opts := minio.GetObjectOptions{}
	if length >= 0 {
		if err := opts.SetRange(offset, offset+length-1); err != nil {
			return nil, err
		}
	}
	body, _, _, err := a.core.GetObject(ctx, a.bucket, key, opts)
	return body, err
}

func (a *minioAPI) StatObject(ctx context.Context, key string) (int64, error) {
	info, err := a.core.StatObject(ctx, a.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

func (a *minioAPI) RemoveObject(ctx context.Context, key string) error {
	return a.core.RemoveObject(ctx, a.bucket, key, minio.RemoveObjectOptions{})
}

func (a *minioAPI) CopyObject(ctx context.Context, srcKey, dstKey string) error {
	_, err := a.core.Client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: a.bucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: a.bucket, Object: srcKey},
	)
	return err
}

func (a *minioAPI) ListIncompleteUploads(ctx context.Context, prefix string) ([]IncompleteUpload, error) {
	var out []IncompleteUpload
	for info := range a.core.Client.ListIncompleteUploads(ctx, a.bucket, prefix, true) {
		if info.Err != nil {
			return nil, info.Err
		}
		out = append(out, IncompleteUpload{Key: info.Key, UploadID: info.UploadID, Initiated: info.Initiated})
	}
	return out, nil
}

// classify maps an SDK error to the storage error taxonomy.
func classify(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var se *storage.Error
	if errors.As(err, &se) {
		return err
	}
	resp := minio.ToErrorResponse(err)
	if resp.Code != "" || resp.StatusCode != 0 {
		return storage.NewError(op, key, storage.KindService, err)
	}
	return storage.NewError(op, key, storage.KindTransport, err)
}

func isNotFound(err error) bool {
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}

func (c *Client) conn(op, key string) (objectAPI, error) {
	api, err := c.api()
	if err != nil {
		return nil, storage.NewError(op, key, storage.KindTransport, err)
	}
	return api, nil
}

// Put uploads r in a single request.
func (c *Client) Put(ctx context.Context, key string, r io.Reader, meta storage.Metadata) error {
	api, err := c.conn("put", key)
	if err != nil {
		return err
	}
	return classify("put", key, api.PutObject(ctx, key, r, meta.ContentLength, meta))
}

// NewMultipartUpload starts a multipart upload and returns its id.
func (c *Client) NewMultipartUpload(ctx context.Context, key string, meta storage.Metadata) (string, error) {
	api, err := c.conn("initiate multipart", key)
	if err != nil {
		return "", err
	}
	id, err := api.NewMultipartUpload(ctx, key, meta)
	return id, classify("initiate multipart", key, err)
}

// PutPart uploads part number of a multipart upload.
func (c *Client) PutPart(ctx context.Context, key, uploadID string, number int, r io.Reader, size int64) (Part, error) {
	api, err := c.conn("upload part", key)
	if err != nil {
		return Part{}, err
	}
	p, err := api.PutObjectPart(ctx, key, uploadID, number, r, size)
	if err != nil {
		return Part{}, classify(fmt.Sprintf("upload part %d", number), key, err)
	}
	return p, nil
}

// CompleteMultipartUpload assembles parts, which must be ordered by number.
func (c *Client) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []Part) error {
	api, err := c.conn("complete multipart", key)
	if err != nil {
		return err
	}
	return classify("complete multipart", key, api.CompleteMultipartUpload(ctx, key, uploadID, parts))
}

// AbortMultipartUpload discards the parts uploaded so far.
func (c *Client) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	api, err := c.conn("abort multipart", key)
	if err != nil {
		return err
	}
	return classify("abort multipart", key, api.AbortMultipartUpload(ctx, key, uploadID))
}

// Get opens a reader over length bytes from offset, or the whole object when length is negative.
func (c *Client) Get(ctx context.Context, key string, offset, length int64) (io.ReadCloser, error) {
	api, err := c.conn("get", key)
	if err != nil {
		return nil, err
	}
	body, err := api.GetObject(ctx, key, offset, length)
	if err != nil {
		return nil, classify("get", key, err)
	}
	return body, nil
}

// Stat returns the size of the object.
func (c *Client) Stat(ctx context.Context, key string) (int64, error) {
	api, err := c.conn("stat", key)
	if err != nil {
		return 0, err
	}
	size, err := api.StatObject(ctx, key)
	return size, classify("stat", key, err)
}

// Delete removes the object. A missing object is not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	api, err := c.conn("delete", key)
	if err != nil {
		return err
	}
	if err := api.RemoveObject(ctx, key); err != nil && !isNotFound(err) {
		return classify("delete", key, err)
	}
	return nil
}

// Copy duplicates srcKey to dstKey inside the bucket without moving bytes through this process.
func (c *Client) Copy(ctx context.Context, srcKey, dstKey string) error {
	api, err := c.conn("copy", srcKey)
	if err != nil {
		return err
	}
	return classify("copy", srcKey+" -> "+dstKey, api.CopyObject(ctx, srcKey, dstKey))
}

// ListIncompleteUploads returns the unfinished multipart uploads whose key starts with prefix.
func (c *Client) ListIncompleteUploads(ctx context.Context, prefix string) ([]IncompleteUpload, error) {
	api, err := c.conn("list uploads", prefix)
	if err != nil {
		return nil, err
	}
	uploads, err := api.ListIncompleteUploads(ctx, prefix)
	return uploads, classify("list uploads", prefix, err)
}

// Endpoint returns the public base URL of the bucket. An explicit endpoint is
// used verbatim when it ends with '/'; anything else falls back to the
// canonical https://<bucket>.cos.<region>.myqcloud.com/.
func Endpoint(endpoint, bucket, region string) string {
	if endpoint != "" && strings.HasSuffix(endpoint, "/") {
		return endpoint
	}
	return fmt.Sprintf("https://%s.cos.%s.myqcloud.com/", bucket, region)
}
