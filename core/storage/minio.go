package storage

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultMinioEndpoint = "s3.amazonaws.com"

type minioClient struct {
	client *minio.Client
}

// NewMinioClient creates a MinIO-backed client for an S3-compatible endpoint.
func NewMinioClient(cfg BucketConfig) (Client, error) {
	// Minio expects endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	if endpoint == "" {
		endpoint = defaultMinioEndpoint
	}

	timeout := timeoutOf(cfg)

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	// Minio connects lazily; the first operation surfaces connectivity errors.

	return &minioClient{client: client}, nil
}

func (c *minioClient) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return c.client.BucketExists(ctx, bucketName)
}

func (c *minioClient) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts PutOptions) (UploadInfo, error) {
	// x-amz-* metadata keys are sent as request headers, not as x-amz-meta-*.
	info, err := c.client.PutObject(ctx, bucketName, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: map[string]string{"x-amz-acl": string(opts.ACL)},
	})
	if err != nil {
		return UploadInfo{}, err
	}
	return UploadInfo{Key: info.Key, ETag: info.ETag, Size: info.Size}, nil
}

func (c *minioClient) PresignGet(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	u, err := c.client.PresignedGetObject(ctx, bucketName, objectName, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (c *minioClient) RemoveObject(ctx context.Context, bucketName, objectName string) error {
	return c.client.RemoveObject(ctx, bucketName, objectName, minio.RemoveObjectOptions{})
}

func (c *minioClient) ListObjects(ctx context.Context, bucketName, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for obj := range c.client.ListObjects(ctx, bucketName, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		objects = append(objects, ObjectInfo{Key: obj.Key, Size: obj.Size})
	}
	return objects, nil
}
