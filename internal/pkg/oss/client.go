package oss

import (
	"bytes"
	"fmt"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/sahaaya/sahaaya_server/config"
)

type Client struct {
	client     *oss.Client
	bucket     *oss.Bucket
	bucketName string
	cdnDomain  string
}

func NewClient(cfg *config.OSSConfig) (*Client, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &Client{
		client:     client,
		bucket:     bucket,
		bucketName: cfg.BucketName,
		cdnDomain:  cfg.CDNDomain,
	}, nil
}

// UploadInvoice stores a rendered invoice and returns its public URL.
func (c *Client) UploadInvoice(userID int64, invoiceNumber string, data []byte) (string, error) {
	objectKey := fmt.Sprintf("invoices/%d/%s.html", userID, invoiceNumber)

	err := c.bucket.PutObject(objectKey, bytes.NewReader(data), oss.ContentType("text/html"))
	if err != nil {
		return "", fmt.Errorf("failed to upload invoice: %w", err)
	}

	return c.GetURL(objectKey), nil
}

// Delete removes an object.
func (c *Client) Delete(objectKey string) error {
	if err := c.bucket.DeleteObject(objectKey); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// GetURL builds the public URL, preferring the CDN domain when configured.
func (c *Client) GetURL(objectKey string) string {
	if c.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", c.cdnDomain, objectKey)
	}
	return fmt.Sprintf("https://%s.%s/%s", c.bucketName, endpointHost(c.client.Config.Endpoint), objectKey)
}

// SignedURL returns a temporary private link, for invoices in private buckets.
func (c *Client) SignedURL(objectKey string, expires time.Duration) (string, error) {
	return c.bucket.SignURL(objectKey, oss.HTTPGet, int64(expires.Seconds()))
}

func endpointHost(endpoint string) string {
	for _, prefix := range []string{"https://", "http://"} {
		if len(endpoint) > len(prefix) && endpoint[:len(prefix)] == prefix {
			return endpoint[len(prefix):]
		}
	}
	return endpoint
}
