// Package storagekey builds object keys and public object URLs for uploaded
// documents. Both the intermediary and its tests go through here so the
// layout is defined once.
package storagekey

import (
	"fmt"
	"strings"
	"time"

	"github.com/shipseva/docupload/internal/common"
)

// Build returns {folder}/{documentType}/{unixMillis}_{fileName}. An empty
// folder falls back to common.DefaultFolder. Two requests for the same file
// name at distinct milliseconds never collide.
func Build(folder, documentType, fileName string, at time.Time) string {
	if folder == "" {
		folder = common.DefaultFolder
	}
	return fmt.Sprintf("%s/%s/%d_%s", folder, documentType, at.UnixMilli(), fileName)
}

// VirtualHostedURL is the public AWS URL of key in bucket.
func VirtualHostedURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}

// PathStyleURL is the public URL of key on an S3-compatible endpoint that
// addresses buckets by path (MinIO and friends).
func PathStyleURL(endpoint, bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(endpoint, "/"), bucket, key)
}

// PrefixedURL joins an operator supplied public base (CDN, custom domain) and key.
func PrefixedURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
