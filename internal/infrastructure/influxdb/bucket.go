package influxdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/domain"
)

// bucketPageSize is the page size used when scanning buckets by name.
const bucketPageSize = 100

// CreateBucket creates a bucket with the given name in the configured
// organisation.
//
// An existing bucket of the same name is not an error: the outcome is
// logged and created is false.
//
// Returns:
//   - created: true if a new bucket was made
//   - error: ErrStore wrapping the server error if the lookup or create failed
func (c *Client) CreateBucket(ctx context.Context, name string) (bool, error) {
	if !c.IsConnected() {
		return false, ErrNotConnected
	}

	existing, err := c.findBucket(ctx, name)
	if err == nil {
		c.logInfo("bucket already exists", "bucket", existing.Name)
		return false, nil
	}
	if !errors.Is(err, ErrBucketNotFound) {
		c.logError("bucket lookup failed", "bucket", name, "error", err)
		return false, err
	}

	org, err := c.client.OrganizationsAPI().FindOrganizationByName(ctx, c.cfg.Org)
	if err != nil {
		c.logError("organisation lookup failed", "org", c.cfg.Org, "error", err)
		return false, fmt.Errorf("%w: finding organisation %q: %w", ErrStore, c.cfg.Org, err)
	}

	if _, err := c.client.BucketsAPI().CreateBucketWithName(ctx, org, name); err != nil {
		c.logError("bucket create failed", "bucket", name, "error", err)
		return false, fmt.Errorf("%w: creating bucket %q: %w", ErrStore, name, err)
	}

	c.logInfo("bucket created", "bucket", name, "org", c.cfg.Org)
	return true, nil
}

// DeleteBucket deletes the bucket with the given name.
//
// Returns ErrBucketNotFound if no bucket of that name exists.
func (c *Client) DeleteBucket(ctx context.Context, name string) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	bucket, err := c.findBucket(ctx, name)
	if err != nil {
		if errors.Is(err, ErrBucketNotFound) {
			c.logWarn("bucket not found", "bucket", name)
		} else {
			c.logError("bucket lookup failed", "bucket", name, "error", err)
		}
		return err
	}

	if err := c.client.BucketsAPI().DeleteBucket(ctx, bucket); err != nil {
		c.logError("bucket delete failed", "bucket", name, "error", err)
		return fmt.Errorf("%w: deleting bucket %q: %w", ErrStore, name, err)
	}

	c.logInfo("bucket deleted", "bucket", name)
	return nil
}

// ListBuckets returns the names of all buckets visible to the token.
func (c *Client) ListBuckets(ctx context.Context) ([]string, error) {
	if !c.IsConnected() {
		return nil, ErrNotConnected
	}

	var names []string
	err := c.scanBuckets(ctx, func(b domain.Bucket) bool {
		names = append(names, b.Name)
		return true
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// findBucket returns the bucket with the exact given name.
func (c *Client) findBucket(ctx context.Context, name string) (*domain.Bucket, error) {
	var found *domain.Bucket
	err := c.scanBuckets(ctx, func(b domain.Bucket) bool {
		if b.Name == name {
			found = &b
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrBucketNotFound
	}
	return found, nil
}

// scanBuckets pages through all buckets, calling fn for each until fn
// returns false.
func (c *Client) scanBuckets(ctx context.Context, fn func(domain.Bucket) bool) error {
	for offset := 0; ; offset += bucketPageSize {
		page, err := c.client.BucketsAPI().GetBuckets(ctx,
			api.PagingWithLimit(bucketPageSize),
			api.PagingWithOffset(offset),
		)
		if err != nil {
			return fmt.Errorf("%w: listing buckets: %w", ErrStore, err)
		}
		if page == nil {
			return nil
		}
		for _, b := range *page {
			if !fn(b) {
				return nil
			}
		}
		if len(*page) < bucketPageSize {
			return nil
		}
	}
}

func (c *Client) logInfo(msg string, args ...any) {
	if l := c.getLogger(); l != nil {
		l.Info(msg, args...)
	}
}

func (c *Client) logWarn(msg string, args ...any) {
	if l := c.getLogger(); l != nil {
		l.Warn(msg, args...)
	}
}

func (c *Client) logError(msg string, args ...any) {
	if l := c.getLogger(); l != nil {
		l.Error(msg, args...)
	}
}
