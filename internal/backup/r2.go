// Package backup uploads day-close snapshots to Cloudflare R2 via the S3 API.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Snapshots uploads closed-day ledger snapshots to an R2 bucket under
// snapshots/<date>.json so a closed day can be audited even if the database
// is lost.
type R2Snapshots struct {
	client *s3.Client
	bucket string
}

// New builds an R2 client from static credentials. Returns an error when the
// endpoint or credentials are incomplete.
func New(ctx context.Context, endpoint, accessKey, secretKey, bucket, region string) (*R2Snapshots, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		return nil, fmt.Errorf("incomplete R2 backup configuration")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure R2 client: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &R2Snapshots{client: client, bucket: bucket}, nil
}

// UploadDaySnapshot stores the day's ledger JSON at snapshots/<date>.json.
func (r *R2Snapshots) UploadDaySnapshot(ctx context.Context, date string, payload []byte) error {
	key := fmt.Sprintf("snapshots/%s.json", date)

	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}

	log.Printf("[Backup] Uploaded day snapshot %s (%d bytes)", key, len(payload))
	return nil
}
