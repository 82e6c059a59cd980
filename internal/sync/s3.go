package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// snapshotContentType is the MIME type for JSONL snapshots.
const snapshotContentType = "application/x-ndjson"

// S3Config holds the settings for an S3-compatible backup target.
type S3Config struct {
	Bucket   string
	Key      string // object key for the snapshot, e.g. "ticklist/backup.jsonl"
	Region   string
	Endpoint string // non-empty enables path-style addressing (MinIO and similar)
}

// S3Destination uploads item snapshots produced by ExportJSONL to an
// S3-compatible bucket. Each upload overwrites the configured object
// key; the export header is surfaced as object metadata so a backup can
// be inspected without downloading it.
type S3Destination struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Destination creates an S3 destination from cfg.
func NewS3Destination(ctx context.Context, cfg S3Config) (*S3Destination, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Destination{
		client: s3.NewFromConfig(awsCfg, opts...),
		cfg:    cfg,
	}, nil
}

// Write uploads one JSONL snapshot.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.cfg.Bucket),
		Key:         aws.String(d.cfg.Key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(snapshotContentType),
		Metadata:    snapshotMetadata(data),
	})
	if err != nil {
		return fmt.Errorf("s3 put object %s/%s: %w", d.cfg.Bucket, d.cfg.Key, err)
	}
	return nil
}

// snapshotMetadata reads the export header from the snapshot's first
// line and returns it as S3 object metadata. A snapshot without a
// parseable header gets no metadata rather than a failed upload.
func snapshotMetadata(data []byte) map[string]string {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	var hdr header
	if err := json.Unmarshal(line, &hdr); err != nil || hdr.Type != "header" {
		return nil
	}
	return map[string]string{
		"snapshot-version":   hdr.Version,
		"snapshot-items":     strconv.Itoa(hdr.ItemCount),
		"snapshot-timestamp": hdr.Timestamp.UTC().Format(time.RFC3339),
	}
}
