// Package backup archives snapshot and report files to an S3-compatible
// bucket at shutdown. The archive is best-effort: failures are logged and
// never block process exit.
package backup

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"supplytrack/internal/config"
	"supplytrack/internal/logging"
)

var (
	nowFn = time.Now

	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// Archiver uploads files to the configured bucket under a per-run prefix
// such as "archive/2025/03/14/".
type Archiver struct {
	config *config.Config
	log    logging.Logger
}

func NewArchiver(cfg *config.Config, log logging.Logger) *Archiver {
	return &Archiver{config: cfg, log: log}
}

func (a *Archiver) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(a.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.config.S3RootUser,     // MINIO_ROOT_USER
			a.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(a.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func (a *Archiver) keyPrefix() string {
	d := nowFn().UTC()
	return fmt.Sprintf("archive/%04d/%02d/%02d", d.Year(), d.Month(), d.Day())
}

// Archive uploads every existing file in paths. Missing files are skipped
// silently (a report may never have been exported). The first upload error
// is returned after being logged; callers treat it as advisory.
func (a *Archiver) Archive(ctx context.Context, paths ...string) error {
	if !a.config.S3Enabled() {
		return nil
	}

	client, err := a.getClient()
	if err != nil {
		a.log.Warn(ctx, "offsite archive unavailable", "error", err)
		return err
	}

	prefix := a.keyPrefix()
	for _, p := range paths {
		if err := a.uploadFile(ctx, client, prefix, p); err != nil {
			a.log.Warn(ctx, "offsite archive upload failed", "path", p, "error", err)
			return err
		}
	}

	a.log.Info(ctx, "offsite archive complete", "bucket", a.config.S3Bucket, "prefix", prefix)
	return nil
}

func (a *Archiver) uploadFile(ctx context.Context, client *s3.Client, prefix, filePath string) error {
	f, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	key := path.Join(prefix, path.Base(filePath))
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.config.S3Bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	return err
}
