package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// UploadTimeout bounds a single S3 upload
const UploadTimeout = 30 * time.Second

// ErrMissingBucket is returned when an S3 sink has no bucket configured
var ErrMissingBucket = errors.New("s3 bucket not configured")

// Sink stores a rendered image under a name
type Sink interface {
	Write(ctx context.Context, name string, img *renderer.Image) error
}

// FileSink writes images to the local filesystem. The format is taken from the
// name's extension; names without one get Format appended.
type FileSink struct {
	Dir    string
	Format Format
	Logger core.Logger
}

// NewFileSink creates a sink rooted at dir
func NewFileSink(dir string, format Format, logger core.Logger) *FileSink {
	if logger == nil {
		logger = renderer.NewDefaultLogger()
	}
	return &FileSink{Dir: dir, Format: format, Logger: logger}
}

// Write encodes img and writes it to Dir/name, creating directories as needed
func (fs *FileSink) Write(ctx context.Context, name string, img *renderer.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	format := fs.Format
	if filepath.Ext(name) == "" {
		name += format.Extension()
	} else {
		parsed, err := FormatFromPath(name)
		if err != nil {
			return err
		}
		format = parsed
	}

	filename := filepath.Join(fs.Dir, name)
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	if err := Encode(file, img, format); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filename, err)
	}

	fs.Logger.Printf("Saved %s (%dx%d, %s)\n", filename, img.Width, img.Height, format)
	return nil
}

// Uploader is the part of the S3 client used by S3Sink
type Uploader interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// S3Config holds the connection settings for an S3-compatible store
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Enabled reports whether a bucket is configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// S3Sink uploads encoded images to a bucket
type S3Sink struct {
	uploader Uploader
	bucket   string
	prefix   string
	format   Format
	logger   core.Logger
}

// NewS3Sink creates a session from config and returns a sink using it
func NewS3Sink(config S3Config, format Format, logger core.Logger) (*S3Sink, error) {
	if !config.Enabled() {
		return nil, ErrMissingBucket
	}

	awsConfig := &aws.Config{
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return NewS3SinkWithUploader(s3.New(sess), config.Bucket, config.Prefix, format, logger), nil
}

// NewS3SinkWithUploader wraps an existing uploader
func NewS3SinkWithUploader(uploader Uploader, bucket, prefix string, format Format, logger core.Logger) *S3Sink {
	if logger == nil {
		logger = renderer.NewDefaultLogger()
	}
	return &S3Sink{uploader: uploader, bucket: bucket, prefix: prefix, format: format, logger: logger}
}

// Key returns the object key used for name
func (s *S3Sink) Key(name string) string {
	if path.Ext(name) == "" {
		name += s.format.Extension()
	}
	return path.Join(s.prefix, name)
}

// Write encodes img and uploads it
func (s *S3Sink) Write(ctx context.Context, name string, img *renderer.Image) error {
	key := s.Key(name)
	format, err := FormatFromPath(key)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(buf.Len())
	_, err = s.uploader.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(format.ContentType()),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	s.logger.Printf("Uploaded %s to s3://%s (%d bytes)\n", key, s.bucket, size)
	return nil
}

// MultiSink writes to every sink in order, stopping at the first failure
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, name string, img *renderer.Image) error {
	for _, sink := range m {
		if err := sink.Write(ctx, name, img); err != nil {
			return err
		}
	}
	return nil
}
