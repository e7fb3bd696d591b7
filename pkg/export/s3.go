package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/nfnt/resize"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
)

const (
	// UploadTimeout bounds a single object upload.
	UploadTimeout = 10 * time.Second
	// ThumbnailBound is the box published thumbnails must fit in.
	ThumbnailBound = 512
)

// Config holds the S3-compatible target for published renders
type Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string // key prefix inside the bucket, may be empty
}

// Publisher uploads rendered images to an S3-compatible object store
type Publisher struct {
	client *s3.S3
	config Config
	logger core.Logger
}

// NewPublisher connects a publisher to the configured bucket. A nil
// logger suppresses upload notices.
func NewPublisher(cfg Config, logger core.Logger) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("export: no bucket configured")
	}
	if logger == nil {
		logger = core.SilentLogger{}
	}

	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("export: creating S3 session: %w", err)
	}

	return &Publisher{
		client: s3.New(sess),
		config: cfg,
		logger: logger,
	}, nil
}

// Key returns the bucket key for a published object name
func (p *Publisher) Key(name string) string {
	return path.Join(p.config.Prefix, name)
}

// Thumbnail scales an image down to fit the thumbnail box, preserving
// its aspect ratio. Images already inside the box pass through.
func Thumbnail(img image.Image) image.Image {
	return resize.Thumbnail(ThumbnailBound, ThumbnailBound, img, resize.Bilinear)
}

// PublishPNG encodes img as PNG and uploads it under name
func (p *Publisher) PublishPNG(ctx context.Context, img image.Image, name string) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("export: encoding %s: %w", name, err)
	}
	return p.upload(ctx, buf.Bytes(), p.Key(name))
}

// PublishThumbnail uploads a thumbnail-sized copy of img under name
func (p *Publisher) PublishThumbnail(ctx context.Context, img image.Image, name string) error {
	return p.PublishPNG(ctx, Thumbnail(img), name)
}

func (p *Publisher) upload(ctx context.Context, data []byte, key string) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("image/png"),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return fmt.Errorf("export: uploading %s: %w", key, err)
	}

	p.logger.Printf("Uploaded %s (%d bytes)\n", key, size)
	return nil
}
