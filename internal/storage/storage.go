// Package storage resolves attachment file keys to publicly reachable
// object-store URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/xemlock/thumbnail-endpoint/internal/sizes"
)

// Resolution is a resolved asset location. Width and height are taken from
// the registered size when a sized variant resolves; zero otherwise.
type Resolution struct {
	URL    string
	Width  int
	Height int
}

// Resolver resolves an attachment file key plus an optional registered size
// name to a concrete location. A nil Resolution with nil error means the
// asset does not exist.
type Resolver interface {
	Resolve(ctx context.Context, fileKey, sizeName string) (*Resolution, error)
}

// Client is the minimal object-store surface the resolver needs.
type Client interface {
	ObjectURL(objectKey string) string
	CheckObject(ctx context.Context, objectKey string) (bool, error)
}

// S3Client checks and addresses objects in an S3 bucket.
type S3Client struct {
	client     *s3.Client
	bucketName string
	region     string
}

func NewS3Client(ctx context.Context, bucketName string) (*S3Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	return &S3Client{
		client:     s3.NewFromConfig(cfg),
		bucketName: bucketName,
		region:     cfg.Region,
	}, nil
}

func (sc *S3Client) ObjectURL(objectKey string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", sc.bucketName, sc.region, objectKey)
}

func (sc *S3Client) CheckObject(ctx context.Context, objectKey string) (bool, error) {
	_, err := sc.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(sc.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var re *smithyhttp.ResponseError
		if errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GCSClient checks and addresses objects in a Google Cloud Storage bucket.
type GCSClient struct {
	client     *gcs.Client
	bucketName string
}

func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	return &GCSClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (gc *GCSClient) ObjectURL(objectKey string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", gc.bucketName, objectKey)
}

func (gc *GCSClient) CheckObject(ctx context.Context, objectKey string) (bool, error) {
	_, err := gc.client.Bucket(gc.bucketName).Object(objectKey).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat object %s: %w", objectKey, err)
	}
	return true, nil
}

// ObjectResolver resolves file keys against an object store. Sized variants
// live next to the original under a "name-WxH.ext" key; a missing variant
// falls back to the original object.
type ObjectResolver struct {
	client Client
	folder string
	sizes  *sizes.Registry
}

func NewObjectResolver(client Client, folder string, registry *sizes.Registry) *ObjectResolver {
	return &ObjectResolver{
		client: client,
		folder: folder,
		sizes:  registry,
	}
}

func (o *ObjectResolver) Resolve(ctx context.Context, fileKey, sizeName string) (*Resolution, error) {
	if fileKey == "" {
		return nil, nil
	}

	if sizeName != "" {
		if sz, ok := o.sizes.Get(sizeName); ok {
			sizedKey := path.Join(o.folder, sizedFileKey(fileKey, sz))
			exists, err := o.client.CheckObject(ctx, sizedKey)
			if err != nil {
				return nil, err
			}
			if exists {
				return &Resolution{
					URL:    o.client.ObjectURL(sizedKey),
					Width:  sz.Width,
					Height: sz.Height,
				}, nil
			}
		}
	}

	originalKey := path.Join(o.folder, fileKey)
	exists, err := o.client.CheckObject(ctx, originalKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return &Resolution{URL: o.client.ObjectURL(originalKey)}, nil
}

// sizedFileKey derives the object key of a sized variant:
// "2024/photo.jpg" with 300x300 becomes "2024/photo-300x300.jpg".
func sizedFileKey(fileKey string, sz sizes.Size) string {
	ext := path.Ext(fileKey)
	base := strings.TrimSuffix(fileKey, ext)
	return fmt.Sprintf("%s-%dx%d%s", base, sz.Width, sz.Height, ext)
}
