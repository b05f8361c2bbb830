package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"faculty-hub/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client creates the S3 client used for content hero images.
func NewS3Client(cfg *config.Config) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.MediaS3URL,
				SigningRegion:     cfg.MediaS3Region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.MediaS3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.MediaS3Key, cfg.MediaS3Secret, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

// UploadImage uploads an image under the given key and returns its public
// URL.
func UploadImage(ctx context.Context, client *s3.Client, cfg *config.Config, key string, data []byte, contentType string) (string, error) {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(cfg.MediaS3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", cfg.MediaS3URL, cfg.MediaS3Bucket, key), nil
}

// DeleteImageByURL removes a previously uploaded image, given the public URL
// returned by UploadImage. Unknown URLs are ignored.
func DeleteImageByURL(ctx context.Context, client *s3.Client, cfg *config.Config, imageURL string) error {
	prefix := fmt.Sprintf("%s/%s/", cfg.MediaS3URL, cfg.MediaS3Bucket)
	if !strings.HasPrefix(imageURL, prefix) {
		return nil
	}
	key := strings.TrimPrefix(imageURL, prefix)
	if key == "" {
		return nil
	}
	_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(cfg.MediaS3Bucket),
		Key:    aws.String(key),
	})
	return err
}
