package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"foodgram/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type (
	// ImageStorage stores base64 uploads and hands back a public URL.
	ImageStorage interface {
		UploadBase64Image(ctx context.Context, folder string, payload string) (string, error)
		DeleteByLink(ctx context.Context, link string) error
	}

	AwsS3 struct {
		client  *s3.Client
		bucket  string
		baseURL string
	}
)

func NewAwsS3(ctx context.Context, cfg utils.Config) (*AwsS3, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSS3Region),
	}
	if cfg.AWSAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWSS3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSS3Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.AWSS3Bucket, cfg.AWSS3Region)
	if cfg.AWSS3Endpoint != "" {
		baseURL = fmt.Sprintf("%s/%s", strings.TrimRight(cfg.AWSS3Endpoint, "/"), cfg.AWSS3Bucket)
	}

	return &AwsS3{
		client:  client,
		bucket:  cfg.AWSS3Bucket,
		baseURL: baseURL,
	}, nil
}

func (a *AwsS3) UploadBase64Image(ctx context.Context, folder string, payload string) (string, error) {
	img, err := DecodeBase64Image(payload)
	if err != nil {
		return "", err
	}

	objectKey := path.Join(folder, uuid.NewString()+img.Extension)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectKey, err)
	}

	return a.GetPublicLinkKey(objectKey), nil
}

func (a *AwsS3) DeleteByLink(ctx context.Context, link string) error {
	objectKey := a.GetObjectKeyFromLink(link)
	if objectKey == "" {
		return nil
	}
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (a *AwsS3) GetPublicLinkKey(objectKey string) string {
	return a.baseURL + "/" + objectKey
}

// GetObjectKeyFromLink returns "" for links that do not belong to this bucket.
func (a *AwsS3) GetObjectKeyFromLink(link string) string {
	prefix := a.baseURL + "/"
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}
