package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// UploadService hands out pre-signed S3 URLs for the RCCM document a
// startuper attaches when founding a startup.
type UploadService struct {
	s3Client *s3.Client
	s3Bucket string
}

// NewUploadService creates a new upload service.
func NewUploadService(awsRegion, s3Bucket, accessKey, secretKey, endpoint string) (*UploadService, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(awsRegion),
	}
	if accessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &UploadService{
		s3Client: s3Client,
		s3Bucket: s3Bucket,
	}, nil
}

// UploadResponse carries a pre-signed upload URL.
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
	ExpiresIn int    `json:"expires_in"`
}

// PresignRCCM generates a pre-signed PUT URL for an RCCM PDF. The caller
// stores the returned object key on the startup record after uploading.
func (s *UploadService) PresignRCCM(ctx context.Context, contentType string) (*UploadResponse, error) {
	key := fmt.Sprintf("rccm/%s.pdf", uuid.New().String())

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 5 * time.Minute
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		ObjectKey: key,
		ExpiresIn: 300,
	}, nil
}
