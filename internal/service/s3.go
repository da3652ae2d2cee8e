package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"tush00nka/dream_homes/internal/config"
	"tush00nka/dream_homes/internal/model"
)

type S3Service struct {
	bucket   string
	folder   string
	uploader *manager.Uploader
	s3Client *s3.Client
}

func NewS3Service(ctx context.Context, cfg *config.Config) (*S3Service, error) {
	if cfg.S3BucketName == "" {
		return nil, fmt.Errorf("S3_BUCKET_NAME is required for image uploads")
	}

	s3Opts := []func(*s3.Options){}

	if cfg.S3Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true // MinIO
		})
	}

	var awsCfg aws.Config
	if cfg.S3AccessKeyID != "" {
		awsCfg = aws.Config{
			Region: cfg.S3Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.S3AccessKeyID,
				cfg.S3SecretAccessKey,
				"",
			),
		}
	} else {
		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
	}

	s3Client := s3.NewFromConfig(awsCfg, s3Opts...)

	service := &S3Service{
		bucket:   cfg.S3BucketName,
		folder:   cfg.ImageFolder,
		uploader: manager.NewUploader(s3Client),
		s3Client: s3Client,
	}

	log.Printf("S3 image storage initialized: bucket=%s endpoint=%s", cfg.S3BucketName, cfg.S3Endpoint)
	return service, nil
}

func (s *S3Service) UploadFile(ctx context.Context, file io.Reader, filename, contentType string) (*model.FileMetadata, error) {
	fileID := uuid.New().String()
	s3Key := path.Join(s.folder, fileID, filename)

	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s3Key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	log.Printf("Image uploaded: %s", result.Location)

	return &model.FileMetadata{
		ID:          fileID,
		Filename:    filename,
		ContentType: contentType,
		S3Key:       s3Key,
		S3Bucket:    s.bucket,
		URL:         result.Location,
		CreatedAt:   time.Now(),
	}, nil
}

func (s *S3Service) HealthCheck(ctx context.Context) error {
	_, err := s.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}
	return nil
}
