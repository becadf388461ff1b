package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mediatube/accounts/internal/common"
	sc "github.com/mediatube/accounts/internal/server/config"
	"github.com/mediatube/accounts/internal/server/repositories/users"
)

// ImageKind selects which profile image an upload targets.
type ImageKind string

const (
	ImageAvatar ImageKind = "avatars"
	ImageCover  ImageKind = "covers"
)

// seams for testing the presign path without a live S3 endpoint
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// MediaService issues presigned upload URLs for profile images and records
// the uploaded object on the account. Binary traffic never passes through
// this service; clients PUT directly to object storage.
type MediaService struct {
	repo   users.Repository
	config *sc.Config
}

func NewMediaService(repo users.Repository, config *sc.Config) *MediaService {
	return &MediaService{
		repo:   repo,
		config: config,
	}
}

func storageKey(kind ImageKind) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%d/%d/%v", kind, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *MediaService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a fresh storage key and a presigned PUT URL the
// client can upload the image to.
func (s *MediaService) PresignUpload(ctx context.Context, kind ImageKind) (string, string, error) {

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := storageKey(kind)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))

	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// ConfirmUpload records the uploaded object on the account and returns the
// public object URL. The key must belong to the given image kind.
func (s *MediaService) ConfirmUpload(ctx context.Context, userID string, kind ImageKind, key string) (string, error) {

	if key == "" || !strings.HasPrefix(key, string(kind)+"/") {
		return "", common.ErrorValidation
	}

	url := s.objectURL(key)

	var err error
	switch kind {
	case ImageAvatar:
		err = s.repo.UpdateAvatar(ctx, userID, url)
	case ImageCover:
		err = s.repo.UpdateCoverImage(ctx, userID, url)
	default:
		return "", common.ErrorValidation
	}

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", common.ErrorInternal
	}

	return url, nil
}

func (s *MediaService) objectURL(key string) string {
	base := strings.TrimSuffix(s.config.S3BaseEndpoint, "/")
	return fmt.Sprintf("%s/%s/%s", base, s.config.S3Bucket, key)
}
