package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/receptive/reviews-backend/internal/config"
)

var MinioClient *minio.Client

var (
	bucketName string
	publicURL  string
)

// InitMinio connects to MinIO and ensures the image bucket exists with a
// public read policy, since stored image URLs are served directly to
// browsers.
func InitMinio(cfg *config.Config) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	bucketName = cfg.MinioBucket
	publicURL = cfg.MinioPublicURL

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		log.Printf("Warning: Failed to check bucket existence: %v", err)
	} else if !exists {
		err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			log.Printf("Warning: Failed to create bucket: %v", err)
		} else {
			log.Printf("Created bucket: %s", bucketName)
		}

		policy := fmt.Sprintf(`{
			"Version": "2012-10-17",
			"Statement": [{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}]
		}`, bucketName)
		if err := client.SetBucketPolicy(ctx, bucketName, policy); err != nil {
			log.Printf("Warning: Failed to set bucket policy: %v", err)
		}
	}

	MinioClient = client
	fmt.Println("✅ Connected to MinIO")
}

// PutImage uploads one object and returns its stable public URL.
func PutImage(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := MinioClient.PutObject(ctx, bucketName, objectName, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to storage: %w", err)
	}
	return ObjectURL(objectName), nil
}

// ObjectURL builds the externally reachable URL for an object.
func ObjectURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", publicURL, bucketName, objectName)
}
