package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	imageutil "automatehub_backend/pkg/utils/image"
)

const (
	BucketName = "automatehub-assets"
	Region     = "eu-central-1"
)

var s3Client *s3.Client

func InitStorage() error {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(Region),
	)
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %v", err)
	}

	s3Client = s3.NewFromConfig(cfg)
	return nil
}

// UploadProductThumbnail re-encodes the image and uploads it under the
// product's key, returning the public URL to reference from the catalog.
func UploadProductThumbnail(file *multipart.FileHeader, productID string) (string, error) {
	buf, contentType, err := imageutil.ProcessImage(file)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("products/%s/%d_%s",
		productID,
		time.Now().Unix(),
		filepath.Base(file.Filename),
	)

	_, err = s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
	})

	if err != nil {
		return "", fmt.Errorf("could not upload to S3: %v", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", BucketName, Region, fileName), nil
}

// DeleteThumbnail removes an asset by its public URL.
func DeleteThumbnail(assetURL string) error {
	parts := strings.Split(assetURL, "/")
	key := strings.Join(parts[3:], "/")

	_, err := s3Client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(BucketName),
		Key:    aws.String(key),
	})

	return err
}
