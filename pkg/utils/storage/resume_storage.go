package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const (
	MaxResumeSize     = 5 * 1024 * 1024 // 5MB
	DownloadURLExpiry = 15 * time.Minute
)

var allowedTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

func getS3Client() (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(bucketRegion()),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("S3_ACCESS_KEY"),
			os.Getenv("S3_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	return s3.NewFromConfig(cfg), nil
}

func bucketName() string {
	if name := os.Getenv("S3_BUCKET"); name != "" {
		return name
	}
	return "jobportal-resumes"
}

func bucketRegion() string {
	if region := os.Getenv("S3_REGION"); region != "" {
		return region
	}
	return "ap-south-1"
}

// UploadResume stores a candidate's resume file and returns its object key.
func UploadResume(file *multipart.FileHeader, userID uint) (string, error) {
	if file.Size > MaxResumeSize {
		return "", fmt.Errorf("file size too large. Maximum size is %d bytes", MaxResumeSize)
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedTypes[contentType] {
		return "", fmt.Errorf("invalid file type. Allowed types are: pdf, docx")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	objectKey := fmt.Sprintf("resumes/%d/%s%s", userID, uuid.New().String(), filepath.Ext(file.Filename))

	client, err := getS3Client()
	if err != nil {
		return "", err
	}

	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucketName()),
		Key:         aws.String(objectKey),
		Body:        src,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload to S3: %v", err)
	}

	return objectKey, nil
}

// PresignResumeURL returns a short-lived download URL for a stored resume.
func PresignResumeURL(objectKey string) (string, error) {
	client, err := getS3Client()
	if err != nil {
		return "", err
	}

	presigner := s3.NewPresignClient(client)
	req, err := presigner.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(bucketName()),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(DownloadURLExpiry))
	if err != nil {
		return "", fmt.Errorf("could not presign resume URL: %v", err)
	}

	return req.URL, nil
}
