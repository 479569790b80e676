package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"nutriplan"
)

// S3Archive implements PlanArchive backed by S3

type S3Archive struct {
	bucket string
	prefix string
	s3     s3PutObjectAPI
}

type s3PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func NewS3Archive(s3Client *s3.Client, bucket, prefix string) *S3Archive {
	return &S3Archive{
		bucket: bucket,
		prefix: prefix,
		s3:     s3Client,
	}
}

func (a *S3Archive) Save(ctx context.Context, plan *nutriplan.MultiDayMealPlan) error {
	if plan == nil || plan.ID == "" {
		return fmt.Errorf("cannot archive plan without an ID")
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan %s: %w", plan.ID, err)
	}

	key := path.Join(a.prefix, plan.ID+".json")
	_, err = a.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put plan object to S3: %w", err)
	}
	return nil
}
