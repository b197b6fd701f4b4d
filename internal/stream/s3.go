// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/GiowGiow/dlbird/pkg/dlbird"
)

// S3HeadAPI is the slice of the S3 client used for handle resolution.
type S3HeadAPI interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// resolveS3 checks an s3://bucket[/key] reference. Credentials and region
// come from the ambient AWS configuration (env, shared config, IMDS).
func (r *Resolver) resolveS3(ctx context.Context, ref string) (string, error) {
	bucket, key, err := parseS3Ref(ref)
	if err != nil {
		return "", err
	}

	api := r.S3
	if api == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return "", fmt.Errorf("load AWS config: %w", err)
		}
		api = s3.NewFromConfig(cfg)
	}

	if key == "" {
		_, err = api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	} else {
		_, err = api.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	}
	if err != nil {
		return "", fmt.Errorf("stream %s: %w: %v", ref, dlbird.ErrNotFound, err)
	}
	return ref, nil
}

// parseS3Ref splits s3://bucket/key/path into bucket and key.
func parseS3Ref(ref string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(ref, "s3://")
	if rest == ref || rest == "" {
		return "", "", fmt.Errorf("invalid s3 reference %q (expected s3://bucket[/key])", ref)
	}
	parts := strings.SplitN(rest, "/", 2)
	bucket = parts[0]
	if bucket == "" {
		return "", "", fmt.Errorf("invalid s3 reference %q: empty bucket", ref)
	}
	if len(parts) == 2 {
		key = parts[1]
	}
	return bucket, key, nil
}
