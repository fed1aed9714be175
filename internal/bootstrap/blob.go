package bootstrap

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/logogen/logogen-backend/config"
	"github.com/logogen/logogen-backend/internal/storage/blob"
)

// OpenBlobStore selects the file store from STORAGE_BACKEND.
func OpenBlobStore(ctx context.Context, cfg *config.Config, app *firebase.App) (blob.Store, error) {
	sc := cfg.Storage
	switch sc.Backend {
	case "firebase":
		if app == nil {
			return nil, fmt.Errorf("STORAGE_BACKEND=firebase needs Firebase credentials")
		}
		client, err := app.Storage(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage client: %w", err)
		}
		bucket, err := client.DefaultBucket()
		if err != nil {
			return nil, fmt.Errorf("default bucket: %w", err)
		}
		return blob.NewGCSStore(bucket, cfg.Firebase.StorageBucket), nil

	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(sc.S3Region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return blob.NewS3Store(s3.NewFromConfig(awsCfg), sc.S3Bucket, sc.S3Region, sc.PublicBaseURL), nil

	case "local":
		base := sc.PublicBaseURL
		if base == "" {
			base = "http://localhost:" + cfg.Server.Port + LocalFilesRoute
		}
		return blob.NewDirStore(sc.LocalDir, base)
	}
	return nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
}
