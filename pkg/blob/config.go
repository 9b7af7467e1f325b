package blob

import "time"

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Config selects and configures the blob backend.
type Config struct {
	Driver        string        `env:"BLOB_DRIVER" envDefault:"local"`
	FolderPath    string        `env:"FOLDER_PATH" envDefault:"/tmp/files_manager"`
	UploadTimeout time.Duration `env:"BLOB_UPLOAD_TIMEOUT" envDefault:"0s"`

	S3Bucket         string `env:"S3_BUCKET"`
	S3Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	S3AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"S3_SECRET_KEY"`
	S3Endpoint       string `env:"S3_ENDPOINT"`
	S3ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
}
