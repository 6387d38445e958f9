package config

type StorageConfig struct {
	Provider string `yaml:"provider"` // s3, gcs, local

	S3Region    string `yaml:"s3_region"`
	S3Bucket    string `yaml:"s3_bucket"`
	S3CDNDomain string `yaml:"s3_cdn_domain"`

	GCSProjectID       string `yaml:"gcs_project_id"`
	GCSBucket          string `yaml:"gcs_bucket"`
	GCSCredentialsFile string `yaml:"gcs_credentials_file"`
	GCSCDNDomain       string `yaml:"gcs_cdn_domain"`

	LocalBasePath string `yaml:"local_base_path"`
	LocalBaseURL  string `yaml:"local_base_url"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Provider:           getEnv("STORAGE_PROVIDER", "local"),
		S3Region:           getEnv("S3_REGION", "us-east-1"),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3CDNDomain:        getEnv("S3_CDN_DOMAIN", ""),
		GCSProjectID:       getEnv("GCS_PROJECT_ID", ""),
		GCSBucket:          getEnv("GCS_BUCKET", ""),
		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		GCSCDNDomain:       getEnv("GCS_CDN_DOMAIN", ""),
		LocalBasePath:      getEnv("LOCAL_STORAGE_PATH", "./uploads"),
		LocalBaseURL:       getEnv("LOCAL_STORAGE_URL", "http://localhost:8080/uploads"),
	}
}
