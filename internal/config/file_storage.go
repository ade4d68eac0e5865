package config

type StorageConfig struct {
	Provider       string              `yaml:"provider"` // none, local, s3, gcs
	MaxUploadBytes int64               `yaml:"max_upload_bytes"`
	MaxImageWidth  uint                `yaml:"max_image_width"`
	MirrorInbound  bool                `yaml:"mirror_inbound"`
	Local          *LocalStorageConfig `yaml:"local"`
	AWS            *AWSStorageConfig   `yaml:"aws"`
	GCP            *GCPStorageConfig   `yaml:"gcp"`
}

type LocalStorageConfig struct {
	BasePath string `yaml:"base_path"`
	BaseURL  string `yaml:"base_url"`
}

type AWSStorageConfig struct {
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	CDNDomain string `yaml:"cdn_domain"`
}

type GCPStorageConfig struct {
	ProjectID       string `yaml:"project_id"`
	Bucket          string `yaml:"bucket"`
	CredentialsFile string `yaml:"credentials_file"`
	CDNDomain       string `yaml:"cdn_domain"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Provider:       getEnv("STORAGE_PROVIDER", "none"),
		MaxUploadBytes: getEnvAsInt64("STORAGE_MAX_UPLOAD_BYTES", 5<<20),
		MaxImageWidth:  uint(getEnvAsInt("STORAGE_MAX_IMAGE_WIDTH", 1600)),
		MirrorInbound:  getEnvAsBool("STORAGE_MIRROR_INBOUND", false),
		Local: &LocalStorageConfig{
			BasePath: getEnv("STORAGE_LOCAL_PATH", "./uploads"),
			BaseURL:  getEnv("STORAGE_LOCAL_URL", "http://localhost:5000/uploads"),
		},
		AWS: &AWSStorageConfig{
			Region:    getEnv("AWS_S3_REGION", "eu-west-1"),
			Bucket:    getEnv("AWS_S3_BUCKET", ""),
			CDNDomain: getEnv("AWS_CLOUDFRONT_DOMAIN", ""),
		},
		GCP: &GCPStorageConfig{
			ProjectID:       getEnv("GCP_PROJECT_ID", ""),
			Bucket:          getEnv("GCP_STORAGE_BUCKET", ""),
			CredentialsFile: getEnv("GCP_CREDENTIALS_FILE", ""),
			CDNDomain:       getEnv("GCP_CDN_DOMAIN", ""),
		},
	}
}
