package envvar

import (
	"fmt"
	"os"
	"strconv"
)

const (
	envKeyBaseURL          = "BASE_URL"
	envKeyBucketName       = "BUCKET_NAME"
	envKeyStorageBackend   = "STORAGE_BACKEND"
	envKeyMediaFolder      = "MEDIA_FOLDER"
	envKeyDBPath           = "DB_PATH"
	envKeySizesFile        = "SIZES_FILE"
	envKeyPrettyPermalinks = "PRETTY_PERMALINKS"
	envKeyPort             = "PORT"
)

type EnvVar struct {
	BaseURL          string
	BucketName       string
	StorageBackend   string
	MediaFolder      string
	DBPath           string
	SizesFile        string
	PrettyPermalinks bool
	Port             string
}

func New() (*EnvVar, error) {
	baseURL, err := checkKey(envKeyBaseURL)
	if err != nil {
		return nil, err
	}
	bucketName, err := checkKey(envKeyBucketName)
	if err != nil {
		return nil, err
	}

	pretty := true
	if v := os.Getenv(envKeyPrettyPermalinks); v != "" {
		pretty, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("env var %q must be a boolean: %w", envKeyPrettyPermalinks, err)
		}
	}

	backend := orDefault(envKeyStorageBackend, "s3")
	if backend != "s3" && backend != "gcs" {
		return nil, fmt.Errorf("env var %q must be s3 or gcs", envKeyStorageBackend)
	}

	return &EnvVar{
		BaseURL:          baseURL,
		BucketName:       bucketName,
		StorageBackend:   backend,
		MediaFolder:      orDefault(envKeyMediaFolder, "media"),
		DBPath:           orDefault(envKeyDBPath, "content.db"),
		SizesFile:        os.Getenv(envKeySizesFile),
		PrettyPermalinks: pretty,
		Port:             orDefault(envKeyPort, "3000"),
	}, nil
}

func checkKey(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("env var %q is required", key)
	}
	return value, nil
}

func orDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
