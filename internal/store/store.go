// Package store provides pluggable file storage for web applications:
// callers hand it an uploaded file, it decides where the bytes live and
// what URL exposes them later.
package store

import (
	"context"

	"github.com/yagro/gostore/internal/config"
	"github.com/yagro/gostore/pkg/errors"
)

// ProviderType represents the type of store backend
type ProviderType string

const (
	// ProviderLocal represents local filesystem storage
	ProviderLocal ProviderType = "local"

	// ProviderS3 represents AWS S3 storage
	ProviderS3 ProviderType = "s3"
)

// Provider is the abstraction responsible for persisting an uploaded file
// and producing retrieval locators (path, URL) for it.
type Provider interface {
	// Save persists the uploaded file and returns the safe filename under
	// which it was stored. The returned name is relative, suitable for
	// persisting in a database row. The upload handle is released on all
	// exit paths.
	Save(file UploadedFile) (string, error)

	// Exists reports whether filename is present in the store. The check
	// reflects backend state at call time; nothing is cached.
	Exists(filename string) (bool, error)

	// AbsolutePath returns the backend location of filename.
	AbsolutePath(filename string) string

	// RelativePath returns the store-specific portion of the path,
	// including the destination when one is set.
	RelativePath(filename string) string

	// AbsoluteURL returns the public URL for filename, including the
	// configured domain when one is set.
	AbsoluteURL(filename string) string

	// RelativeURL returns the public URL for filename minus the domain.
	RelativeURL(filename string) string
}

// Factory creates store providers based on configuration
type Factory struct {
	store *config.StoreConfig
	s3    *config.S3Config
}

// NewFactory creates a new store factory
func NewFactory(storeCfg *config.StoreConfig, s3Cfg *config.S3Config) *Factory {
	return &Factory{
		store: storeCfg,
		s3:    s3Cfg,
	}
}

// Create creates a new store provider based on the configuration
func (f *Factory) Create() (Provider, error) {
	switch ProviderType(f.store.Provider) {
	case ProviderLocal, "":
		return NewLocalStore(f.store)

	case ProviderS3:
		return NewS3Store(context.Background(), f.store, f.s3)

	default:
		return nil, errors.UnknownProvider(f.store.Provider)
	}
}

// MustCreate creates a store provider and panics on error
func (f *Factory) MustCreate() Provider {
	provider, err := f.Create()
	if err != nil {
		panic("failed to create store provider: " + err.Error())
	}
	return provider
}

// ValidateConfig validates the store configuration for the selected provider
func ValidateConfig(storeCfg *config.StoreConfig, s3Cfg *config.S3Config) error {
	switch ProviderType(storeCfg.Provider) {
	case ProviderLocal, "":
		if storeCfg.BasePath == "" {
			return errors.ConfigError("base_path is required for the local store", errors.ErrConfigError)
		}
		return nil

	case ProviderS3:
		if s3Cfg.Bucket == "" {
			return errors.ConfigError("s3.bucket is required for the s3 store", errors.ErrConfigError)
		}
		if s3Cfg.Region == "" {
			return errors.ConfigError("s3.region is required for the s3 store", errors.ErrConfigError)
		}
		return nil

	default:
		return errors.UnknownProvider(storeCfg.Provider)
	}
}
