package injectable

import (
	"github.com/yagro/gostore/internal/config"
	"github.com/yagro/gostore/internal/store"
)

// Dependencies holds all the dependencies required by the router
type Dependencies struct {
	Store store.Provider
}

func LoadDependencies(cfg *config.Config) Dependencies {
	factory := store.NewFactory(&cfg.Store, &cfg.S3)

	provider, err := factory.Create()
	if err != nil {
		panic("failed to initialize store provider: " + err.Error())
	}

	return Dependencies{
		Store: provider,
	}
}
