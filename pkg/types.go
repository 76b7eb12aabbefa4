package pkg

import (
	"os"
	"time"

	"github.com/adrg/xdg"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/favorites"
	"github.com/redhat-openshift-ecosystem/rp-jump/internal/fetch"
	"github.com/redhat-openshift-ecosystem/rp-jump/internal/resolver"
)

const (
	ProjectName = "rp-jump"

	DefaultTimeout = 30 * time.Second
)

var (
	// FavoritesFile is the default favorites document.
	FavoritesFile string
	// ConfigFile is read when present and no --config is given.
	ConfigFile string
	// LogFile receives a copy of every log entry.
	LogFile string
)

func init() {
	var err error
	FavoritesFile, err = xdg.DataFile(ProjectName + "/favorites.json")
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
	ConfigFile, err = xdg.ConfigFile(ProjectName + "/config.yaml")
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
	LogFile, err = xdg.StateFile(ProjectName + "/rpjump.log")
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

type Config struct {
	APIKey        string
	BaseURL       string
	Project       string
	Timeout       time.Duration
	Retries       int
	FavoritesFile string

	// Fs backs the favorites store, the OS filesystem when nil.
	Fs afero.Fs
}

// Fetcher returns an HTTP fetcher honouring the timeout and retry settings.
func (c *Config) Fetcher() *fetch.Fetcher {
	return fetch.New(fetch.WithTimeout(c.Timeout), fetch.WithRetryMax(c.Retries))
}

func (c *Config) Resolver() *resolver.Resolver {
	return resolver.New(resolver.Config{
		APIKey:  c.APIKey,
		BaseURL: c.BaseURL,
		Project: c.Project,
	}, c.Fetcher())
}

func (c *Config) FavoritesStore() *favorites.Store {
	path := c.FavoritesFile
	if path == "" {
		path = FavoritesFile
	}
	return favorites.NewStore(c.FS(), path)
}

// FS is the filesystem used for favorites and their exports.
func (c *Config) FS() afero.Fs {
	if c.Fs == nil {
		return afero.NewOsFs()
	}
	return c.Fs
}
