package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravitrone/annotator/cli/internal/api"
	"github.com/gravitrone/annotator/cli/internal/config"
	"github.com/gravitrone/annotator/cli/internal/logging"
)

// Runtime is what every authenticated command needs.
type Runtime struct {
	Config *config.Config
	Client *api.Client
	Log    *zap.Logger
}

// LoadRuntime reads the config and builds the logger and API client.
func LoadRuntime(verbose bool) (*Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("not logged in: %w", err)
	}
	log, err := logging.New(logging.Options{Path: cfg.LogPath(), Verbose: verbose})
	if err != nil {
		return nil, err
	}
	return &Runtime{
		Config: cfg,
		Client: api.NewClient(baseURL(cfg), cfg.APIKey),
		Log:    log,
	}, nil
}

// Close flushes the logger.
func (r *Runtime) Close() {
	if r == nil || r.Log == nil {
		return
	}
	_ = r.Log.Sync()
}

func baseURL(cfg *config.Config) string {
	if cfg != nil && strings.TrimSpace(cfg.BaseURL) != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	return api.DefaultBaseURL
}

// verbose reads the root's persistent --verbose flag when it is present.
func verbose(c *cobra.Command) bool {
	v, _ := c.Flags().GetBool("verbose")
	return v
}
