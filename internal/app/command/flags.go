package command

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openconceptlab/ocladmin/pkg/config"
)

const (
	configFlag      = "config"
	apiURLFlag      = "api-url"
	timeoutFlag     = "timeout"
	sessionFileFlag = "session-file"
	metricsFileFlag = "metrics-file"
)

func AddConfigFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP(configFlag, "c", "", "path to a YAML config file")
	cmd.PersistentFlags().String(apiURLFlag, "", "OCL API base URL (default "+config.DefaultAPIURL+")")
	cmd.PersistentFlags().Duration(timeoutFlag, 0, "HTTP request timeout (default 30s)")
	cmd.PersistentFlags().String(sessionFileFlag, "", "where the login token is kept")
	cmd.PersistentFlags().String(metricsFileFlag, "", "write run metrics to this file in the Prometheus text format")
}

// LoadConfig resolves the configuration; flags set on the command line win over file and environment.
func LoadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return config.Config{}, fmt.Errorf("get config flag: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed(apiURLFlag) {
		if cfg.APIURL, err = flags.GetString(apiURLFlag); err != nil {
			return config.Config{}, fmt.Errorf("get %s flag: %w", apiURLFlag, err)
		}
	}
	if flags.Changed(timeoutFlag) {
		var timeout time.Duration
		if timeout, err = flags.GetDuration(timeoutFlag); err != nil {
			return config.Config{}, fmt.Errorf("get %s flag: %w", timeoutFlag, err)
		}
		cfg.Timeout = timeout
	}
	if flags.Changed(sessionFileFlag) {
		if cfg.SessionFile, err = flags.GetString(sessionFileFlag); err != nil {
			return config.Config{}, fmt.Errorf("get %s flag: %w", sessionFileFlag, err)
		}
	}
	if flags.Changed(metricsFileFlag) {
		if cfg.MetricsFile, err = flags.GetString(metricsFileFlag); err != nil {
			return config.Config{}, fmt.Errorf("get %s flag: %w", metricsFileFlag, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
