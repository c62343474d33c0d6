package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"smd/internal/structures"
	"strings"
	"time"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("gateway.baseUrl", "SMD_GATEWAY_URL")
	viper.BindEnv("gateway.token", "SMD_GATEWAY_TOKEN")
	viper.BindEnv("logger.level", "SMD_LOG_LEVEL")
	viper.BindEnv("aggregation.cacheTTL", "SMD_CACHE_TTL")
	viper.BindEnv("aggregation.statusPollInterval", "SMD_STATUS_POLL_INTERVAL")
	viper.BindEnv("cache.enabled", "SMD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "SMD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	applyAggregationDefaults(&conf.Aggregation)

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "SocialMetricsDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

// Defaults mirror the gateway contract: 5 min staleness tolerance for
// cached rows, 30 s status poll cadence, 2 s propagation delay before a
// post-sync refetch.
func applyAggregationDefaults(agg *structures.AggregationConfig) {
	if agg.AccountTimeout <= 0 {
		agg.AccountTimeout = 10 * time.Second
	}
	if agg.CacheTTL <= 0 {
		agg.CacheTTL = 5 * time.Minute
	}
	if agg.RefetchDelay <= 0 {
		agg.RefetchDelay = 2 * time.Second
	}
	if agg.StatusPollInterval <= 0 {
		agg.StatusPollInterval = 30 * time.Second
	}
}
