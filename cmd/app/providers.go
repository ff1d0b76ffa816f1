package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/activity-finder/internal/domain/activity"
	"github.com/yanqian/activity-finder/internal/infra/config"
	"github.com/yanqian/activity-finder/internal/infra/hourscache"
	"github.com/yanqian/activity-finder/internal/infra/llm/chatgpt"
	"github.com/yanqian/activity-finder/internal/infra/places/google"
	"github.com/yanqian/activity-finder/internal/infra/sessionstore"
	"github.com/yanqian/activity-finder/internal/infra/upstream"
	"github.com/yanqian/activity-finder/internal/infra/weather/openweather"
)

func provideActivityConfig(cfg *config.Config) (activity.Config, error) {
	loc, err := cfg.Activity.Location()
	if err != nil {
		return activity.Config{}, err
	}
	return activity.Config{
		Model:             cfg.LLM.Model,
		Temperature:       cfg.LLM.Temperature,
		Prompt:            cfg.Activity.Prompt,
		BatchSize:         cfg.Activity.BatchSize,
		Timezone:          loc,
		LookupConcurrency: cfg.Activity.LookupConcurrency,
		HoursCacheTTL:     cfg.Activity.HoursCacheTTL,
	}, nil
}

func upstreamPolicy(cfg *config.Config, name string, timeout time.Duration) upstream.Policy {
	return upstream.Policy{
		Name:       name,
		Timeout:    timeout,
		MaxRetries: uint64(cfg.Upstream.MaxRetries),
		Backoff:    cfg.Upstream.Backoff,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, upstreamPolicy(cfg, "llm", cfg.LLM.Timeout))
}

func provideWeatherClient(cfg *config.Config) *openweather.Client {
	return openweather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.Units, upstreamPolicy(cfg, "weather", cfg.Weather.Timeout))
}

func providePlacesClient(cfg *config.Config) *google.Client {
	return google.NewClient(cfg.Places.APIKey, cfg.Places.BaseURL, upstreamPolicy(cfg, "places", cfg.Places.Timeout))
}

// provideValkeyClient returns nil when valkey is disabled or unreachable so
// the stores below fall back to process memory.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func()) {
	noop := func() {}
	if !cfg.Valkey.Enabled {
		return nil, noop
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory stores", "error", err)
		return nil, noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory stores", "error", err)
		return nil, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory stores", "error", err)
		client.Close()
		return nil, noop
	}
	logger.Info("valkey enabled", "addr", cfg.Valkey.Addr)
	return client, client.Close
}

func provideSessionStore(cfg *config.Config, client valkey.Client) activity.SessionStore {
	if client == nil {
		return sessionstore.NewMemoryStore(cfg.Activity.SessionTTL)
	}
	return sessionstore.NewValkeyStore(client, cfg.Valkey.Prefix, cfg.Activity.SessionTTL)
}

func provideHoursCache(cfg *config.Config, client valkey.Client) activity.HoursCache {
	if client == nil {
		return hourscache.NewMemoryCache()
	}
	return hourscache.NewValkeyCache(client, cfg.Valkey.Prefix)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
