//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/activity-finder/internal/bootstrap"
	"github.com/yanqian/activity-finder/internal/domain/activity"
	"github.com/yanqian/activity-finder/internal/infra/config"
	"github.com/yanqian/activity-finder/internal/infra/llm/chatgpt"
	"github.com/yanqian/activity-finder/internal/infra/places/google"
	"github.com/yanqian/activity-finder/internal/infra/weather/openweather"
	httpiface "github.com/yanqian/activity-finder/internal/interface/http"
	"github.com/yanqian/activity-finder/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideActivityConfig,
		provideChatGPTClient,
		provideWeatherClient,
		providePlacesClient,
		provideValkeyClient,
		provideSessionStore,
		provideHoursCache,
		activity.NewGenerator,
		activity.NewHoursLookup,
		activity.NewService,
		wire.Bind(new(activity.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(activity.WeatherClient), new(*openweather.Client)),
		wire.Bind(new(activity.PlacesClient), new(*google.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
