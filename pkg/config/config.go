package config

import (
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	ScrapingBee struct {
		APIKey   string `env:"SCRAPINGBEE_KEY"`
		Endpoint string `env:"SCRAPINGBEE_ENDPOINT" env-default:"https://app.scrapingbee.com/api/v1/"`
		RenderJS bool   `env:"SCRAPINGBEE_RENDER_JS" env-default:"true"`
		Timeout  int    `env:"SCRAPINGBEE_TIMEOUT_SECONDS" env-default:"60"`
	}
	SerpAPI struct {
		APIKey   string `env:"SERPAPI_KEY"`
		Endpoint string `env:"SERPAPI_ENDPOINT" env-default:"https://serpapi.com/search.json"`
		Engine   string `env:"SERPAPI_ENGINE" env-default:"google"`
		Timeout  int    `env:"SERPAPI_TIMEOUT_SECONDS" env-default:"30"`
	}
	Telegram struct {
		User    int64  `env:"TELEGRAM_USER"`
		Token   string `env:"TELEGRAM_TOKEN"`
		Channel string `env:"TELEGRAM_CHANNEL"`
	}
	Pipeline struct {
		TopPerQuery  int     `env:"PIPELINE_TOP_PER_QUERY" env-default:"10"`
		Concurrency  int     `env:"PIPELINE_CONCURRENCY" env-default:"5"`
		FetchDelay   float64 `env:"PIPELINE_FETCH_DELAY_SECONDS" env-default:"0.8"`
		SearchDelay  float64 `env:"PIPELINE_SEARCH_DELAY_SECONDS" env-default:"1.0"`
		HTMLDir      string  `env:"PIPELINE_HTML_DIR" env-default:"html_temp"`
		JSONDir      string  `env:"PIPELINE_JSON_DIR" env-default:"parsed_jsons"`
		MasterJSON   string  `env:"PIPELINE_MASTER_JSON" env-default:"all_posts_combined.json"`
		MasterExcel  string  `env:"PIPELINE_MASTER_EXCEL" env-default:"linkedin_posts_master.xlsx"`
		WatchMinutes int     `env:"PIPELINE_WATCH_MINUTES"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}
