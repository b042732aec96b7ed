package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName           string
	Port              string
	Env               string
	Debug             bool
	CentralOutletID   string
	DefaultSupplierID string
	RestockSchedule   string
	RestockOutlets    []string
	PriceCacheTTL     time.Duration
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		AppConfig = fromEnv()
	})
}

// App returns the loaded configuration, loading it on first use.
func App() *Config {
	LoadAppConfig()
	return AppConfig
}

func fromEnv() *Config {
	central := GetEnv("CENTRAL_OUTLET_ID", "central")
	ttl, err := strconv.Atoi(os.Getenv("PRICE_CACHE_TTL"))
	if err != nil || ttl <= 0 {
		ttl = 600
	}
	return &Config{
		AppName:           GetEnv("APP_NAME", "backoffice"),
		Port:              GetEnv("PORT", "8080"),
		Env:               GetEnv("APP_ENV", "development"),
		Debug:             os.Getenv("DEBUG") == "true",
		CentralOutletID:   central,
		DefaultSupplierID: GetEnv("DEFAULT_SUPPLIER_ID", "general"),
		RestockSchedule:   GetEnv("RESTOCK_SCHEDULE", "0 6 * * *"),
		RestockOutlets:    splitList(GetEnv("RESTOCK_OUTLETS", central)),
		PriceCacheTTL:     time.Duration(ttl) * time.Second,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
