package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la corrida. Las credenciales de CEWE
// (access_key / client_version) vienen provisionadas desde afuera y pueden
// expirar: si las descargas empiezan a fallar con 403/404 hay que renovar
// la clave inspeccionando el tráfico del navegador, no hay refresh
// automático.
type Config struct {
	StatusBaseURL   string        `mapstructure:"status_base_url"`
	ConfigID        string        `mapstructure:"config_id"`
	DownloadBaseURL string        `mapstructure:"download_base_url"`
	AccessKey       string        `mapstructure:"access_key"`
	ClientVersion   string        `mapstructure:"client_version"`
	OrdersDir       string        `mapstructure:"orders_dir"`
	DownloadsDir    string        `mapstructure:"downloads_dir"`
	RequestDelay    time.Duration `mapstructure:"request_delay"`
	StatusTimeout   time.Duration `mapstructure:"status_timeout"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
}

// Defaults según el servicio productivo de Fotoparadies.
const (
	defaultStatusBaseURL   = "https://spot.photoprintit.com/spotapi/orderInfo/order"
	defaultConfigID        = "1320"
	defaultDownloadBaseURL = "https://api.cewe-myphotos.com/api/imageCD"
	defaultAccessKey       = "8ccc7bec8f9899140873db6b01254f35cc3a04ed"
	defaultClientVersion   = "2.116.1-20251022-gd981d25"
	defaultOrdersDir       = "orders"
	defaultDownloadsDir    = "downloads"
	defaultRequestDelay    = 600 * time.Millisecond
	defaultStatusTimeout   = 10 * time.Second
	defaultDownloadTimeout = 300 * time.Second
)

// Load carga la configuración desde un archivo YAML opcional sobre los
// defaults. Con path vacío se usan solo los defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("status_base_url", defaultStatusBaseURL)
	v.SetDefault("config_id", defaultConfigID)
	v.SetDefault("download_base_url", defaultDownloadBaseURL)
	v.SetDefault("access_key", defaultAccessKey)
	v.SetDefault("client_version", defaultClientVersion)
	v.SetDefault("orders_dir", defaultOrdersDir)
	v.SetDefault("downloads_dir", defaultDownloadsDir)
	v.SetDefault("request_delay", defaultRequestDelay)
	v.SetDefault("status_timeout", defaultStatusTimeout)
	v.SetDefault("download_timeout", defaultDownloadTimeout)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

// Validate verifica los campos sin los que la corrida no puede operar.
func (c *Config) Validate() error {
	if c.StatusBaseURL == "" {
		return fmt.Errorf("status_base_url is required")
	}
	if c.ConfigID == "" {
		return fmt.Errorf("config_id is required")
	}
	if c.DownloadBaseURL == "" {
		return fmt.Errorf("download_base_url is required")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access_key is required")
	}
	if c.RequestDelay <= 0 {
		return fmt.Errorf("request_delay must be positive")
	}
	return nil
}
