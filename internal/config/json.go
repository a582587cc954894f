package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk layout of the JSON config file.
// Durations may be given either as strings ("30s") or as nanoseconds.
type StructuredJSONConfig struct {
	App struct {
		Environment      string   `json:"environment"`
		ExposeOTP        bool     `json:"expose_otp"`
		PasswordHashCost int      `json:"password_hash_cost"`
		TokenSignKey     string   `json:"token_sign_key"`
		TokenIssuer      string   `json:"token_issuer"`
		TokenDuration    Duration `json:"token_duration"`
		OTPTTL           Duration `json:"otp_ttl"`
		Version          string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Files struct {
			UploadsDir string `json:"uploads_dir"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress       string   `json:"http_address"`
		RequestTimeout    Duration `json:"request_timeout"`
		AllowedOrigins    []string `json:"allowed_origins"`
		AuthRatePerMinute float64  `json:"auth_rate_per_minute"`
		AuthRateBurst     int      `json:"auth_rate_burst"`
	} `json:"server,omitempty"`

	Notifier struct {
		Kind     string `json:"kind"`
		Host     string `json:"host"`
		Port     int    `json:"port"`
		Username string `json:"username"`
		Password string `json:"password"`
		From     string `json:"from"`
	} `json:"notifier,omitempty"`

	Receipt struct {
		APIKey  string   `json:"api_key"`
		Model   string   `json:"model"`
		BaseURL string   `json:"base_url"`
		Timeout Duration `json:"timeout"`
	} `json:"receipt,omitempty"`

	Workers struct {
		CleanupInterval  Duration `json:"cleanup_interval"`
		PendingRetention Duration `json:"pending_retention"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Environment:      jsonCfg.App.Environment,
			ExposeOTP:        jsonCfg.App.ExposeOTP,
			PasswordHashCost: jsonCfg.App.PasswordHashCost,
			TokenSignKey:     jsonCfg.App.TokenSignKey,
			TokenIssuer:      jsonCfg.App.TokenIssuer,
			TokenDuration:    time.Duration(jsonCfg.App.TokenDuration),
			OTPTTL:           time.Duration(jsonCfg.App.OTPTTL),
			Version:          jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Files: Files{
				UploadsDir: jsonCfg.Storage.Files.UploadsDir,
			},
		},
		Server: Server{
			HTTPAddress:       jsonCfg.Server.HTTPAddress,
			RequestTimeout:    time.Duration(jsonCfg.Server.RequestTimeout),
			AllowedOrigins:    jsonCfg.Server.AllowedOrigins,
			AuthRatePerMinute: jsonCfg.Server.AuthRatePerMinute,
			AuthRateBurst:     jsonCfg.Server.AuthRateBurst,
		},
		Notifier: Notifier{
			Kind:     jsonCfg.Notifier.Kind,
			Host:     jsonCfg.Notifier.Host,
			Port:     jsonCfg.Notifier.Port,
			Username: jsonCfg.Notifier.Username,
			Password: jsonCfg.Notifier.Password,
			From:     jsonCfg.Notifier.From,
		},
		Receipt: Receipt{
			APIKey:  jsonCfg.Receipt.APIKey,
			Model:   jsonCfg.Receipt.Model,
			BaseURL: jsonCfg.Receipt.BaseURL,
			Timeout: time.Duration(jsonCfg.Receipt.Timeout),
		},
		Workers: Workers{
			CleanupInterval:  time.Duration(jsonCfg.Workers.CleanupInterval),
			PendingRetention: time.Duration(jsonCfg.Workers.PendingRetention),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
