package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Vault struct {
		Path           string `json:"path"`
		MinPasswordLen int    `json:"min_password_len"`
		KDF            struct {
			Time         uint32 `json:"time"`
			MemoryKiB    uint32 `json:"memory_kib"`
			Threads      uint8  `json:"threads"`
			MinTime      uint32 `json:"min_time"`
			MinMemoryKiB uint32 `json:"min_memory_kib"`
			MinThreads   uint8  `json:"min_threads"`
		} `json:"kdf,omitempty"`
	} `json:"vault,omitempty"`

	Transfers struct {
		Concurrency        int      `json:"concurrency"`
		MaxRetries         int      `json:"max_retries"`
		RetryBaseDelay     Duration `json:"retry_base_delay"`
		RetryMaxDelay      Duration `json:"retry_max_delay"`
		SessionsPerProfile int      `json:"sessions_per_profile"`
		SessionIdleTimeout Duration `json:"session_idle_timeout"`
		ConnectTimeout     Duration `json:"connect_timeout"`
		DeletePartial      bool     `json:"delete_partial"`
	} `json:"transfers,omitempty"`

	Storage struct {
		HistoryDSN string `json:"history_dsn"`
	} `json:"storage,omitempty"`
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
		Vault: Vault{
			Path:           jsonCfg.Vault.Path,
			MinPasswordLen: jsonCfg.Vault.MinPasswordLen,
			KDF: KDF{
				Time:         jsonCfg.Vault.KDF.Time,
				MemoryKiB:    jsonCfg.Vault.KDF.MemoryKiB,
				Threads:      jsonCfg.Vault.KDF.Threads,
				MinTime:      jsonCfg.Vault.KDF.MinTime,
				MinMemoryKiB: jsonCfg.Vault.KDF.MinMemoryKiB,
				MinThreads:   jsonCfg.Vault.KDF.MinThreads,
			},
		},
		Transfers: Transfers{
			Concurrency:        jsonCfg.Transfers.Concurrency,
			MaxRetries:         jsonCfg.Transfers.MaxRetries,
			RetryBaseDelay:     time.Duration(jsonCfg.Transfers.RetryBaseDelay),
			RetryMaxDelay:      time.Duration(jsonCfg.Transfers.RetryMaxDelay),
			SessionsPerProfile: jsonCfg.Transfers.SessionsPerProfile,
			SessionIdleTimeout: time.Duration(jsonCfg.Transfers.SessionIdleTimeout),
			ConnectTimeout:     time.Duration(jsonCfg.Transfers.ConnectTimeout),
			DeletePartial:      jsonCfg.Transfers.DeletePartial,
		},
		Storage: Storage{
			HistoryDSN: jsonCfg.Storage.HistoryDSN,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
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
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
