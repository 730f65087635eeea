package config

import (
	"encoding/json"
	"os"

	"github.com/timfmjones/dreamjournal/internal/flagx"
	"github.com/timfmjones/dreamjournal/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config; absent fields leave the defaults in place.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	CacheDSN            string         `json:"cache_dsn"`
	TokenFile           string         `json:"token_file"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	PageSize            int            `json:"page_size"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags via flagx.JsonConfigFlags; when no
// path is given nothing is loaded. Read or unmarshal errors panic (caller
// should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.CacheDSN != "" {
		cfg.CacheDSN = jc.CacheDSN
	}
	if jc.TokenFile != "" {
		cfg.TokenFile = jc.TokenFile
	}
	if jc.OnlineCheckInterval != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Std()
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
}
