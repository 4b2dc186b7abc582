package config

const (
	defaultDataDir        = "~/.local/share/mafqood"
	defaultLogDir         = "~/.local/share/mafqood/logs"
	defaultProductionURL  = "https://api.mafqood.ae"
	defaultDevelopmentURL = "http://127.0.0.1:8000"
	defaultRequestTimeout = 30
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Backend: Backend{
			Environment:    EnvDevelopment,
			ProductionURL:  defaultProductionURL,
			DevelopmentURL: defaultDevelopmentURL,
			RequestTimeout: defaultRequestTimeout,
			FieldNaming:    NamingCurrent,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
