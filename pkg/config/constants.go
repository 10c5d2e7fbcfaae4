package config

// EnvPrefix is handed to envconfig; explicit per-field tags below already
// carry the full variable names.
const EnvPrefix = "capex"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "CAPEX_APP_ENV"
	EnvDBDSN  = "CAPEX_DB_DSN"
	EnvDBHost = "CAPEX_DB_HOST"
	EnvDBUser = "CAPEX_DB_USER"
	EnvDBName = "CAPEX_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
