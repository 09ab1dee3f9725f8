package constants

const (
	EnvLogLevel = "REGELRECHT_LOG_LEVEL"
	EnvDebug    = "REGELRECHT_DEBUG"
)
