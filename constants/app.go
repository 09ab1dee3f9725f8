package constants

const (
	APPNAME           = "regelrecht"
	PackFileExtension = "pack.toml"
)
