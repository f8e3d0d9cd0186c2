package model

// VersionInfo contains version and migration information for the application.
type VersionInfo struct {
	AppVersion string `json:"appVersion"`
	DbVersion  int64  `json:"dbVersion"`
}
