package model

// VersionInfo contains version and feature information for the application.
type VersionInfo struct {
	AppVersion       string          `json:"appVersion"`
	DbVersion        string          `json:"dbVersion"`
	Features         map[string]bool `json:"features"`
	MigrationNeeded  bool            `json:"migrationNeeded"`
	MigrationMessage *string         `json:"migrationMessage"`
}

// SettlementResult reports the outcome of one settlement sweep.
// Confirmed counts rows moved to confirmed by this run. Failed rows stay pending.
// Skipped rows were confirmed concurrently by another run.
type SettlementResult struct {
	Confirmed int `json:"confirmed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}
