package config

import "os"

type Config struct {
	Port string
	Env  string

	// StoreBackend selects the TableStore: "sheets", "sqlite" or "memory".
	StoreBackend string
	// SpreadsheetID and CredentialsFile configure the sheets backend.
	SpreadsheetID   string
	CredentialsFile string
	// SQLitePath configures the sqlite backend.
	SQLitePath string

	// StoreName appears on rendered invoices.
	StoreName string
	// IssuerName/Cell/Email form the contact block on rendered invoices.
	IssuerName  string
	IssuerCell  string
	IssuerEmail string

	OperatorUser         string
	OperatorPasswordHash string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by the caller) > default.
func Load() Config {
	return Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("APP_ENV", "development"),
		StoreBackend:         getEnv("STORE_BACKEND", "sqlite"),
		SpreadsheetID:        os.Getenv("SPREADSHEET_ID"),
		CredentialsFile:      getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		SQLitePath:           getEnv("SQLITE_PATH", "huiswinkel.db"),
		StoreName:            getEnv("STORE_NAME", "Koep en Loep"),
		IssuerName:           os.Getenv("ISSUER_NAME"),
		IssuerCell:           os.Getenv("ISSUER_CELL"),
		IssuerEmail:          os.Getenv("ISSUER_EMAIL"),
		OperatorUser:         getEnv("OPERATOR_USER", "operator"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
