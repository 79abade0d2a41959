package config

const (
	// DefaultDatabasePath is the default path of the local sync database
	DefaultDatabasePath = "./shoplist.db"

	// DefaultAPIBaseURL is used when API_BASE_URL is not set
	DefaultAPIBaseURL = "http://localhost:8000"
)
