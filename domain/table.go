package domain

// Table is a mongo collection name.
type Table string

const (
	TableListings  Table = "listings"
	TableBalances  Table = "balances"
	TableAccounts  Table = "accounts"
	TableCounters  Table = "counters"
	TableApiStates Table = "api_states"
)
