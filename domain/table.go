package domain

// Table is the mongo collection name
type Table string

const (
	TableAuctions       = Table("auctions")
	TableAuctionIndexes = Table("auction_latest")
	TableAuctionBids    = Table("auction_bids")
	TableAuctionEvents  = Table("auction_events")
	TableCounters       = Table("counters")
	TableFundAccounts   = Table("fund_accounts")
	TableDomainTokens   = Table("domain_tokens")
	TableAccounts       = Table("accounts")
	TableMirrorStates   = Table("mirror_states")
)
