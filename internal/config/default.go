package config

// DefaultValues is the default configuration
const DefaultValues = `
[Log]
Environment = "development"
Level = "info"
Outputs = ["stderr"]

[HTTP]
Timeout = "10s"
MaxRetries = 2
UserAgent = "kriptomarket/1.0"

[Server]
Port = "8080"
RequestTimeout = "15s"
MaxBodyBytes = 4096

[Fetch]
Sources = ["coingecko", "dexscreener", "coincap"]
Limit = 100
Page = 1
Degrade = false

[Poll]
Interval = "60s"
Timeout = "30s"
MaxInterval = "4m"

[CoinGecko]
Enabled = true
URL = "https://api.coingecko.com/api/v3"
APIKey = ""
PerPage = 100
ExchangesCacheTTL = "1h"
MaxRequestsPerMinute = 30
MinRequestInterval = "0s"
Burst = 5
CacheTTL = "30s"
CacheMaxItems = 1000

[DexScreener]
Enabled = true
URL = "https://api.dexscreener.com"
Query = "*"
Tokens = []
Parallel = 4
Timeout = "10s"
MaxRequestsPerMinute = 300
MinRequestInterval = "0s"
Burst = 10
CacheTTL = "30s"
CacheMaxItems = 1000

[CoinCap]
Enabled = true
URL = "https://rest.coincap.io/v3"
APIKey = ""
Limit = 100
MarketsLimit = 50
MaxRequestsPerMinute = 60
MinRequestInterval = "0s"
Burst = 5
CacheTTL = "30s"
CacheMaxItems = 1000

[Preference]
Backend = "sqlite"
SQLitePath = "data/kriptomarket.db"

[Preference.Redis]
Addr = "localhost:6379"
Username = ""
Password = ""
DB = 0
HashKey = "kriptomarket_preferences"

[Metrics]
Enabled = false
Port = ""
Endpoint = "/metrics"
`
