package metrics

type Config struct {
	Enabled bool `mapstructure:"Enabled"`
	// Port of the standalone metrics server. Empty serves the endpoint on the API server.
	Port string `mapstructure:"Port"`

	// Endpoint is the metrics endpoint for prometheus to query the metrics
	Endpoint string `mapstructure:"Endpoint"`
}
