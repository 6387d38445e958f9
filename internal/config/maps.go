package config

type MapsConfig struct {
	GoogleMapsAPIKey string `yaml:"google_maps_api_key"`
	GeocodingEnabled bool   `yaml:"geocoding_enabled"`
}

func loadMapsConfig() *MapsConfig {
	return &MapsConfig{
		GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		GeocodingEnabled: getEnvAsBool("GEOCODING_ENABLED", false),
	}
}
