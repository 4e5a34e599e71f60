package generator

// Config drives the synthetic seed generator.
type Config struct {
	NumPeople        int
	NumFriendships   int
	SharedCityChance float64
	Seed             int64
}

// DefaultConfig returns baseline settings for a small demo graph.
func DefaultConfig() Config {
	return Config{
		NumPeople:        1000,
		NumFriendships:   5000,
		SharedCityChance: 0.35,
		Seed:             42,
	}
}
