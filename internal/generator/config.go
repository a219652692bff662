package generator

// Config drives the synthetic network generator.
type Config struct {
	NumMembers           int
	NumOrganizations     int
	ConnectionsPerMember int
	RatingsPerMember     int
	ReviewsPerMember     int
	HubExtraConnections  int
	ActiveChance         float64
	Seed                 int64
}

// DefaultConfig returns baseline settings for a development dataset.
func DefaultConfig() Config {
	return Config{
		NumMembers:           500,
		NumOrganizations:     60,
		ConnectionsPerMember: 6,
		RatingsPerMember:     3,
		ReviewsPerMember:     4,
		HubExtraConnections:  80,
		ActiveChance:         0.85,
		Seed:                 42,
	}
}
