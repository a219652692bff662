package domain

// DefaultTrustProxy is the trust score assumed for a member with no
// received peer reviews.
const DefaultTrustProxy = 3.5

// DefaultHubTrustProxy is the trust score assumed for the hub member
// when it has no received peer reviews.
const DefaultHubTrustProxy = 4.5

// DefaultRelationshipStrength is applied to active connections whose
// strength was never set.
const DefaultRelationshipStrength = 0.7

// DefaultIndustry is the placeholder for members and organizations
// without an industry value.
const DefaultIndustry = "General"

// Member models a participant in the trust network.
type Member struct {
	ID           string
	FullName     string
	Email        string
	Organization string
	Industry     string
	Role         string
	AvatarURL    string
	TrustProxy   float64
}

// Neighbor is a member reachable through one active connection,
// annotated with the strength of that connection.
type Neighbor struct {
	Member   Member
	Strength float64
}

// OrganizationRater is a member holding a rating against the target
// organization. Score doubles as the member's trust value for the
// query that produced it.
type OrganizationRater struct {
	Member       Member
	Score        float64
	Relationship string
}
