package domain

// Connection is a mutual edge between two members. Only ACTIVE
// connections are visible to routing.
type Connection struct {
	MemberA  string
	MemberB  string
	Status   string
	Strength float64
}

// Connection status values.
const (
	ConnectionActive  = "ACTIVE"
	ConnectionPending = "PENDING"
	ConnectionBlocked = "BLOCKED"
	ConnectionRemoved = "REMOVED"
)

// OrganizationRating is a member's trust signal against an organization.
type OrganizationRating struct {
	MemberID     string
	Organization string
	Slug         string
	Industry     string
	Score        float64
	Relationship string
}

// PeerReview is a member-to-member score feeding the trust proxy.
type PeerReview struct {
	RaterID   string
	SubjectID string
	Score     float64
}
