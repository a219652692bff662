package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/anika/trustpath/backend/internal/domain"
)

// Dataset is the complete synthetic trust network.
type Dataset struct {
	Members     []domain.Member
	Connections []domain.Connection
	Ratings     []domain.OrganizationRating
	Reviews     []domain.PeerReview
	HubMemberID string
}

// Generator produces deterministic synthetic network datasets. IDs are
// UUIDs drawn from the seeded source, so the same seed always yields
// the same dataset.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// New creates a Generator with the provided configuration.
func New(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// HubEmail is the address assigned to the generated hub member.
const HubEmail = "hub@trustpath.network"

var firstNames = []string{
	"Aarav", "Beth", "Carlos", "Diana", "Elena", "Farhan", "Grace", "Hiro",
	"Ines", "Jonas", "Kavya", "Liam", "Mara", "Noel", "Omar", "Priya",
	"Quentin", "Rosa", "Sven", "Tara", "Uma", "Viktor", "Wendy", "Yusuf", "Zara",
}

var lastNames = []string{
	"Adler", "Brandt", "Chen", "Dube", "Eriksen", "Fischer", "Gupta",
	"Haddad", "Ivanov", "Jensen", "Kaur", "Lindqvist", "Moreau", "Nakamura",
	"Okafor", "Petrov", "Quinn", "Rossi", "Silva", "Tanaka",
}

var roles = []string{
	"Account Executive", "CTO", "Engineering Manager", "Founder",
	"Head of Partnerships", "Investor", "Product Manager", "Sales Director",
	"Solutions Architect", "VP of Marketing",
}

var industries = []string{
	"Consulting", "Energy", "Finance", "Healthcare", "Logistics",
	"Manufacturing", "Media", "Retail", "Software",
}

var organizationStems = []string{
	"Acme", "Borealis", "Cobalt", "Deltaline", "Evergreen", "Fathom",
	"Granite", "Helix", "Ironwood", "Juniper", "Kestrel", "Lumen",
	"Meridian", "Northwind", "Opaline", "Pinnacle", "Quarry", "Redwood",
	"Summit", "Tidewater", "Umbra", "Vantage", "Wayfare", "Zenith",
}

var organizationSuffixes = []string{
	"Analytics", "Capital", "Dynamics", "Group", "Holdings", "Labs",
	"Logistics", "Partners", "Systems", "Ventures",
}

var relationshipLabels = []string{
	"former colleague", "client", "vendor", "advisor", "investor", "partner",
}

// Generate builds the full dataset. The context is checked between
// phases so long generations can be abandoned.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	orgs := g.generateOrganizations()

	var dataset Dataset
	dataset.Members = g.generateMembers(orgs)
	dataset.HubMemberID = dataset.Members[0].ID

	if err := ctx.Err(); err != nil {
		return Dataset{}, err
	}
	dataset.Connections = g.generateConnections(dataset.Members, dataset.HubMemberID)

	if err := ctx.Err(); err != nil {
		return Dataset{}, err
	}
	dataset.Ratings = g.generateRatings(dataset.Members, orgs)
	dataset.Reviews = g.generateReviews(dataset.Members)

	return dataset, nil
}

type organization struct {
	Name     string
	Industry string
}

func (g *Generator) generateOrganizations() []organization {
	count := g.cfg.NumOrganizations
	if count <= 0 {
		count = 1
	}
	orgs := make([]organization, 0, count)
	for i := 0; i < count; i++ {
		stem := organizationStems[g.rng.Intn(len(organizationStems))]
		suffix := organizationSuffixes[g.rng.Intn(len(organizationSuffixes))]
		orgs = append(orgs, organization{
			Name:     fmt.Sprintf("%s %s", stem, suffix),
			Industry: industries[g.rng.Intn(len(industries))],
		})
	}
	return orgs
}

func (g *Generator) generateMembers(orgs []organization) []domain.Member {
	count := g.cfg.NumMembers
	if count <= 0 {
		count = 2
	}
	members := make([]domain.Member, 0, count)
	for i := 0; i < count; i++ {
		first := firstNames[g.rng.Intn(len(firstNames))]
		last := lastNames[g.rng.Intn(len(lastNames))]
		org := orgs[g.rng.Intn(len(orgs))]

		member := domain.Member{
			ID:           g.newID(),
			FullName:     fmt.Sprintf("%s %s", first, last),
			Email:        fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			Organization: org.Name,
			Industry:     org.Industry,
			Role:         roles[g.rng.Intn(len(roles))],
		}
		if i == 0 {
			// The first member is the designated hub.
			member.FullName = "Hub Concierge"
			member.Email = HubEmail
			member.Role = "Network Concierge"
		}
		members = append(members, member)
	}
	return members
}

func (g *Generator) generateConnections(members []domain.Member, hubID string) []domain.Connection {
	var conns []domain.Connection
	seen := make(map[string]struct{})

	add := func(a, b string) {
		if a == b {
			return
		}
		key := a + "|" + b
		if a > b {
			key = b + "|" + a
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}

		status := domain.ConnectionActive
		if g.rng.Float64() > g.cfg.ActiveChance {
			if g.rng.Float64() < 0.5 {
				status = domain.ConnectionPending
			} else {
				status = domain.ConnectionBlocked
			}
		}
		conns = append(conns, domain.Connection{
			MemberA:  a,
			MemberB:  b,
			Status:   status,
			Strength: roundStrength(0.3 + g.rng.Float64()*0.7),
		})
	}

	perMember := g.cfg.ConnectionsPerMember
	if perMember <= 0 {
		perMember = 1
	}
	for _, member := range members {
		for j := 0; j < perMember; j++ {
			peer := members[g.rng.Intn(len(members))]
			add(member.ID, peer.ID)
		}
	}

	// The hub gets extra reach so fallback routes exist in dev data.
	for j := 0; j < g.cfg.HubExtraConnections; j++ {
		peer := members[g.rng.Intn(len(members))]
		add(hubID, peer.ID)
	}

	return conns
}

func (g *Generator) generateRatings(members []domain.Member, orgs []organization) []domain.OrganizationRating {
	var ratings []domain.OrganizationRating
	perMember := g.cfg.RatingsPerMember
	if perMember < 0 {
		perMember = 0
	}
	for _, member := range members {
		for j := 0; j < perMember; j++ {
			org := orgs[g.rng.Intn(len(orgs))]
			ratings = append(ratings, domain.OrganizationRating{
				MemberID:     member.ID,
				Organization: org.Name,
				Industry:     org.Industry,
				Score:        float64(1 + g.rng.Intn(5)),
				Relationship: relationshipLabels[g.rng.Intn(len(relationshipLabels))],
			})
		}
	}
	return ratings
}

func (g *Generator) generateReviews(members []domain.Member) []domain.PeerReview {
	var reviews []domain.PeerReview
	perMember := g.cfg.ReviewsPerMember
	if perMember < 0 {
		perMember = 0
	}
	for _, member := range members {
		for j := 0; j < perMember; j++ {
			subject := members[g.rng.Intn(len(members))]
			if subject.ID == member.ID {
				continue
			}
			reviews = append(reviews, domain.PeerReview{
				RaterID:   member.ID,
				SubjectID: subject.ID,
				Score:     float64(2 + g.rng.Intn(4)),
			})
		}
	}
	return reviews
}

func (g *Generator) newID() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// The seeded source never fails to produce bytes.
		return uuid.NewString()
	}
	return id.String()
}

func roundStrength(v float64) float64 {
	return math.Round(v*100) / 100
}
