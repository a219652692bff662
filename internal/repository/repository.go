package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anika/trustpath/backend/internal/domain"
	"github.com/anika/trustpath/backend/internal/graph"
)

// Repository implements the network read contract consumed by the route
// engine, plus the write path used for seeding, on top of a graph.Client.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// ActiveRelationships returns every member reachable from memberID via
// one ACTIVE connection, annotated with edge strength and trust proxy.
func (r *Repository) ActiveRelationships(ctx context.Context, memberID string) ([]domain.Neighbor, error) {
	if memberID == "" {
		return nil, errors.New("member id is required")
	}

	res, err := r.client.ExecuteRead(ctx, activeRelationshipsCypher, map[string]any{
		"memberId": memberID,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch active relationships for %s: %w", memberID, err)
	}

	neighbors := make([]domain.Neighbor, 0, len(res.Records))
	for _, record := range res.Records {
		neighbors = append(neighbors, domain.Neighbor{
			Member:   memberFromRecord(record),
			Strength: toFloat64(record["strength"]),
		})
	}
	return neighbors, nil
}

// RelationshipExists reports whether an ACTIVE connection exists between
// the specific member pair. Routing relies on this being a pair-level
// check against stored edges, never an inference from shared neighbors.
func (r *Repository) RelationshipExists(ctx context.Context, memberA, memberB string) (bool, error) {
	if memberA == "" || memberB == "" {
		return false, errors.New("both member ids are required")
	}

	res, err := r.client.ExecuteRead(ctx, relationshipExistsCypher, map[string]any{
		"memberA": memberA,
		"memberB": memberB,
	})
	if err != nil {
		return false, fmt.Errorf("check relationship %s-%s: %w", memberA, memberB, err)
	}

	record, ok := res.First()
	if !ok {
		return false, nil
	}
	return toBool(record["connected"]), nil
}

// MembersRatingOrganization returns every member holding a rating whose
// organization name or slug case-insensitively contains the target.
// Multiple ratings by the same member collapse to the most recent one.
func (r *Repository) MembersRatingOrganization(ctx context.Context, target string) ([]domain.OrganizationRater, error) {
	pattern := strings.ToLower(strings.TrimSpace(target))
	if pattern == "" {
		return nil, errors.New("target organization is required")
	}

	res, err := r.client.ExecuteRead(ctx, membersRatingOrganizationCypher, map[string]any{
		"pattern": pattern,
	})
	if err != nil {
		return nil, fmt.Errorf("find members rating %q: %w", target, err)
	}

	seen := make(map[string]struct{}, len(res.Records))
	raters := make([]domain.OrganizationRater, 0, len(res.Records))
	for _, record := range res.Records {
		member := memberFromRecord(record)
		if member.ID == "" {
			continue
		}
		// Records arrive most recent first; keep only the first per member.
		if _, ok := seen[member.ID]; ok {
			continue
		}
		seen[member.ID] = struct{}{}
		raters = append(raters, domain.OrganizationRater{
			Member:       member,
			Score:        toFloat64(record["score"]),
			Relationship: toString(record["relationship"]),
		})
	}
	return raters, nil
}

// MemberTrustProxy returns the mean of a member's received peer-review
// scores, defaulting when the member has none.
func (r *Repository) MemberTrustProxy(ctx context.Context, memberID string) (float64, error) {
	if memberID == "" {
		return 0, errors.New("member id is required")
	}

	res, err := r.client.ExecuteRead(ctx, memberTrustProxyCypher, map[string]any{
		"memberId": memberID,
	})
	if err != nil {
		return 0, fmt.Errorf("fetch trust proxy for %s: %w", memberID, err)
	}

	record, ok := res.First()
	if !ok {
		return domain.DefaultTrustProxy, nil
	}
	return toFloat64(record["trustProxy"]), nil
}

// FindHubMember looks up the designated hub member by exact member ID or
// email. Its trust proxy is recomputed from current reviews on every
// call. A missing hub is a normal state, reported through found=false.
func (r *Repository) FindHubMember(ctx context.Context, memberID, email string) (domain.Member, bool, error) {
	memberID = strings.TrimSpace(memberID)
	email = strings.ToLower(strings.TrimSpace(email))
	if memberID == "" && email == "" {
		return domain.Member{}, false, nil
	}

	res, err := r.client.ExecuteRead(ctx, findHubMemberCypher, map[string]any{
		"memberId": memberID,
		"email":    email,
	})
	if err != nil {
		return domain.Member{}, false, fmt.Errorf("resolve hub member: %w", err)
	}

	record, ok := res.First()
	if !ok {
		return domain.Member{}, false, nil
	}
	return memberFromRecord(record), true, nil
}

// ListIndustries returns industries with organization counts, sorted by
// count descending then name.
func (r *Repository) ListIndustries(ctx context.Context) ([]domain.IndustryCount, error) {
	res, err := r.client.ExecuteRead(ctx, listIndustriesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list industries: %w", err)
	}

	industries := make([]domain.IndustryCount, 0, len(res.Records))
	for _, record := range res.Records {
		industries = append(industries, domain.IndustryCount{
			Industry:      toString(record["industry"]),
			Organizations: toInt64(record["organizations"]),
		})
	}
	return industries, nil
}

// ListOrganizationsByIndustry returns organizations whose industry
// case-insensitively contains the query, ranked by rating count.
func (r *Repository) ListOrganizationsByIndustry(ctx context.Context, industry string) ([]domain.OrganizationSummary, error) {
	res, err := r.client.ExecuteRead(ctx, organizationsByIndustryCypher, map[string]any{
		"industry": strings.ToLower(strings.TrimSpace(industry)),
	})
	if err != nil {
		return nil, fmt.Errorf("list organizations for industry %q: %w", industry, err)
	}

	orgs := make([]domain.OrganizationSummary, 0, len(res.Records))
	for _, record := range res.Records {
		orgs = append(orgs, domain.OrganizationSummary{
			Name:         toString(record["name"]),
			Slug:         toString(record["slug"]),
			Industry:     toString(record["industry"]),
			RatingCount:  toInt64(record["ratingCount"]),
			AverageScore: toFloat64(record["averageScore"]),
		})
	}
	return orgs, nil
}

// UpsertMember ensures a member node exists with the latest profile data.
func (r *Repository) UpsertMember(ctx context.Context, member domain.Member) error {
	if member.ID == "" {
		return errors.New("member id is required")
	}

	industry := member.Industry
	if industry == "" {
		industry = domain.DefaultIndustry
	}

	_, err := r.client.ExecuteWrite(ctx, upsertMemberCypher, map[string]any{
		"memberId": member.ID,
		"props": map[string]any{
			"fullName":     member.FullName,
			"email":        strings.ToLower(strings.TrimSpace(member.Email)),
			"organization": member.Organization,
			"industry":     industry,
			"role":         member.Role,
			"avatarUrl":    member.AvatarURL,
		},
	})
	if err != nil {
		return fmt.Errorf("upsert member %s: %w", member.ID, err)
	}
	return nil
}

// UpsertConnection stores a mutual edge between two members.
func (r *Repository) UpsertConnection(ctx context.Context, conn domain.Connection) error {
	if conn.MemberA == "" || conn.MemberB == "" {
		return errors.New("both member ids are required")
	}

	status := strings.ToUpper(strings.TrimSpace(conn.Status))
	if status == "" {
		status = domain.ConnectionActive
	}
	strength := conn.Strength
	if strength <= 0 {
		strength = domain.DefaultRelationshipStrength
	}

	_, err := r.client.ExecuteWrite(ctx, upsertConnectionCypher, map[string]any{
		"memberA":  conn.MemberA,
		"memberB":  conn.MemberB,
		"status":   status,
		"strength": strength,
	})
	if err != nil {
		return fmt.Errorf("upsert connection %s-%s: %w", conn.MemberA, conn.MemberB, err)
	}
	return nil
}

// UpsertRating stores a member's trust signal against an organization,
// creating the organization node when it does not exist yet.
func (r *Repository) UpsertRating(ctx context.Context, rating domain.OrganizationRating) error {
	if rating.MemberID == "" || rating.Organization == "" {
		return errors.New("member id and organization are required")
	}

	slug := rating.Slug
	if slug == "" {
		slug = Slugify(rating.Organization)
	}
	industry := rating.Industry
	if industry == "" {
		industry = domain.DefaultIndustry
	}

	_, err := r.client.ExecuteWrite(ctx, upsertRatingCypher, map[string]any{
		"memberId":     rating.MemberID,
		"name":         rating.Organization,
		"slug":         slug,
		"industry":     industry,
		"score":        rating.Score,
		"relationship": rating.Relationship,
		"createdAt":    time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("upsert rating %s->%s: %w", rating.MemberID, rating.Organization, err)
	}
	return nil
}

// UpsertReview stores a member-to-member peer review score.
func (r *Repository) UpsertReview(ctx context.Context, review domain.PeerReview) error {
	if review.RaterID == "" || review.SubjectID == "" {
		return errors.New("rater and subject ids are required")
	}

	_, err := r.client.ExecuteWrite(ctx, upsertReviewCypher, map[string]any{
		"raterId":   review.RaterID,
		"subjectId": review.SubjectID,
		"score":     review.Score,
	})
	if err != nil {
		return fmt.Errorf("upsert review %s->%s: %w", review.RaterID, review.SubjectID, err)
	}
	return nil
}

// Slugify builds a lowercase, hyphen-separated slug from an organization name.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func memberFromRecord(record graph.Record) domain.Member {
	industry := toString(record["industry"])
	if industry == "" {
		industry = domain.DefaultIndustry
	}
	return domain.Member{
		ID:           toString(record["memberId"]),
		FullName:     toString(record["fullName"]),
		Email:        toString(record["email"]),
		Organization: toString(record["organization"]),
		Industry:     industry,
		Role:         toString(record["role"]),
		AvatarURL:    toString(record["avatarUrl"]),
		TrustProxy:   toFloat64(record["trustProxy"]),
	}
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func toBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int64:
		return v > 0
	default:
		return false
	}
}

const activeRelationshipsCypher = `
MATCH (m:Member {memberId: $memberId})-[c:CONNECTED_TO]-(peer:Member)
WHERE toUpper(coalesce(c.status, "")) = "ACTIVE"
OPTIONAL MATCH (peer)<-[rev:REVIEWED]-(:Member)
RETURN peer.memberId AS memberId,
       coalesce(peer.fullName, "") AS fullName,
       coalesce(peer.email, "") AS email,
       coalesce(peer.organization, "") AS organization,
       coalesce(peer.industry, "") AS industry,
       coalesce(peer.role, "") AS role,
       coalesce(peer.avatarUrl, "") AS avatarUrl,
       coalesce(c.strength, 0.7) AS strength,
       coalesce(avg(rev.score), 3.5) AS trustProxy
ORDER BY peer.memberId
`

const relationshipExistsCypher = `
MATCH (a:Member {memberId: $memberA})-[c:CONNECTED_TO]-(b:Member {memberId: $memberB})
WHERE toUpper(coalesce(c.status, "")) = "ACTIVE"
RETURN count(c) > 0 AS connected
`

const membersRatingOrganizationCypher = `
MATCH (m:Member)-[r:RATED]->(o:Organization)
WHERE toLower(o.name) CONTAINS $pattern
   OR toLower(coalesce(o.slug, "")) CONTAINS $pattern
OPTIONAL MATCH (m)<-[rev:REVIEWED]-(:Member)
WITH m, r, coalesce(avg(rev.score), 3.5) AS trustProxy
RETURN m.memberId AS memberId,
       coalesce(m.fullName, "") AS fullName,
       coalesce(m.email, "") AS email,
       coalesce(m.organization, "") AS organization,
       coalesce(m.industry, "") AS industry,
       coalesce(m.role, "") AS role,
       coalesce(m.avatarUrl, "") AS avatarUrl,
       trustProxy,
       r.score AS score,
       coalesce(r.relationship, "") AS relationship
ORDER BY r.createdAt DESC, m.memberId
`

const memberTrustProxyCypher = `
MATCH (m:Member {memberId: $memberId})
OPTIONAL MATCH (m)<-[rev:REVIEWED]-(:Member)
RETURN coalesce(avg(rev.score), 3.5) AS trustProxy
`

const findHubMemberCypher = `
MATCH (m:Member)
WHERE ($memberId <> "" AND m.memberId = $memberId)
   OR ($memberId = "" AND $email <> "" AND toLower(coalesce(m.email, "")) = $email)
OPTIONAL MATCH (m)<-[rev:REVIEWED]-(:Member)
RETURN m.memberId AS memberId,
       coalesce(m.fullName, "") AS fullName,
       coalesce(m.email, "") AS email,
       coalesce(m.organization, "") AS organization,
       coalesce(m.industry, "") AS industry,
       coalesce(m.role, "") AS role,
       coalesce(m.avatarUrl, "") AS avatarUrl,
       coalesce(avg(rev.score), 4.5) AS trustProxy
LIMIT 1
`

const listIndustriesCypher = `
MATCH (o:Organization)
WITH coalesce(o.industry, "General") AS industry, count(o) AS organizations
RETURN industry, organizations
ORDER BY organizations DESC, industry ASC
`

const organizationsByIndustryCypher = `
MATCH (o:Organization)
WHERE $industry = "" OR toLower(coalesce(o.industry, "")) CONTAINS $industry
OPTIONAL MATCH (:Member)-[r:RATED]->(o)
RETURN o.name AS name,
       coalesce(o.slug, "") AS slug,
       coalesce(o.industry, "General") AS industry,
       count(r) AS ratingCount,
       coalesce(avg(r.score), 0.0) AS averageScore
ORDER BY ratingCount DESC, toLower(o.name) ASC
`

const upsertMemberCypher = `
MERGE (m:Member {memberId: $memberId})
SET m += $props
RETURN m.memberId AS memberId
`

const upsertConnectionCypher = `
MATCH (a:Member {memberId: $memberA})
MATCH (b:Member {memberId: $memberB})
MERGE (a)-[c:CONNECTED_TO]-(b)
SET c.status = $status,
    c.strength = $strength
RETURN a.memberId AS memberId
`

const upsertRatingCypher = `
MATCH (m:Member {memberId: $memberId})
MERGE (o:Organization {slug: $slug})
SET o.name = $name,
    o.industry = $industry
MERGE (m)-[r:RATED]->(o)
SET r.score = $score,
    r.relationship = $relationship,
    r.createdAt = $createdAt
RETURN o.slug AS slug
`

const upsertReviewCypher = `
MATCH (rater:Member {memberId: $raterId})
MATCH (subject:Member {memberId: $subjectId})
MERGE (rater)-[rev:REVIEWED]->(subject)
SET rev.score = $score
RETURN subject.memberId AS memberId
`
