package service

import (
	"context"
	"log/slog"

	"github.com/anika/trustpath/backend/internal/domain"
)

// HubResolver identifies the designated fallback broker. A network
// without a hub is a normal state, reported through found=false rather
// than an error.
type HubResolver interface {
	Resolve(ctx context.Context) (domain.Member, bool, error)
}

// HubDirectory is the lookup the configured resolver needs from the
// member store.
type HubDirectory interface {
	FindHubMember(ctx context.Context, memberID, email string) (domain.Member, bool, error)
}

// ConfiguredHubResolver resolves the hub from an injected identity rule
// (member ID, with email as fallback) instead of a hardcoded account
// check, so the rule can change without touching routing.
type ConfiguredHubResolver struct {
	directory HubDirectory
	memberID  string
	email     string
	logger    *slog.Logger
}

// NewConfiguredHubResolver builds a resolver for the given identity rule.
func NewConfiguredHubResolver(directory HubDirectory, memberID, email string, logger *slog.Logger) *ConfiguredHubResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfiguredHubResolver{
		directory: directory,
		memberID:  memberID,
		email:     email,
		logger:    logger,
	}
}

// Resolve looks the hub up fresh so its trust proxy reflects current
// reviews. Store failures degrade to "no hub" per the engine's
// best-effort policy.
func (r *ConfiguredHubResolver) Resolve(ctx context.Context) (domain.Member, bool, error) {
	if r.memberID == "" && r.email == "" {
		return domain.Member{}, false, nil
	}

	hub, found, err := r.directory.FindHubMember(ctx, r.memberID, r.email)
	if err != nil {
		r.logger.Warn("hub resolution failed, continuing without hub", "error", err)
		return domain.Member{}, false, nil
	}
	if found && hub.TrustProxy == 0 {
		hub.TrustProxy = domain.DefaultHubTrustProxy
	}
	return hub, found, nil
}
