package web

import (
	"context"

	"vpn-subpage/internal/state"
	"vpn-subpage/internal/stories/subs"
	"vpn-subpage/internal/stories/subscription"
)

type (
	SubscriptionLoader interface {
		Load(ctx context.Context, userID string) (subscription.UserSubscription, error)
	}

	Renderer interface {
		Page(st *state.State, lang string) ([]byte, error)
		Error(lang, retryURL string) ([]byte, error)
		Alert(lang, key string) ([]byte, error)
	}

	LinkResolver interface {
		CopyPayload(userID string) string
		Import(providerID, userID string) (string, error)
	}

	LanguageNegotiator interface {
		Negotiate(explicit, acceptLanguage string) string
	}

	Metrics interface {
		PageRendered(platform string)
		ImportRedirected(provider string)
	}

	// OverviewProvider backs the built-in subscription API.
	OverviewProvider interface {
		Overview(ctx context.Context, telegramID string) (*subs.Overview, error)
	}
)
