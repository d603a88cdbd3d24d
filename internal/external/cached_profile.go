package external

import (
	"context"

	"spark-chat/internal/domain/user"
	sparkredis "spark-chat/internal/redis"
	"spark-chat/pkg/logger"

	"go.uber.org/zap"
)

type profileSource interface {
	GetProfile(ctx context.Context, userID string) (user.Profile, error)
}

// CachedProfileProvider reads through the Redis profile cache. Cache
// failures fall back to the profile service.
type CachedProfileProvider struct {
	source profileSource
	cache  *sparkredis.CacheStore
	logger *logger.Logger
}

func NewCachedProfileProvider(source profileSource, cache *sparkredis.CacheStore, l *logger.Logger) *CachedProfileProvider {
	if l == nil {
		l = logger.NewNop()
	}
	return &CachedProfileProvider{source: source, cache: cache, logger: l.Named("profile_cache")}
}

func (p *CachedProfileProvider) GetProfile(ctx context.Context, userID string) (user.Profile, error) {
	cached, err := p.cache.GetProfile(ctx, userID)
	if err != nil {
		p.logger.WithContext(ctx).Warn("profile cache read failed", zap.String("profile_user_id", userID), zap.Error(err))
	}
	if cached != nil {
		return user.Profile{
			UserID:        cached.UserID,
			Name:          cached.Name,
			ContactHandle: cached.ContactHandle,
			AvatarRef:     cached.AvatarRef,
		}, nil
	}

	profile, err := p.source.GetProfile(ctx, userID)
	if err != nil {
		return user.Profile{}, err
	}

	if err := p.cache.SetProfile(ctx, &sparkredis.ProfileCache{
		UserID:        profile.UserID,
		Name:          profile.Name,
		ContactHandle: profile.ContactHandle,
		AvatarRef:     profile.AvatarRef,
	}); err != nil {
		p.logger.WithContext(ctx).Warn("profile cache write failed", zap.String("profile_user_id", userID), zap.Error(err))
	}
	return profile, nil
}
