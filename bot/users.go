package bot

import (
	"context"
	"sync"

	"github.com/nlopes/slack"
)

// userCache resolves user IDs to display names via the Slack users API and
// keeps the answers for the life of the process. Lookups that fail fall
// back to the raw ID so replies still render.
type userCache struct {
	mu    sync.Mutex
	api   *slack.Client
	logf  Logger
	names map[string]string
}

func newUserCache(api *slack.Client, logf Logger) *userCache {
	return &userCache{
		api:   api,
		logf:  logf,
		names: make(map[string]string),
	}
}

func (c *userCache) displayName(ctx context.Context, userID string) string {
	c.mu.Lock()
	name, ok := c.names[userID]
	c.mu.Unlock()
	if ok {
		return name
	}

	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		c.logf("failed to look up user %s: %v\n", userID, err)
		return userID
	}

	name = user.Profile.DisplayName
	if name == "" {
		name = user.Profile.RealName
	}
	if name == "" {
		name = user.Name
	}

	c.mu.Lock()
	c.names[userID] = name
	c.mu.Unlock()
	return name
}
