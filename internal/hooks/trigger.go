package hooks

import (
	"slices"
	"strings"

	"github.com/discli/discli/internal/discord"
)

// Matches reports whether the trigger condition holds for a message.
//
// Mention never matches: resolving a mention needs the bot's own user
// id, which the listener does not track. The gap is deliberate and
// surfaced at compile time by the listen command.
func (t Trigger) Matches(msg discord.Message) bool {
	switch t.Kind {
	case TriggerAny:
		return true
	case TriggerPrefix:
		return strings.HasPrefix(msg.Content, t.Prefix)
	case TriggerContains:
		return strings.Contains(msg.Content, t.Substring)
	case TriggerRegex:
		return t.Pattern.MatchString(msg.Content)
	case TriggerMention:
		return false
	}
	return false
}

// matchesChannels checks channel-set membership by string equality.
func matchesChannels(channels []string, channelID string) bool {
	return slices.Contains(channels, channelID)
}

// matchesFilter applies the user allow-list. An empty or absent list
// allows everyone; the role list is accepted but never enforced.
func matchesFilter(filter *FilterConfig, authorID string) bool {
	if filter == nil || len(filter.Users) == 0 {
		return true
	}
	return slices.Contains(filter.Users, authorID)
}

// ShouldTrigger reports whether a message fires a hook. Checks run
// cheapest first and short-circuit: channel membership, then the
// trigger, then the user filter.
func ShouldTrigger(hook *CompiledHook, msg discord.Message) bool {
	if !matchesChannels(hook.Channels, msg.ChannelID) {
		return false
	}
	if !hook.Trigger.Matches(msg) {
		return false
	}
	return matchesFilter(hook.Filter, msg.Author.ID)
}
