package mqtt

import "fmt"

// Topic prefixes for the HouseAgent MQTT namespace.
//
// Plugin topics are keyed by the plugin's authcode, not its database id:
// the authcode is what a plugin knows about itself before it has ever
// been registered.
const (
	// TopicPrefix is the root of all HouseAgent topics.
	TopicPrefix = "houseagent"

	// TopicPrefixPlugins is the base for per-plugin topics.
	TopicPrefixPlugins = "houseagent/plugins"

	// TopicPrefixValues is the base for per-value topics.
	TopicPrefixValues = "houseagent/values"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "houseagent/system"
)

// Topics provides builders for HouseAgent MQTT topics. Using these
// helpers keeps topic naming consistent between the coordinator facade
// and the plugins.
type Topics struct{}

// PluginStatus returns the retained status topic for one plugin.
//
// Example: houseagent/plugins/9f3c.../status
func (Topics) PluginStatus(authcode string) string {
	return fmt.Sprintf("%s/%s/status", TopicPrefixPlugins, authcode)
}

// AllPluginStatus returns the wildcard pattern matching every plugin's
// status topic.
func (Topics) AllPluginStatus() string {
	return TopicPrefixPlugins + "/+/status"
}

// PluginCommand returns the topic a command for one plugin is published
// on. The request id correlates the command with its reply.
//
// Example: houseagent/plugins/9f3c.../commands/req-abc123
func (Topics) PluginCommand(authcode, requestID string) string {
	return fmt.Sprintf("%s/%s/commands/%s", TopicPrefixPlugins, authcode, requestID)
}

// PluginReply returns the topic a plugin answers one command on.
//
// Example: houseagent/plugins/9f3c.../replies/req-abc123
func (Topics) PluginReply(authcode, requestID string) string {
	return fmt.Sprintf("%s/%s/replies/%s", TopicPrefixPlugins, authcode, requestID)
}

// ValueUpdate returns the topic a plugin pushes value updates on.
//
// Example: houseagent/values/42/update
func (Topics) ValueUpdate(valueID string) string {
	return fmt.Sprintf("%s/%s/update", TopicPrefixValues, valueID)
}

// AllValueUpdates returns the wildcard pattern matching every value
// update topic.
func (Topics) AllValueUpdates() string {
	return TopicPrefixValues + "/+/update"
}

// SystemStatus returns the retained online/offline topic for this service.
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
