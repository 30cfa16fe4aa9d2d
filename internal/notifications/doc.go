// Package notifications delivers review alerts to Slack when a blog draft
// lands or the pipeline fails. Without a webhook URL configured, a noop
// implementation is used so callers never branch on configuration.
package notifications
