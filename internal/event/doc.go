// Package event stores automation rules and rebuilds them into the
// display shapes the events page expects. Rules are persisted as typed
// trigger, condition and action rows with free-form parameter bags;
// reconstruction resolves stored ids back to names and renders cron
// expressions and comparison operators as fixed sentences.
package event
