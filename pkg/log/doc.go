/*
Package log provides structured logging for the SDK using zerolog.

The log package wraps zerolog to provide JSON-structured logging with
component-specific loggers, configurable log levels, and helper functions for
common logging patterns. All logs include timestamps and support filtering by
severity level.

# Usage

Initializing the Logger:

	import "github.com/tonlabs/ever-sdk-go/pkg/log"

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

Simple Logging:

	log.Info("monitor started")
	log.Debug("polling for resolved messages")
	log.Warn("resubscription triggered by queue growth")
	log.Error("subscription failed")

Context Loggers:

	queueLog := log.WithQueue("payouts")
	queueLog.Info().Int("admitted", len(messages)).Msg("messages admitted")

	subLog := log.WithSubscription(sub.ID)
	subLog.Debug().Msg("subscription opened")

	msgLog := log.WithMessageHash(hash)
	msgLog.Warn().Err(err).Msg("message rejected")

# Design Patterns

Global Logger Pattern:
  - Single package-level Logger instance, initialized once via log.Init()
  - Accessible from all packages without passing a logger through every call

Context Logger Pattern:
  - Create child loggers carrying queue, subscription, or message-hash fields
  - Pass the child logger down instead of repeating the field at every call site

# Best Practices

Do:
  - Use Info level in production, Debug for development
  - Scope loggers to a queue or subscription before logging inside it
  - Log errors with .Err() so they carry structured context

Don't:
  - Log raw message BOCs or signatures
  - Concatenate strings into the message; use typed fields instead
*/
package log
