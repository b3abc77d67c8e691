// Package listener implements the keyboard response registry for
// trial-based experiments.
//
// The registry receives raw key-down/key-up events from a display root and
// fans them out to registered listeners. Listeners come in two modes:
//
//   - Normal listeners all receive every key-down. They may be one-shot
//     (removed on their first valid response, the default) or persistent.
//   - High-priority tickets form a strict FIFO queue. While the queue is
//     non-empty only the head ticket sees key-down events; normal listeners
//     receive nothing until the queue drains. Tickets are always one-shot.
//
// # Dispatch ordering
//
// Dispatch is synchronous. For each key-down the registry consults the
// priority queue first; if the head does not consume the event, nothing
// else runs. Otherwise every normal listener registered at dispatch start
// is invoked from a snapshot, so callbacks that register new listeners
// never see the event that triggered their own registration. A one-shot
// listener is deregistered before its callback fires, so a callback can
// re-register without tripping over its own dying entry.
//
// After dispatch completes the pressed key is marked held; key-up clears
// the mark. Held keys are rejected by validation unless the listener opted
// in, which keeps terminal auto-repeat from scoring as fresh responses.
// Held-key state is independent of listener churn: CancelAll clears every
// listener but leaves the held set alone.
//
// # Timing
//
// Each listener captures a start timestamp from its timing source at
// registration. Reaction times are the difference between the source's
// reading at key-down and that start, rounded to whole milliseconds for the
// performance clock. Responses faster than the listener's minimum valid
// reaction time are ignored and leave the listener armed.
package listener
