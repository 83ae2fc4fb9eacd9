// Package broadcast implements the event broadcaster using the actor pattern.
//
// The Broadcaster receives ingested log events and fans each one out to the
// private inbox of every registered subscriber. A single goroutine + command
// channel serializes set membership and the fan-out sweep (no mutexes on the
// shared set); each subscriber's unbounded inbox keeps a slow consumer from
// ever blocking the producer.
package broadcast
