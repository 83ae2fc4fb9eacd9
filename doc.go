// Package logan is a local developer log viewer. Init starts an embedded
// HTTP server on a free loopback port and returns a Viewer handle; log
// calls made through the handle are captured with their call site and
// optional error context, posted to the server fire-and-forget, and
// streamed live to any browser watching the viewer page.
//
// A nil Viewer still works: log calls fall back to rendering on the
// console and never touch the network.
package logan
