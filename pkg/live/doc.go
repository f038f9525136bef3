// Package live serves rendered documents over HTTP and drives them from a
// remote client over a WebSocket.
//
// Every GET / starts a session: a fresh htmldoc.Document with the app
// rendered into its body. The page carries the session ID and a small client
// that forwards events on elements stamped with data-rid:
//
//	→ {"type":"event","target":"r1","event":"click"}
//	← {"type":"html","html":"<div>...</div>"}
//
// The event runs the element's listeners synchronously, so any state update
// it triggers has been reconciled before the reply is serialized.
//
// Routes:
//
//	GET    /                 new session, full page
//	GET    /ws?session=<id>  WebSocket event channel
//	GET    /sessions/{id}    current body HTML for a session
//	DELETE /sessions/{id}    close a session
//	GET    /metrics          Prometheus handler, when configured
package live
