/*
Package session serializes turns against a task list Store.

The Store is single-threaded: every intent, together with the render that follows it, is one
turn. Front-ends that receive intents concurrently (the HTTP and MCP servers) run each one
through a Manager. When several processes share one slot, a DistributedLocker makes the turns
mutually exclusive across processes and the Store is refreshed from the slot at the start of
each turn.
*/
package session
