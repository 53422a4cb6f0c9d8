/*
`chat` package is a transport-agnostic implementation of the chat relay
core: rooms with broadcast fan-out, the per-connection user actor, and the
closed slash-command set.

This package should not know anything about sockets. It consumes only a
send capability per user (SendFunc) and exposes the Registry for looking
up rooms by name.
*/

package chat
