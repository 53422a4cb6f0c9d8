/*
Package wschat is an implementation of a WebSocket server which relays chat
between clients in named rooms.

wsd subdirectory contains the WebSocket-related pieces which know nothing
about chat.

chat subdirectory contains the chat-related pieces which know nothing about
WebSockets.

The Host type is the glue between the wsd and chat pieces.
*/
package wschat
