/*
Package lightstreamer is a push-transport client speaking the Lightstreamer
TLCP text protocol over a WebSocket.

# Flow
 1. Dial opens the socket, exchanges wsok/WSOK and creates a session (CONOK).
 2. Subscribe sends a control add request and blocks on REQOK/REQERR.
 3. A single read goroutine decodes U lines, merges them into per-item state
    and invokes the subscription handler synchronously.
 4. END, ERROR, LOOP and socket failures are fatal: the client closes itself
    and reports the error once through the ErrorHandler.

The client never reconnects.
*/
package lightstreamer
