package exchange

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

// ErrUnrecognizedFormat is returned by converters for identifiers that match
// neither the expected separator nor the expected quote suffix. Feeds drop
// such samples at the boundary; nothing un-normalized reaches the ledger.
var ErrUnrecognizedFormat = errors.New("unrecognized asset identifier format")

// Converter maps between an exchange's native identifier spelling and the
// canonical "FIAT-BASE" code used everywhere inside the process.
type Converter interface {
	// ToCanonical translates a native id (e.g. "BTC_KRW", "BTCUSDT")
	// to the canonical form ("KRW-BTC").
	ToCanonical(native string) (string, error)
	// ToNative translates a canonical code back to the exchange's
	// wire spelling, as used in subscription requests.
	ToNative(code string) (string, error)
}

// WSHelper provides the common WebSocket plumbing shared by the feeds.
type WSHelper struct {
	URL string
}

// Dial opens the connection with a bounded handshake timeout.
func (w *WSHelper) Dial(ctx context.Context) (*websocket.Conn, error) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	conn, _, err := websocket.DefaultDialer.DialContext(cctx, w.URL, nil)
	return conn, err
}

// ReadWithPing pumps inbound frames into onMessage while keeping the
// connection alive with periodic pings and a rolling read deadline. It
// returns on ctx cancellation or the first transport error, closing the
// connection and joining the reader goroutine first, so no onMessage call
// is in flight once it returns. onMessage must not block indefinitely after
// ctx is cancelled.
func ReadWithPing(ctx context.Context, conn *websocket.Conn, onMessage func([]byte)) error {
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	pingTicker := time.NewTicker(25 * time.Second)
	defer pingTicker.Stop()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for {
			_, b, err := conn.ReadMessage()
			if err != nil {
				errCh <- err
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			onMessage(b)
		}
	}()

	// Closing the conn unblocks a pending ReadMessage; the drain waits for
	// the reader to exit before control returns to the caller.
	defer func() {
		_ = conn.Close()
		<-errCh
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-pingTicker.C:
			_ = conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
		}
	}
}
