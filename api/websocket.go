package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/tifye/shopsim/assert"
	"github.com/tifye/shopsim/stream"
)

var (
	// writeWait bounds how long a broadcast may wait on one client.
	writeWait = 5 * time.Second

	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
)

// handleWebsocketConn streams previews and settled days to the
// client until it disconnects.
func handleWebsocketConn(logger *log.Logger, feed *stream.Feed) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(feed)

	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			logger.Error(err)
			return err
		}
		defer conn.Close()

		channelID := feed.Connect(stream.WriterFunc(func(data []byte) (n int, err error) {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return 0, err
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				// A failed write leaves the connection unusable. Closing
				// it ends the read loop below, which disconnects the channel.
				conn.Close()
				return 0, err
			}
			return len(data), nil
		}))
		defer feed.Disconnect(channelID)

		logger.Debug("feed channel connected", "channelID", channelID)

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				logger.Debug("ws read", "err", err, "id", channelID)
				break
			}

			if err = feed.Message(channelID, msg); err != nil {
				logger.Warn("feed message", "err", err, "id", channelID)
			}
		}

		return nil
	}
}
