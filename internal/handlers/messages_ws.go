// messages_ws.go
//
// A Go Fiber storefront backend: catalog, accounts, product images and realtime presence
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of storefront.
// storefront is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// storefront is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with storefront.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"context"
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/localnerve/storefront/internal/middleware"
	"github.com/localnerve/storefront/internal/presence"
	"github.com/localnerve/storefront/internal/services"
	"go.uber.org/zap"
)

const wsTokenKey = "wsToken"

// MessagesHandler serves the realtime chat and presence channel
type MessagesHandler struct {
	Tokens   *services.TokenIssuer
	Registry *presence.Registry
	Log      *zap.Logger
}

type incomingMessage struct {
	Event string               `json:"event"`
	Data  presence.ChatMessage `json:"data"`
}

// Upgrade handles GET /api/ws before the websocket handshake, capturing the token
// @Summary Realtime channel
// @Description Websocket upgrade. Send the token in the authentication header,
// @Description an Authorization bearer header or the token query parameter.
// @Tags Messages
// @Param token query string false "Bearer token"
// @Success 101
// @Failure 426 {object} utils.ErrorResponseStruct
// @Router /ws [get]
func (h *MessagesHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals(wsTokenKey, middleware.BearerToken(c))
	return c.Next()
}

// Handler returns the websocket endpoint
func (h *MessagesHandler) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		token, _ := conn.Locals(wsTokenKey).(string)
		peer := presence.NewPeer(uuid.NewString(), conn)
		h.session(context.Background(), peer, token, func() ([]byte, error) {
			_, data, err := conn.ReadMessage()
			return data, err
		})
	})
}

// session runs one connection: register, relay messages until read fails, unregister
func (h *MessagesHandler) session(ctx context.Context, peer presence.Peer, token string, read func() ([]byte, error)) {
	claims, err := h.Tokens.Verify(token)
	if err == nil {
		err = h.Registry.RegisterClient(ctx, peer, claims.ID)
	}
	if err != nil {
		h.Log.Debug("Rejected realtime client", zap.String("conn", peer.ID()), zap.Error(err))
		_ = peer.Close()
		return
	}

	h.Registry.BroadcastClients()
	defer func() {
		h.Registry.RemoveClient(peer.ID())
		h.Registry.BroadcastClients()
	}()

	for {
		data, err := read()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Log.Debug("Realtime client dropped", zap.String("conn", peer.ID()), zap.Error(err))
			}
			return
		}

		var msg incomingMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.Log.Debug("Ignoring malformed realtime message", zap.String("conn", peer.ID()), zap.Error(err))
			continue
		}

		if msg.Event == presence.EventMessageFromClient {
			h.Registry.Relay(peer.ID(), msg.Data.Message)
		}
	}
}
