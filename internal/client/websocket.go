package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WSClient represents a WebSocket client for Solana account subscriptions
type WSClient struct {
	url            string
	conn           *websocket.Conn
	logger         *logrus.Logger
	mu             sync.RWMutex
	subscriptions  map[int]*Subscription
	nextID         int
	ctx            context.Context
	cancel         context.CancelFunc
	reconnectDelay time.Duration

	messagesReceived int
	messagesSent     int
	reconnectCount   int
	lastActivity     time.Time
}

// Subscription tracks a single accountSubscribe request
type Subscription struct {
	ID          int
	Method      string
	Params      interface{}
	Handler     EventHandler
	Active      bool
	Created     time.Time
	LastMessage time.Time
}

// EventHandler handles WebSocket events
type EventHandler func(data interface{}) error

// WSMessage is the JSON-RPC envelope used by the Solana WebSocket API
type WSMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *int              `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  interface{}       `json:"params,omitempty"`
	Result  interface{}       `json:"result,omitempty"`
	Error   *jsonrpc.RPCError `json:"error,omitempty"`
}

// AccountNotification represents an account change notification
type AccountNotification struct {
	Subscription int `json:"subscription"`
	Result       struct {
		Context struct {
			Slot uint64 `json:"slot"`
		} `json:"context"`
		Value struct {
			Lamports uint64      `json:"lamports"`
			Owner    string      `json:"owner"`
			Data     interface{} `json:"data"`
		} `json:"value"`
	} `json:"result"`
}

// NewWSClient creates a new WebSocket client
func NewWSClient(url string, logger *logrus.Logger) *WSClient {
	ctx, cancel := context.WithCancel(context.Background())

	return &WSClient{
		url:            url,
		logger:         logger,
		subscriptions:  make(map[int]*Subscription),
		ctx:            ctx,
		cancel:         cancel,
		reconnectDelay: 5 * time.Second,
		lastActivity:   time.Now(),
	}
}

// Connect establishes the WebSocket connection
func (ws *WSClient) Connect() error {
	ws.logger.WithField("url", ws.url).Info("🔌 Connecting to Solana WebSocket...")

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, resp, err := dialer.Dial(ws.url, nil)
	if err != nil {
		if resp != nil {
			ws.logger.WithFields(logrus.Fields{
				"status":      resp.Status,
				"status_code": resp.StatusCode,
				"url":         ws.url,
			}).Error("❌ WebSocket connection failed")
		}
		return fmt.Errorf("failed to connect to WebSocket: %w", err)
	}

	ws.mu.Lock()
	ws.conn = conn
	ws.lastActivity = time.Now()
	ws.mu.Unlock()

	ws.logger.WithFields(logrus.Fields{
		"url":    ws.url,
		"status": "connected",
	}).Info("✅ WebSocket connected successfully")

	conn.SetReadLimit(1024 * 1024) // 1MB read limit
	conn.SetPongHandler(func(string) error {
		ws.mu.Lock()
		ws.lastActivity = time.Now()
		ws.mu.Unlock()
		return nil
	})

	go ws.handleMessages()
	go ws.pingHandler()

	return nil
}

// Disconnect closes the WebSocket connection
func (ws *WSClient) Disconnect() error {
	ws.cancel()

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.conn != nil {
		err := ws.conn.Close()
		ws.conn = nil
		return err
	}

	return nil
}

// Subscribe subscribes to a WebSocket method
func (ws *WSClient) Subscribe(method string, params interface{}, handler EventHandler) (int, error) {
	ws.mu.Lock()
	id := ws.nextID
	ws.nextID++
	ws.mu.Unlock()

	subscription := &Subscription{
		ID:      id,
		Method:  method,
		Params:  params,
		Handler: handler,
		Active:  false,
		Created: time.Now(),
	}

	message := WSMessage{
		JSONRPC: "2.0",
		ID:      &id,
		Method:  method,
		Params:  params,
	}

	ws.logger.WithFields(logrus.Fields{
		"method": method,
		"id":     id,
	}).Info("📡 Sending WebSocket subscription request")

	if err := ws.sendMessage(message); err != nil {
		return 0, fmt.Errorf("failed to send subscription: %w", err)
	}

	ws.mu.Lock()
	ws.subscriptions[id] = subscription
	ws.mu.Unlock()

	return id, nil
}

// Unsubscribe cancels a subscription
func (ws *WSClient) Unsubscribe(id int) error {
	ws.mu.RLock()
	_, exists := ws.subscriptions[id]
	ws.mu.RUnlock()

	if !exists {
		return fmt.Errorf("subscription %d not found", id)
	}

	message := WSMessage{
		JSONRPC: "2.0",
		ID:      &id,
		Method:  "accountUnsubscribe",
		Params:  []interface{}{id},
	}

	if err := ws.sendMessage(message); err != nil {
		return fmt.Errorf("failed to send unsubscribe: %w", err)
	}

	ws.mu.Lock()
	delete(ws.subscriptions, id)
	ws.mu.Unlock()

	ws.logger.WithField("id", id).Info("🗑️ Subscription cancelled")
	return nil
}

// SubscribeToAccount subscribes to change notifications for one account.
// The handler fires on every write to the account, which for a candy
// machine means another mint landed or the authority updated the config.
func (ws *WSClient) SubscribeToAccount(address string, handler EventHandler) (int, error) {
	params := []interface{}{
		address,
		map[string]interface{}{
			"commitment": "confirmed",
			"encoding":   "base64",
		},
	}

	return ws.Subscribe("accountSubscribe", params, handler)
}

// sendMessage sends a message over WebSocket
func (ws *WSClient) sendMessage(message WSMessage) error {
	ws.mu.RLock()
	conn := ws.conn
	ws.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("WebSocket not connected")
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = conn.WriteMessage(websocket.TextMessage, data)
	if err == nil {
		ws.mu.Lock()
		ws.messagesSent++
		ws.lastActivity = time.Now()
		ws.mu.Unlock()
	}

	return err
}

// handleMessages handles incoming WebSocket messages
func (ws *WSClient) handleMessages() {
	defer ws.logger.Info("🛑 Message handler stopped")

	for {
		select {
		case <-ws.ctx.Done():
			return
		default:
			ws.mu.RLock()
			conn := ws.conn
			ws.mu.RUnlock()

			if conn == nil {
				ws.logger.Warn("⚠️ Connection lost, attempting to reconnect...")
				if err := ws.attemptReconnect(); err != nil {
					ws.logger.WithError(err).Error("❌ Reconnection failed")
					time.Sleep(ws.reconnectDelay)
					continue
				}
				continue
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					ws.logger.WithError(err).Error("❌ WebSocket read error")
				}

				ws.mu.Lock()
				ws.conn = nil
				ws.mu.Unlock()

				continue
			}

			ws.mu.Lock()
			ws.messagesReceived++
			ws.lastActivity = time.Now()
			ws.mu.Unlock()

			var message WSMessage
			if err := json.Unmarshal(data, &message); err != nil {
				ws.logger.WithError(err).Error("❌ Failed to unmarshal WebSocket message")
				continue
			}

			ws.handleMessage(message)
		}
	}
}

// handleMessage processes a single WebSocket message
func (ws *WSClient) handleMessage(message WSMessage) {
	// Handle subscription confirmations
	if message.ID != nil && message.Result != nil {
		ws.mu.RLock()
		subscription, exists := ws.subscriptions[*message.ID]
		ws.mu.RUnlock()

		if exists && !subscription.Active {
			subscription.Active = true
			subscription.LastMessage = time.Now()

			ws.logger.WithFields(logrus.Fields{
				"method": subscription.Method,
				"id":     *message.ID,
			}).Info("✅ WebSocket subscription confirmed")
		}
		return
	}

	// Handle error responses
	if message.Error != nil {
		ws.logger.WithFields(logrus.Fields{
			"code":    message.Error.Code,
			"message": message.Error.Message,
		}).Error("❌ WebSocket error received")
		return
	}

	// Handle notifications
	if message.Method == "accountNotification" {
		ws.handleAccountNotification(message.Params)
	}
}

// handleAccountNotification handles account change notifications
func (ws *WSClient) handleAccountNotification(params interface{}) {
	data, err := json.Marshal(params)
	if err != nil {
		ws.logger.WithError(err).Error("❌ Failed to marshal account notification")
		return
	}

	var notification AccountNotification
	if err := json.Unmarshal(data, &notification); err != nil {
		ws.logger.WithError(err).Error("❌ Failed to unmarshal account notification")
		return
	}

	ws.logger.WithFields(logrus.Fields{
		"subscription": notification.Subscription,
		"slot":         notification.Result.Context.Slot,
	}).Debug("📨 Account notification received")

	ws.mu.RLock()
	for _, subscription := range ws.subscriptions {
		if subscription.Method == "accountSubscribe" && subscription.Handler != nil {
			subscription.LastMessage = time.Now()
			go func(handler EventHandler) {
				if err := handler(notification); err != nil {
					ws.logger.WithError(err).Error("❌ Account notification handler error")
				}
			}(subscription.Handler)
		}
	}
	ws.mu.RUnlock()
}

// attemptReconnect attempts to reconnect and resubscribe
func (ws *WSClient) attemptReconnect() error {
	ws.mu.Lock()
	ws.reconnectCount++
	attempt := ws.reconnectCount
	ws.mu.Unlock()

	ws.logger.WithField("attempt", attempt).Info("🔄 Attempting to reconnect WebSocket...")

	if err := ws.Connect(); err != nil {
		return fmt.Errorf("reconnection failed: %w", err)
	}

	// Resubscribe to all previous subscriptions
	ws.mu.RLock()
	subscriptions := make([]*Subscription, 0, len(ws.subscriptions))
	for _, sub := range ws.subscriptions {
		subscriptions = append(subscriptions, sub)
	}
	ws.mu.RUnlock()

	resubscribed := 0
	for _, sub := range subscriptions {
		if _, err := ws.Subscribe(sub.Method, sub.Params, sub.Handler); err != nil {
			ws.logger.WithError(err).WithField("method", sub.Method).Error("❌ Failed to resubscribe")
		} else {
			resubscribed++
		}
	}

	ws.logger.WithFields(logrus.Fields{
		"reconnect_count": attempt,
		"resubscribed":    resubscribed,
	}).Info("✅ WebSocket reconnected successfully")

	return nil
}

// pingHandler sends periodic ping messages
func (ws *WSClient) pingHandler() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ws.ctx.Done():
			return
		case <-ticker.C:
			ws.mu.RLock()
			conn := ws.conn
			lastActivity := ws.lastActivity
			ws.mu.RUnlock()

			if conn != nil {
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					ws.logger.WithError(err).Debug("❌ Failed to send ping")
				}

				if time.Since(lastActivity) > 2*time.Minute {
					ws.logger.WithField("last_activity", lastActivity).Warn("⚠️ Connection appears stale")
				}
			}
		}
	}
}

// GetConnectionStats returns current connection statistics
func (ws *WSClient) GetConnectionStats() map[string]interface{} {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	activeSubscriptions := 0
	for _, sub := range ws.subscriptions {
		if sub.Active {
			activeSubscriptions++
		}
	}

	return map[string]interface{}{
		"messages_received":    ws.messagesReceived,
		"messages_sent":        ws.messagesSent,
		"active_subscriptions": activeSubscriptions,
		"total_subscriptions":  len(ws.subscriptions),
		"reconnect_count":      ws.reconnectCount,
		"last_activity":        ws.lastActivity,
		"connection_active":    ws.conn != nil,
	}
}
