package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"icehc_portal/internal/repository"
	"icehc_portal/pkg/logger"
	"icehc_portal/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	shardCount     = 32
	onlineTTL      = 2 * time.Minute
)

var messagePool = sync.Pool{
	New: func() interface{} {
		return &WSMessage{}
	},
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Client struct {
	Hub      *DMHub
	Conn     *websocket.Conn
	Send     chan []byte
	MemberID uint
	Limiter  *rate.Limiter
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.Uint("memberId", c.MemberID))
			}
			break
		}

		if !c.Limiter.Allow() {
			continue
		}

		wsMsg := messagePool.Get().(*WSMessage)
		if err := json.Unmarshal(message, wsMsg); err != nil {
			messagePool.Put(wsMsg)
			continue
		}

		monitoring.WSMessageCounter.WithLabelValues(wsMsg.Type, "in").Inc()

		if wsMsg.Type == "TYPING" {
			if data, ok := wsMsg.Data.(map[string]interface{}); ok {
				if convID, _ := data["conversationId"].(string); convID != "" {
					c.Hub.HandleTransientEvent(c.MemberID, convID, *wsMsg)
				}
			}
		}
		messagePool.Put(wsMsg)
	}
}

// HandleTransientEvent forwards ephemeral events (typing indicators) to the
// other party without touching the database for every keystroke.
func (h *DMHub) HandleTransientEvent(senderID uint, convID string, msg WSMessage) {
	data, ok := msg.Data.(map[string]interface{})
	if !ok {
		return
	}
	data["memberId"] = senderID
	msg.Data = data

	if h.ChatRepo == nil {
		return
	}
	conv, err := h.ChatRepo.GetConversation(convID)
	if err != nil {
		return
	}

	var ids []uint
	for _, m := range conv.Members {
		if m.MemberID != senderID {
			ids = append(ids, m.MemberID)
		}
	}
	h.PushToMembers(ids, msg)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if n := len(c.Send); n > 0 {
				for i := 0; i < n; i++ {
					w.Write(<-c.Send)
				}
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type shard struct {
	clients map[uint]*Client
	mu      sync.RWMutex
}

// DMHub routes realtime payloads (direct messages, notifications, presence)
// to connected members. Fan-out goes through redis pub/sub so every running
// instance delivers to its own local connections.
type DMHub struct {
	shards     [shardCount]*shard
	register   chan *Client
	unregister chan *Client
	Redis      *redis.Client
	ChatRepo   *repository.ChatRepository
	ctx        context.Context
}

func NewDMHub(rdb *redis.Client, chatRepo *repository.ChatRepository) *DMHub {
	h := &DMHub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		Redis:      rdb,
		ChatRepo:   chatRepo,
		ctx:        context.Background(),
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{
			clients: make(map[uint]*Client),
		}
	}
	return h
}

func (h *DMHub) getShard(memberID uint) *shard {
	return h.shards[memberID%shardCount]
}

type PubSubMessage struct {
	TargetMembers []uint          `json:"targetMembers"`
	Payload       json.RawMessage `json:"payload"`
}

func (h *DMHub) Run() {
	pubsub := h.Redis.Subscribe(h.ctx, "dm_channel")
	go func() {
		ch := pubsub.Channel()
		for msg := range ch {
			var psMsg PubSubMessage
			if err := json.Unmarshal([]byte(msg.Payload), &psMsg); err != nil {
				logger.Log.Error("PubSub unmarshal error", zap.Error(err))
				continue
			}
			h.pushToLocalRaw(psMsg.TargetMembers, psMsg.Payload)
		}
	}()

	// Presence writes are batched; heartbeats renew the TTLs.
	ticker := time.NewTicker(500 * time.Millisecond)
	heartbeatTicker := time.NewTicker(1 * time.Minute)
	defer func() {
		ticker.Stop()
		heartbeatTicker.Stop()
	}()

	type statusUpdate struct {
		memberID uint
		status   string
	}
	var pendingUpdates []statusUpdate

	for {
		select {
		case client := <-h.register:
			s := h.getShard(client.MemberID)
			s.mu.Lock()
			s.clients[client.MemberID] = client
			s.mu.Unlock()
			pendingUpdates = append(pendingUpdates, statusUpdate{client.MemberID, "online"})
			monitoring.WSOnlineMembers.Inc()

		case client := <-h.unregister:
			s := h.getShard(client.MemberID)
			s.mu.Lock()
			if _, ok := s.clients[client.MemberID]; ok {
				delete(s.clients, client.MemberID)
				close(client.Send)
				monitoring.WSOnlineMembers.Dec()
			}
			s.mu.Unlock()
			pendingUpdates = append(pendingUpdates, statusUpdate{client.MemberID, "offline"})

		case <-heartbeatTicker.C:
			h.refreshPresence()

		case <-ticker.C:
			if len(pendingUpdates) == 0 {
				continue
			}

			pipe := h.Redis.Pipeline()
			for _, update := range pendingUpdates {
				key := fmt.Sprintf("member:online:%d", update.memberID)
				if update.status == "online" {
					pipe.Set(h.ctx, key, "true", onlineTTL)
				} else {
					pipe.Del(h.ctx, key)
				}
			}
			if _, err := pipe.Exec(h.ctx); err != nil {
				logger.Log.Error("Redis pipeline error", zap.Error(err))
			}
			pendingUpdates = pendingUpdates[:0]
		}
	}
}

// refreshPresence renews the TTL of every locally connected member's
// presence key.
func (h *DMHub) refreshPresence() {
	pipe := h.Redis.Pipeline()
	count := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.RLock()
		for memberID := range s.clients {
			pipe.Expire(h.ctx, fmt.Sprintf("member:online:%d", memberID), onlineTTL)
			count++
		}
		s.mu.RUnlock()
	}
	if count > 0 {
		pipe.Exec(h.ctx)
		logger.Log.Debug("Refreshed presence", zap.Int("count", count))
	}
}

// Stop closes all connections and clears presence on shutdown.
func (h *DMHub) Stop() {
	logger.Log.Info("DMHub stopping: clearing presence and closing connections...")

	var allMemberIDs []uint
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for memberID, client := range s.clients {
			allMemberIDs = append(allMemberIDs, memberID)
			close(client.Send)
			delete(s.clients, memberID)
		}
		s.mu.Unlock()
	}

	if len(allMemberIDs) > 0 {
		pipe := h.Redis.Pipeline()
		for _, memberID := range allMemberIDs {
			pipe.Del(h.ctx, fmt.Sprintf("member:online:%d", memberID))
		}
		pipe.Exec(h.ctx)
	}

	monitoring.WSOnlineMembers.Set(0)
	logger.Log.Info("DMHub stopped", zap.Int("closedConnections", len(allMemberIDs)))
}

func (h *DMHub) PushToMembers(memberIDs []uint, msg WSMessage) {
	msgBytes, _ := json.Marshal(msg)
	psMsg := PubSubMessage{
		TargetMembers: memberIDs,
		Payload:       msgBytes,
	}
	payload, _ := json.Marshal(psMsg)
	h.Redis.Publish(h.ctx, "dm_channel", payload)
	monitoring.WSMessageCounter.WithLabelValues(msg.Type, "out").Inc()
}

func (h *DMHub) pushToLocalRaw(memberIDs []uint, payload []byte) {
	for _, id := range memberIDs {
		s := h.getShard(id)
		s.mu.RLock()
		if client, ok := s.clients[id]; ok {
			select {
			case client.Send <- payload:
			default:
			}
		}
		s.mu.RUnlock()
	}
}

func (h *DMHub) IsMemberOnline(memberID uint) bool {
	s := h.getShard(memberID)
	s.mu.RLock()
	_, ok := s.clients[memberID]
	s.mu.RUnlock()
	if ok {
		return true
	}

	// Other instances keep presence in redis.
	val, err := h.Redis.Get(h.ctx, fmt.Sprintf("member:online:%d", memberID)).Result()
	return err == nil && val == "true"
}

func ServeWs(hub *DMHub, w http.ResponseWriter, r *http.Request, memberID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("memberId", memberID))
		return
	}
	client := &Client{
		Hub:      hub,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		MemberID: memberID,
		Limiter:  rate.NewLimiter(rate.Limit(10), 20),
	}
	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}
