// Package realtime implements the websocket broadcast channel. Clients
// subscribe to project ids and receive task change events scoped to those
// projects only.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/vanshdigitals/edutrack/internal/events"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

// EventTaskUpdated is the bus event name for task changes. It doubles as
// the outbound websocket event name.
const EventTaskUpdated = "taskUpdated"

// TaskEvent is the bus payload published by the task handlers.
type TaskEvent struct {
	TaskID    uint
	ProjectID uint
	Payload   map[string]interface{}
}

// ProjectResolver maps a task id to its project id, for inbound client
// messages that carry only the task id.
type ProjectResolver func(taskID uint) (uint, bool)

// Publisher forwards a locally produced event to other instances.
type Publisher interface {
	Publish(projectID uint, payload map[string]interface{})
}

type inboundMessage struct {
	Event     string                 `json:"event"`
	ProjectID uint                   `json:"project_id"`
	TaskID    uint                   `json:"task_id"`
	Data      map[string]interface{} `json:"data"`
}

type outboundMessage struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

type Hub struct {
	mu            sync.RWMutex
	clients       map[*Client]struct{}
	subscriptions map[uint]map[*Client]struct{}
	resolve       ProjectResolver
	publisher     Publisher
	log           *logger.Logger
}

func NewHub(resolve ProjectResolver) *Hub {
	return &Hub{
		clients:       make(map[*Client]struct{}),
		subscriptions: make(map[uint]map[*Client]struct{}),
		resolve:       resolve,
		log:           logger.New("RealtimeHub"),
	}
}

// SetPublisher attaches a cross-instance publisher (the Redis bridge).
func (h *Hub) SetPublisher(p Publisher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.publisher = p
}

// AttachBus subscribes the hub to task change events on the process bus.
func (h *Hub) AttachBus() {
	events.On(EventTaskUpdated, func(data interface{}) {
		if ev, ok := data.(TaskEvent); ok {
			h.Broadcast(ev.ProjectID, ev.Payload)
		}
	})
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for _, subs := range h.subscriptions {
		delete(subs, c)
	}
	close(c.send)
}

func (h *Hub) subscribe(c *Client, projectID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscriptions[projectID]
	if !ok {
		subs = make(map[*Client]struct{})
		h.subscriptions[projectID] = subs
	}
	subs[c] = struct{}{}
	h.log.Info("client %s subscribed to project %d", c.id, projectID)
}

// Broadcast delivers the payload to local subscribers of the project and
// forwards it to the publisher when one is attached.
func (h *Hub) Broadcast(projectID uint, payload map[string]interface{}) {
	h.broadcastLocal(projectID, payload)

	h.mu.RLock()
	publisher := h.publisher
	h.mu.RUnlock()
	if publisher != nil {
		publisher.Publish(projectID, payload)
	}
}

// broadcastLocal fans out to this instance's subscribers only. The bridge
// calls it for remote events so they are not republished.
func (h *Hub) broadcastLocal(projectID uint, payload map[string]interface{}) {
	msg, err := json.Marshal(outboundMessage{Event: EventTaskUpdated, Data: payload})
	if err != nil {
		_ = h.log.Error("marshaling broadcast", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.subscriptions[projectID] {
		select {
		case c.send <- msg:
		default:
			// Slow consumer; drop the message rather than block the hub.
		}
	}
}

// handleInbound processes one client message. Unknown events are ignored.
func (h *Hub) handleInbound(c *Client, raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.log.Warn("client %s sent malformed message", c.id)
		return
	}

	switch msg.Event {
	case "subscribe":
		if msg.ProjectID != 0 {
			h.subscribe(c, msg.ProjectID)
		}
	case "taskUpdate":
		projectID := msg.ProjectID
		if projectID == 0 && h.resolve != nil {
			if resolved, ok := h.resolve(msg.TaskID); ok {
				projectID = resolved
			}
		}
		if projectID == 0 {
			return
		}
		payload := msg.Data
		if payload == nil {
			payload = map[string]interface{}{}
		}
		payload["task_id"] = msg.TaskID
		payload["project_id"] = projectID
		h.Broadcast(projectID, payload)
	}
}
