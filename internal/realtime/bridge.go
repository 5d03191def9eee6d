package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

// BridgeChannel is the Redis pub/sub channel shared by all instances.
const BridgeChannel = "taskflow:events"

type bridgeEnvelope struct {
	Origin    string                 `json:"origin"`
	ProjectID uint                   `json:"project_id"`
	Payload   map[string]interface{} `json:"payload"`
}

// Bridge fans events out across instances over Redis pub/sub. Each bridge
// tags published envelopes with its origin id and skips its own on receipt,
// so an event is delivered to every instance exactly once.
type Bridge struct {
	rdb    *redis.Client
	hub    *Hub
	origin string
	log    *logger.Logger
}

func NewBridge(rdb *redis.Client, hub *Hub) *Bridge {
	return &Bridge{
		rdb:    rdb,
		hub:    hub,
		origin: uuid.NewString(),
		log:    logger.New("RealtimeBridge"),
	}
}

// Publish implements Publisher for the hub's local broadcasts.
func (b *Bridge) Publish(projectID uint, payload map[string]interface{}) {
	raw, err := json.Marshal(bridgeEnvelope{
		Origin:    b.origin,
		ProjectID: projectID,
		Payload:   payload,
	})
	if err != nil {
		_ = b.log.Error("marshaling bridge envelope", err)
		return
	}
	if err := b.rdb.Publish(context.Background(), BridgeChannel, raw).Err(); err != nil {
		_ = b.log.Error("publishing bridge envelope", err)
	}
}

// Start subscribes to the bridge channel and rebroadcasts remote events into
// the local hub until ctx is canceled.
func (b *Bridge) Start(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, BridgeChannel)
	b.hub.SetPublisher(b)

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				b.receive([]byte(msg.Payload))
			}
		}
	}()
	b.log.Info("bridge subscribed to %s", BridgeChannel)
}

func (b *Bridge) receive(raw []byte) {
	var env bridgeEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		b.log.Warn("dropping malformed bridge envelope")
		return
	}
	if env.Origin == b.origin {
		return
	}
	b.hub.broadcastLocal(env.ProjectID, env.Payload)
}
