package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/EventStore/EventStore-Client-Go/v4/esdb"
	"github.com/google/uuid"
	"github.com/mdrrmo/respond/internal/shared/config"
	"github.com/mdrrmo/respond/internal/shared/types"
)

// Event represents a domain event
type Event struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Source        string    `json:"source"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`

	// Actor information
	ActorID       types.ID `json:"actor_id"`
	ActorRole     string   `json:"actor_role"`
	ActorBarangay string   `json:"actor_barangay,omitempty"`

	// Event data
	Data any `json:"data"`
}

// NewEvent creates a new event with auto-generated ID and timestamp
func NewEvent(eventType, source string, data any) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// WithActor sets the actor information on the event
func (e Event) WithActor(actorID types.ID, actorRole, actorBarangay string) Event {
	e.ActorID = actorID
	e.ActorRole = actorRole
	e.ActorBarangay = actorBarangay
	return e
}

// WithCorrelation sets the correlation ID for request tracing
func (e Event) WithCorrelation(correlationID string) Event {
	e.CorrelationID = correlationID
	return e
}

// Bus publishes domain events to EventStoreDB
type Bus struct {
	client *esdb.Client
	prefix string
}

// NewBus creates a new event bus connected to EventStoreDB
func NewBus(ctx context.Context, cfg config.EventStoreConfig) (*Bus, error) {
	connString := buildConnectionString(cfg)

	settings, err := esdb.ParseConnectionString(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	client, err := esdb.NewClient(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create EventStoreDB client: %w", err)
	}

	bus := &Bus{
		client: client,
		prefix: "respond",
	}

	return bus, nil
}

// buildConnectionString creates the esdb:// connection string
func buildConnectionString(cfg config.EventStoreConfig) string {
	var auth string
	if cfg.Username != "" && cfg.Password != "" {
		auth = fmt.Sprintf("%s:%s@", cfg.Username, cfg.Password)
	}

	// Build query parameters
	params := ""
	if cfg.Insecure {
		params = "?tls=false&tlsVerifyCert=false"
	}
	// Add keep-alive and timeout settings for better connection stability
	if params != "" {
		params += "&keepAliveInterval=10000&keepAliveTimeout=10000&discoveryInterval=100&maxDiscoverAttempts=3&gossipTimeout=5"
	}

	return fmt.Sprintf("esdb://%s%s:%d%s", auth, cfg.Host, cfg.Port, params)
}

// Publish publishes an event to the bus
func (b *Bus) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Stream name from event type: respond.incident.reported -> respond-incident-reported
	stream := fmt.Sprintf("%s-%s", b.prefix, normalizeEventType(event.Type))

	eventID, err := uuid.Parse(event.ID)
	if err != nil {
		eventID = uuid.New()
	}

	esdbEvent := esdb.EventData{
		EventType:   event.Type,
		ContentType: esdb.ContentTypeJson,
		Data:        data,
		EventID:     eventID,
	}

	_, err = b.client.AppendToStream(ctx, stream, esdb.AppendToStreamOptions{
		ExpectedRevision: esdb.Any{},
	}, esdbEvent)

	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// normalizeEventType converts event type to stream-safe format
func normalizeEventType(eventType string) string {
	result := make([]byte, len(eventType))
	for i := 0; i < len(eventType); i++ {
		if eventType[i] == '.' {
			result[i] = '-'
		} else {
			result[i] = eventType[i]
		}
	}
	return string(result)
}

// Close closes the event bus connection
func (b *Bus) Close() {
	if b.client != nil {
		b.client.Close()
	}
}

// Health checks the EventStoreDB connection
func (b *Bus) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Read from $streams to verify connection
	stream, err := b.client.ReadStream(ctx, "$streams", esdb.ReadStreamOptions{
		From:      esdb.Start{},
		Direction: esdb.Forwards,
	}, 1)

	if err != nil {
		return fmt.Errorf("EventStoreDB health check failed: %w", err)
	}
	defer stream.Close()

	return nil
}
