package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a game event.
type EventType string

const (
	// Turn events
	EventGameStarted  EventType = "GAME_STARTED"
	EventPhaseChanged EventType = "PHASE_CHANGED"
	EventTurnEnded    EventType = "TURN_ENDED"
	EventGameOver     EventType = "GAME_OVER"

	// Disease events
	EventCubesAdded        EventType = "CUBES_ADDED"
	EventCubesRemoved      EventType = "CUBES_REMOVED"
	EventOutbreak          EventType = "OUTBREAK"
	EventEpidemic          EventType = "EPIDEMIC"
	EventDiseaseCured      EventType = "DISEASE_CURED"
	EventDiseaseEradicated EventType = "DISEASE_ERADICATED"

	// Board events
	EventPawnMoved      EventType = "PAWN_MOVED"
	EventStationBuilt   EventType = "STATION_BUILT"
	EventStationRemoved EventType = "STATION_REMOVED"

	// Card events
	EventCardDrawn     EventType = "CARD_DRAWN"
	EventCardDiscarded EventType = "CARD_DISCARDED"
	EventCardShared    EventType = "CARD_SHARED"
	EventCityInfected  EventType = "CITY_INFECTED"
	EventEventPlayed   EventType = "EVENT_PLAYED"

	// Command events
	EventActionTaken  EventType = "ACTION_TAKEN"
	EventActionFailed EventType = "ACTION_FAILED"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type      EventType         `json:"type"`
	ID        string            `json:"id,omitempty"`
	Turn      int               `json:"turn"`
	Player    string            `json:"player,omitempty"`
	City      string            `json:"city,omitempty"`
	Color     string            `json:"color,omitempty"`
	Amount    int               `json:"amount,omitempty"`
	Data      string            `json:"data,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
// Listeners run on the publishing goroutine and must not publish re-entrantly.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle,
// whether it was registered with Subscribe or SubscribeTyped.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(event)
	}

	if typedListeners, ok := bus.typedListeners[event.Type]; ok {
		for _, listener := range typedListeners {
			listener.Callback(event)
		}
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, turn int, player, city string) Event {
	return Event{
		Type:      eventType,
		Turn:      turn,
		Player:    player,
		City:      city,
		Timestamp: time.Now(),
		Metadata:  make(map[string]string),
	}
}

// NewEventWithAmount creates a new event carrying a color and an amount.
func NewEventWithAmount(eventType EventType, turn int, player, city, color string, amount int) Event {
	evt := NewEvent(eventType, turn, player, city)
	evt.Color = color
	evt.Amount = amount
	return evt
}
