package feather2d

const (
	TRIGGER_ENTER EventType = iota
	COLLISION_ENTER
	TRIGGER_STAY
	COLLISION_STAY
	TRIGGER_EXIT
	COLLISION_EXIT
)

type EventType uint8

func (t EventType) String() string {
	switch t {
	case TRIGGER_ENTER:
		return "trigger_enter"
	case COLLISION_ENTER:
		return "collision_enter"
	case TRIGGER_STAY:
		return "trigger_stay"
	case COLLISION_STAY:
		return "collision_stay"
	case TRIGGER_EXIT:
		return "trigger_exit"
	case COLLISION_EXIT:
		return "collision_exit"
	default:
		return "unknown"
	}
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Trigger events
type TriggerEnterEvent struct {
	BodyA BodyHandle
	BodyB BodyHandle
}

func (e TriggerEnterEvent) Type() EventType { return TRIGGER_ENTER }

type TriggerStayEvent struct {
	BodyA BodyHandle
	BodyB BodyHandle
}

func (e TriggerStayEvent) Type() EventType { return TRIGGER_STAY }

type TriggerExitEvent struct {
	BodyA BodyHandle
	BodyB BodyHandle
}

func (e TriggerExitEvent) Type() EventType { return TRIGGER_EXIT }

// Collision events
type CollisionEnterEvent struct {
	BodyA BodyHandle
	BodyB BodyHandle
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	BodyA BodyHandle
	BodyB BodyHandle
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	BodyA BodyHandle
	BodyB BodyHandle
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection, value is true for triggers
	previousActivePairs map[Pair]bool
	currentActivePairs  map[Pair]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[Pair]bool),
		currentActivePairs:  make(map[Pair]bool),
	}
}

// ensure makes the zero value usable
func (e *Events) ensure() {
	if e.listeners == nil {
		*e = NewEvents()
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.ensure()
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordContacts marks the pairs touching this step and returns the contacts to resolve,
// i.e. the ones without a trigger
func (e *Events) recordContacts(contacts []Contact) []Contact {
	e.ensure()
	resolvable := make([]Contact, 0, len(contacts))
	for _, c := range contacts {
		isTrigger := c.Constraint.BodyA.IsTrigger || c.Constraint.BodyB.IsTrigger
		e.currentActivePairs[c.Pair] = isTrigger

		if !isTrigger {
			resolvable = append(resolvable, c)
		}
	}

	return resolvable
}

// forget drops every tracked pair involving a removed body, without an exit event
func (e *Events) forget(h BodyHandle) {
	for pair := range e.previousActivePairs {
		if pair.Has(h) {
			delete(e.previousActivePairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.Has(h) {
			delete(e.currentActivePairs, pair)
		}
	}
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processCollisionEvents() {
	// Detect Enter and Stay events
	for pair, isTrigger := range e.currentActivePairs {
		_, wasActive := e.previousActivePairs[pair]

		switch {
		case wasActive && isTrigger:
			e.buffer = append(e.buffer, TriggerStayEvent{BodyA: pair.BodyA, BodyB: pair.BodyB})
		case wasActive:
			e.buffer = append(e.buffer, CollisionStayEvent{BodyA: pair.BodyA, BodyB: pair.BodyB})
		case isTrigger:
			e.buffer = append(e.buffer, TriggerEnterEvent{BodyA: pair.BodyA, BodyB: pair.BodyB})
		default:
			e.buffer = append(e.buffer, CollisionEnterEvent{BodyA: pair.BodyA, BodyB: pair.BodyB})
		}
	}

	// Detect Exit events
	for pair, isTrigger := range e.previousActivePairs {
		if _, active := e.currentActivePairs[pair]; active {
			continue
		}

		if isTrigger {
			e.buffer = append(e.buffer, TriggerExitEvent{BodyA: pair.BodyA, BodyB: pair.BodyB})
		} else {
			e.buffer = append(e.buffer, CollisionExitEvent{BodyA: pair.BodyA, BodyB: pair.BodyB})
		}
	}

	// Swap for next frame and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processCollisionEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
