package supervision

import events "github.com/gtejasvarma/vani/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}
