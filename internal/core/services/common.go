package services

import (
	"log"
	"strings"
	"time"

	"bibliotheque/internal/adapters/persistence/repositories"
	"bibliotheque/internal/core/events"
)

// Publisher is the part of the event bus services need
type Publisher interface {
	Publish(name string, payload any) error
}

var _ Publisher = (*events.Bus)(nil)

// publish notifies subscribers after a committed change. A failing
// subscriber does not undo the change, so the error is only logged.
func publish(bus Publisher, name string, payload any) {
	if err := bus.Publish(name, payload); err != nil {
		log.Printf("⚠️ Subscriber of %s failed: %v", name, err)
	}
}

// isDate reports whether s is an ISO YYYY-MM-DD date
func isDate(s string) bool {
	_, err := time.Parse(repositories.DateLayout, s)
	return err == nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
