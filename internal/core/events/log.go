package events

import "log"

// ChangeEvents are the notifications emitted when stored data changes
var ChangeEvents = []string{BookModified, MemberModified, LoanModified, LoanViewActivated}

// LogHandler writes each occurrence of the named event to the log
func LogHandler(name string) Handler {
	return func(payload any) error {
		if payload == nil {
			log.Printf("🔔 %s", name)
			return nil
		}
		log.Printf("🔔 %s: %+v", name, payload)
		return nil
	}
}

// SubscribeChangeLog attaches a LogHandler to every change event
func SubscribeChangeLog(bus *Bus) []Subscription {
	subs := make([]Subscription, 0, len(ChangeEvents))
	for _, name := range ChangeEvents {
		subs = append(subs, bus.Subscribe(name, LogHandler(name)))
	}
	return subs
}
