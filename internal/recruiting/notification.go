package recruiting

import "time"

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Notification is an operator-visible outcome.
type Notification struct {
	ID      int       `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifications is append-only.
type Notifications struct {
	Items []Notification
}

func (ns *Notifications) Add(level Level, message string, at time.Time) Notification {
	n := Notification{
		ID:      len(ns.Items) + 1,
		Level:   level,
		Message: message,
		At:      at,
	}
	ns.Items = append(ns.Items, n)
	return n
}

// Since returns notifications with an ID greater than id.
func (ns *Notifications) Since(id int) []Notification {
	if id < 0 {
		id = 0
	}
	if id >= len(ns.Items) {
		return nil
	}
	return ns.Items[id:]
}

// Last returns the most recent notification.
func (ns *Notifications) Last() (Notification, bool) {
	if len(ns.Items) == 0 {
		return Notification{}, false
	}
	return ns.Items[len(ns.Items)-1], true
}
