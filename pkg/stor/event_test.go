package stor

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestEvent(t *testing.T) {
	var err error

	owner := Owners[2]

	// create an event
	now := time.Now().Truncate(time.Second)
	e1 := &Event{
		Timestamp: now,
		Type:      EventLoginOTP,
		UserAgent: "Mozilla/5.0 (Android 14)",
		RemoteIP:  "10.0.0.1",
		OwnerID:   owner.UUID,
	}
	err = St.Event().Create(e1)
	if err != nil {
		t.Fatalf("Failed to create an event: %v", err)
	}

	// create a second event, with a long user agent
	e2 := &Event{
		Timestamp: now.Add(time.Minute),
		Type:      EventLoginFirebase,
		UserAgent: strings.Repeat("x", 300),
		OwnerID:   owner.UUID,
	}
	err = St.Event().Create(e2)
	if err != nil {
		t.Fatalf("Failed to create an event: %v", err)
	}

	// an event of another owner
	err = St.Event().Create(&Event{Timestamp: now, Type: EventLoginOTP, OwnerID: Owners[0].UUID})
	if err != nil {
		t.Fatalf("Failed to create an event: %v", err)
	}

	// list the events of the owner
	events, err := St.Event().List(owner.UUID)
	if err != nil {
		t.Fatalf("Failed to list events: %v", err)
	}
	if len(*events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(*events))
	}
	if (*events)[0].Type != EventLoginFirebase {
		t.Errorf("Expected the most recent event first, got %s", (*events)[0].Type)
	}
	if len((*events)[0].UserAgent) != 255 {
		t.Errorf("Expected a truncated user agent, got %d chars", len((*events)[0].UserAgent))
	}

	// a multi-byte character across the limit is not split
	e3 := &Event{
		Timestamp: now.Add(2 * time.Minute),
		Type:      EventLoginOTP,
		UserAgent: strings.Repeat("x", 254) + "é and more",
		OwnerID:   Owners[1].UUID,
	}
	err = St.Event().Create(e3)
	if err != nil {
		t.Fatalf("Failed to create an event: %v", err)
	}
	if !utf8.ValidString(e3.UserAgent) || len(e3.UserAgent) != 254 {
		t.Errorf("Expected the user agent to be cut before the accent, got %d bytes", len(e3.UserAgent))
	}
	if got := truncate("ñandú", 3); got != "ña" {
		t.Errorf("Expected ña, got %q", got)
	}

	count, err := St.Event().Count(owner.UUID)
	if err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 events, got %d", count)
	}
}
