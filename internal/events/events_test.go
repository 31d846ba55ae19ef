package events

import (
	"testing"
	"time"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventUploadProgress)

	bus.PublishUploadProgress("a.csv", 50, 5, 10)

	select {
	case received := <-ch:
		progress, ok := received.(*UploadProgressEvent)
		if !ok {
			t.Fatal("Expected UploadProgressEvent")
		}
		if progress.FileName != "a.csv" {
			t.Errorf("Expected file name 'a.csv', got '%s'", progress.FileName)
		}
		if progress.Percent != 50 {
			t.Errorf("Expected percent 50, got %f", progress.Percent)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for event")
	}
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch1 := bus.Subscribe(EventNotification)
	ch2 := bus.Subscribe(EventNotification)

	bus.PublishNotification(SeveritySuccess, "File deleted")

	received1 := false
	received2 := false

	select {
	case <-ch1:
		received1 = true
	case <-time.After(100 * time.Millisecond):
	}

	select {
	case <-ch2:
		received2 = true
	case <-time.After(100 * time.Millisecond):
	}

	if !received1 || !received2 {
		t.Error("Not all subscribers received the event")
	}
}

func TestEventBus_DifferentEventTypes(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	stateCh := bus.Subscribe(EventUploadState)
	notifyCh := bus.Subscribe(EventNotification)

	bus.PublishUploadState("idle", "validating", "a.csv", "")

	select {
	case <-stateCh:
	case <-time.After(100 * time.Millisecond):
		t.Error("State subscriber didn't receive event")
	}

	select {
	case <-notifyCh:
		t.Error("Notification subscriber received wrong event type")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBus_SubscribeEverything(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	allCh := bus.Subscribe()

	bus.PublishUploadProgress("a.csv", 10, 1, 10)
	bus.PublishNotification(SeverityError, "Upload failed: boom")

	count := 0
	for i := 0; i < 2; i++ {
		select {
		case <-allCh:
			count++
		case <-time.After(100 * time.Millisecond):
		}
	}

	if count != 2 {
		t.Errorf("Expected to receive 2 events, got %d", count)
	}
}

func TestEventBus_NonBlocking(t *testing.T) {
	bus := NewEventBus(2)
	defer bus.Close()

	ch := bus.Subscribe(EventUploadProgress)

	for i := 0; i < 10; i++ {
		bus.PublishUploadProgress("a.csv", float64(i*10), int64(i), 10)
	}

	count := 0
	for {
		select {
		case <-ch:
			count++
		case <-time.After(10 * time.Millisecond):
			goto done
		}
	}
done:

	if count != 2 {
		t.Errorf("Expected 2 buffered events, got %d", count)
	}
	if dropped := bus.DroppedEvents(); dropped != 8 {
		t.Errorf("Expected 8 dropped events, got %d", dropped)
	}
}

func TestEventBus_Close(t *testing.T) {
	bus := NewEventBus(10)

	ch := bus.Subscribe(EventNotification)

	bus.Close()

	if _, ok := <-ch; ok {
		t.Error("Channel should be closed after bus.Close()")
	}

	// Publishing after close should not panic
	bus.PublishNotification(SeverityInfo, "late")

	// Subscribing after close returns a closed channel
	if _, ok := <-bus.Subscribe(EventNotification); ok {
		t.Error("Subscribe after Close should return a closed channel")
	}
}

func TestEventBus_SubscribeSeveralTypes(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventNotification, EventListingChanged, EventNotification)

	bus.PublishNotification(SeverityInfo, "File deleted")
	bus.PublishUploadProgress("a.csv", 10, 1, 10)
	bus.Publish(&ListingChangedEvent{BaseEvent: BaseEvent{EventType: EventListingChanged}})

	var got []EventType
	for {
		select {
		case ev := <-ch:
			got = append(got, ev.Type())
			continue
		case <-time.After(50 * time.Millisecond):
		}
		break
	}

	want := []EventType{EventNotification, EventListingChanged}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityInfo, "info"},
		{SeveritySuccess, "success"},
		{SeverityError, "error"},
		{Severity(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.severity, got, tt.want)
		}
	}
}
