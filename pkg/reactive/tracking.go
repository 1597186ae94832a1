package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the collection state of one goroutine.
type trackingContext struct {
	// collecting is the subscriber whose dependencies are being gathered.
	// nil means reads do not subscribe anything.
	collecting Subscriber
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns the current goroutine's ID, parsed from the
// header of its stack trace ("goroutine <id> [...]").
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// currentSubscriber returns the subscriber collecting on this goroutine.
func currentSubscriber() Subscriber {
	if ctx, ok := trackingContexts.Load(getGoroutineID()); ok {
		return ctx.(*trackingContext).collecting
	}
	return nil
}

// setCurrentSubscriber installs s as the collecting subscriber and
// returns the previous one. Setting nil drops the goroutine's context
// so finished goroutines leave nothing behind.
func setCurrentSubscriber(s Subscriber) Subscriber {
	gid := getGoroutineID()

	var old Subscriber
	if ctx, ok := trackingContexts.Load(gid); ok {
		old = ctx.(*trackingContext).collecting
	}

	if s == nil {
		trackingContexts.Delete(gid)
	} else {
		trackingContexts.Store(gid, &trackingContext{collecting: s})
	}
	return old
}

// IsCollecting reports whether a subscriber is collecting on the
// current goroutine.
func IsCollecting() bool {
	return currentSubscriber() != nil
}

// Collect runs fn with s as the collecting subscriber. Every reactive
// read inside fn subscribes s. The previous subscriber is restored when
// fn returns or panics.
func Collect(s Subscriber, fn func()) {
	old := setCurrentSubscriber(s)
	defer setCurrentSubscriber(old)
	fn()
}

// Untracked runs fn with collection suspended.
func Untracked(fn func()) {
	old := setCurrentSubscriber(nil)
	defer setCurrentSubscriber(old)
	fn()
}
