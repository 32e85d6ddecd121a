// Package seeder generates fake crash events for exercising a collection
// endpoint during development.
package seeder

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/telhawk-systems/telhawk-crash/protocol"
)

var levels = []protocol.Level{
	protocol.LevelDebug,
	protocol.LevelInfo,
	protocol.LevelWarning,
	protocol.LevelError,
	protocol.LevelFatal,
}

var errorTypes = []string{
	"*errors.errorString",
	"*fs.PathError",
	"*net.OpError",
	"*url.Error",
	"*json.SyntaxError",
}

var timezones = []string{
	"Europe/Vienna",
	"Europe/London",
	"America/New_York",
	"Asia/Tokyo",
	"UTC",
}

// Seed makes subsequent generation deterministic. Pass 0 for random.
func Seed(n int64) {
	gofakeit.Seed(n)
}

// Generate builds one fake crash event, timestamped within the past spread.
func Generate(spread time.Duration) *protocol.Event {
	occurred := time.Now()
	if spread > 0 {
		occurred = occurred.Add(-time.Duration(gofakeit.Number(0, int(spread))))
	}

	event := protocol.NewEvent()
	ts := protocol.NewTimestamp(occurred)
	event.Timestamp = &ts
	event.Level = levels[gofakeit.Number(0, len(levels)-1)]
	event.Release = fmt.Sprintf("%s@%s", gofakeit.AppName(), gofakeit.AppVersion())
	event.Environment = gofakeit.RandomString([]string{"production", "staging", "development"})
	event.User = &protocol.User{
		ID:        gofakeit.UUID(),
		Username:  gofakeit.Username(),
		Email:     gofakeit.Email(),
		IPAddress: gofakeit.IPv4Address(),
	}
	event.Exceptions = fakeExceptions()
	event.Threads = fakeThreads()

	device := protocol.NewMap()
	device.Set("timezone", protocol.String(timezones[gofakeit.Number(0, len(timezones)-1)]))
	device.Set("orientation", protocol.String(
		gofakeit.RandomString([]string{"portrait", "landscape"})))
	event.SetContext("device", protocol.MapValue(device))

	return event
}

func fakeExceptions() []protocol.Exception {
	depth := gofakeit.Number(1, 3)
	out := make([]protocol.Exception, 0, depth)
	message := gofakeit.HackerPhrase()
	for i := 0; i < depth; i++ {
		if i > 0 {
			message = fmt.Sprintf("%s: %s", gofakeit.HackerVerb(), message)
		}
		out = append(out, protocol.Exception{
			Type:   errorTypes[gofakeit.Number(0, len(errorTypes)-1)],
			Value:  message,
			Module: gofakeit.RandomString([]string{"errors", "fs", "net", "json"}),
		})
	}
	out[len(out)-1].Stacktrace = fakeFrames()
	return out
}

func fakeThreads() []protocol.Thread {
	count := gofakeit.Number(1, 4)
	out := make([]protocol.Thread, 0, count)
	for i := 0; i < count; i++ {
		id := int64(i + 1)
		state := gofakeit.RandomString([]string{"running", "select", "chan receive", "IO wait"})
		out = append(out, protocol.Thread{
			ID:         id,
			Name:       fmt.Sprintf("goroutine %d [%s]", id, state),
			Current:    i == 0,
			Main:       id == 1,
			Stacktrace: fakeFrames(),
		})
	}
	return out
}

func fakeFrames() []protocol.Frame {
	depth := gofakeit.Number(2, 6)
	out := make([]protocol.Frame, 0, depth)
	for i := 0; i < depth; i++ {
		pkg := fmt.Sprintf("github.com/%s/%s", gofakeit.Username(), gofakeit.Word())
		file := fmt.Sprintf("%s.go", gofakeit.Word())
		out = append(out, protocol.Frame{
			Function: gofakeit.Word(),
			Module:   pkg,
			Filename: file,
			AbsPath:  fmt.Sprintf("/srv/%s/%s", gofakeit.Word(), file),
			Lineno:   int64(gofakeit.Number(1, 900)),
			InApp:    gofakeit.Bool(),
		})
	}
	return out
}
