package exception

import (
	"os"
	"runtime/debug"

	"github.com/mezonai/xoledger/logx"
	"github.com/mezonai/xoledger/monitoring"
)

// SafeGo runs fn in a goroutine and turns a panic into a logged error.
func SafeGo(name string, fn func()) {
	go func() {
		defer Recover(name, nil)
		fn()
	}()
}

func SafeGoWithPanic(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				report(name, r)
				os.Exit(1)
			}
		}()
		fn()
	}()
}

// Recover must be deferred directly. onPanic, when set, receives the
// recovered value after it has been logged and counted.
func Recover(name string, onPanic func(r interface{})) {
	if r := recover(); r != nil {
		report(name, r)
		if onPanic != nil {
			onPanic(r)
		}
	}
}

func report(name string, r interface{}) {
	monitoring.IncreasePanicCount()
	logx.Error("PANIC", "Panic in: ", name, " ", r, "\n", string(debug.Stack()))
}
