package handler

import (
	"runtime"
	"strconv"
	"strings"
)

const modulePath = "github.com/dmitrymomot/maw/"

// registrationPackages are skipped when looking for the code that registered
// a handler, so locations point at user code rather than at router helpers.
var registrationPackages = []string{
	modulePath + "core/handler.",
	modulePath + "core/router.",
	modulePath + "core/static.",
	modulePath + "core/websocket.",
}

func callerLocation() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if f.Function != "" && !isRegistrationFrame(f) {
			return f.File + ":" + strconv.Itoa(f.Line)
		}
		if !more {
			return ""
		}
	}
}

func isRegistrationFrame(f runtime.Frame) bool {
	if strings.HasSuffix(f.File, "_test.go") {
		return false
	}
	for _, p := range registrationPackages {
		if strings.HasPrefix(f.Function, p) {
			return true
		}
	}
	return false
}
