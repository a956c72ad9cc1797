package reactive

import (
	"fmt"
	"os"

	rerr "github.com/reago-dev/reago/internal/errors"
)

// Diagnostic codes registered in internal/errors. Every anomaly in this
// package degrades to a no-op plus one of these development-time
// warnings; nothing raises a propagating fault.
const (
	warnReadonlyWrite    = "R001"
	warnReadonlyDelete   = "R002"
	warnComputedNoSetter = "R003"
	warnNoActiveScope    = "R004"
	warnInvalidTarget    = "R005"
	warnInactiveScope    = "R006"
)

// warnf emits a debug diagnostic. No-op unless rt.Debug is set.
func (rt *Runtime) warnf(code string, format string, args ...any) {
	if !rt.Debug {
		return
	}
	e := rerr.New(code).WithDetail(fmt.Sprintf(format, args...))
	if rt.WarnHandler != nil {
		rt.WarnHandler(e)
		return
	}
	fmt.Fprintln(os.Stderr, e.Format())
}
