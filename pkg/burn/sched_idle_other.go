//go:build !linux

package burn

import "errors"

var errSchedIdleUnsupported = errors.New("burn: idle scheduling class is only supported on linux")

func trySchedIdle() error {
	return errSchedIdleUnsupported
}
