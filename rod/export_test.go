package rod

// NewTestManager returns a manager whose browsers are started by launch,
// which reports a process ID and a stop function.
func NewTestManager(recycleAfter int, launch func() (pid int, stop func() error, err error)) *BrowserManager {
	return &BrowserManager{
		recycleAfter: recycleAfter,
		launch: func() (*session, error) {
			pid, stop, err := launch()
			if err != nil {
				return nil, err
			}
			return &session{pid: pid, stop: stop}, nil
		},
	}
}
