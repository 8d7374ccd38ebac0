package process

// TerminatePolicy decides how many times a fire-and-forget terminate pass
// is issued. A second pass catches targets that a watchdog relaunched
// between the first signal and its delivery.
type TerminatePolicy struct {
	Attempts int
}

// RetryOnce issues every terminate pass twice.
var RetryOnce = TerminatePolicy{Attempts: 2}

// Run calls pass Attempts times (at least once).
func (p TerminatePolicy) Run(pass func()) {
	n := p.Attempts
	if n < 1 {
		n = 1
	}
	for range n {
		pass()
	}
}
