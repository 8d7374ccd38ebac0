//go:build !windows

package services

// SCM reports ErrUnsupported outside Windows.
type SCM struct{}

func (SCM) Query(string) (State, error) { return Unknown, ErrUnsupported }
func (SCM) Stop(string) error           { return ErrUnsupported }
func (SCM) Start(string) error          { return ErrUnsupported }
