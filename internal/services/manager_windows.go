package services

import (
	"fmt"

	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"
)

// SCM is the Manager backed by the Windows service control manager.
type SCM struct{}

func (SCM) open(name string) (*mgr.Mgr, *mgr.Service, error) {
	m, err := mgr.Connect()
	if err != nil {
		return nil, nil, fmt.Errorf("connect to service manager: %w", err)
	}
	s, err := m.OpenService(name)
	if err != nil {
		m.Disconnect()
		return nil, nil, fmt.Errorf("open service %s: %w", name, err)
	}
	return m, s, nil
}

// Query implements Manager.
func (c SCM) Query(name string) (State, error) {
	m, s, err := c.open(name)
	if err != nil {
		return Unknown, err
	}
	defer m.Disconnect()
	defer s.Close()

	status, err := s.Query()
	if err != nil {
		return Unknown, err
	}
	switch status.State {
	case svc.Running:
		return Running, nil
	case svc.Stopped:
		return Stopped, nil
	default:
		return Pending, nil
	}
}

// Stop implements Manager.
func (c SCM) Stop(name string) error {
	m, s, err := c.open(name)
	if err != nil {
		return err
	}
	defer m.Disconnect()
	defer s.Close()

	_, err = s.Control(svc.Stop)
	return err
}

// Start implements Manager.
func (c SCM) Start(name string) error {
	m, s, err := c.open(name)
	if err != nil {
		return err
	}
	defer m.Disconnect()
	defer s.Close()

	return s.Start()
}
