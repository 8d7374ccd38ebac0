package power

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"gamemode/internal/cmd"
	"gamemode/internal/logging"
)

// Powercfg is the Manager that shells out to powercfg.exe.
type Powercfg struct {
	runner cmd.Runner
	log    *zap.Logger
}

// NewPowercfg creates a Powercfg using runner.
func NewPowercfg(runner cmd.Runner, log *zap.Logger) *Powercfg {
	return &Powercfg{runner: runner, log: logging.OrNop(log).Named("powercfg")}
}

func (p *Powercfg) run(args ...string) (string, bool) {
	out, err := p.runner.Run(context.Background(), "powercfg", args...)
	if err != nil {
		p.log.Debug("powercfg failed", zap.Strings("args", args), zap.Error(err))
		return string(out), false
	}
	return string(out), true
}

// ActiveScheme implements Manager.
func (p *Powercfg) ActiveScheme() (string, bool) {
	out, ok := p.run("/getactivescheme")
	if !ok {
		return "", false
	}
	guid := parseGUIDFromPowercfg(out)
	return guid, guid != ""
}

// SetActive implements Manager.
func (p *Powercfg) SetActive(scheme string) bool {
	_, ok := p.run("/setactive", scheme)
	return ok
}

// Schemes implements Manager.
func (p *Powercfg) Schemes() []Scheme {
	out, ok := p.run("/list")
	if !ok {
		return nil
	}
	return parseSchemeList(out)
}

// Duplicate implements Manager. The copy keeps the template's GUID so it
// can be found again by id.
func (p *Powercfg) Duplicate(template string) bool {
	_, ok := p.run("-duplicatescheme", template, template)
	return ok
}

// ReadAC implements Manager.
func (p *Powercfg) ReadAC(scheme, subgroup, setting string) (uint32, bool) {
	out, ok := p.run("/query", scheme, subgroup, setting)
	if !ok {
		return 0, false
	}
	return parseACIndex(out)
}

// WriteAC implements Manager.
func (p *Powercfg) WriteAC(scheme, subgroup, setting string, value uint32) bool {
	_, ok := p.run("/setacvalueindex", scheme, subgroup, setting, strconv.FormatUint(uint64(value), 10))
	return ok
}

// parseGUIDFromPowercfg returns the first GUID in powercfg output such as
// "Power Scheme GUID: 381b4222-... (Balanced)".
func parseGUIDFromPowercfg(output string) string {
	for _, line := range strings.Split(output, "\n") {
		for _, part := range strings.Fields(line) {
			part = strings.Trim(part, "()*")
			if isGUID(part) {
				return strings.ToLower(part)
			}
		}
	}
	return ""
}

// parseSchemeList parses the output of `powercfg /list`.
func parseSchemeList(output string) []Scheme {
	var schemes []Scheme
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		guid := parseGUIDFromPowercfg(line)
		if guid == "" {
			continue
		}
		s := Scheme{GUID: guid, Active: strings.HasSuffix(line, "*")}
		if open := strings.Index(line, "("); open >= 0 {
			if end := strings.LastIndex(line, ")"); end > open {
				s.Name = line[open+1 : end]
			}
		}
		schemes = append(schemes, s)
	}
	return schemes
}

// parseACIndex extracts "Current AC Power Setting Index: 0x00000064".
func parseACIndex(output string) (uint32, bool) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(strings.ToLower(line), "ac power setting index") {
			continue
		}
		_, raw, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		raw = strings.TrimSpace(raw)
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(raw), "0x"), 16, 32)
		if err != nil {
			return 0, false
		}
		return uint32(v), true
	}
	return 0, false
}

func isGUID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 36 {
		return false
	}
	for i, c := range s {
		if i == 8 || i == 13 || i == 18 || i == 23 {
			if c != '-' {
				return false
			}
		} else if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

func (s Scheme) String() string {
	if s.Name == "" {
		return s.GUID
	}
	return fmt.Sprintf("%s (%s)", s.Name, s.GUID)
}
