package domain

import (
	"net/url"
	"strings"
)

// ProcessorMode is the processor's operating mode
type ProcessorMode string

const (
	ProcessorModeLive ProcessorMode = "live"
	ProcessorModeTest ProcessorMode = "test"
)

// Processor is the configured profile of one iATS payment processor.
// Only the host of the configured site URL is used; it differs between the
// North America and UK gateways.
type Processor struct {
	Name   string
	Mode   ProcessorMode
	Domain string
}

// NewProcessor builds a profile from the configured site URL
func NewProcessor(name string, mode ProcessorMode, siteURL string) (Processor, error) {
	u, err := url.Parse(strings.TrimSpace(siteURL))
	if err != nil {
		return Processor{}, WrapError(ErrorCodeMissingConfiguration, "invalid processor site url", err)
	}
	return Processor{Name: name, Mode: mode, Domain: u.Hostname()}, nil
}

// IsConfigured reports whether the profile can be used for gateway calls
func (p Processor) IsConfigured() bool {
	return p.Domain != "" && p.Mode != ""
}

// Credentials are the agent credentials sent with every gateway call
type Credentials struct {
	AgentCode string
	Password  string
}

// Missing returns the names of missing credential fields
func (c Credentials) Missing() []string {
	var missing []string
	if c.AgentCode == "" {
		missing = append(missing, "agent code")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	return missing
}
