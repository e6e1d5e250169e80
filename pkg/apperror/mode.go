package apperror

import "strings"

// Mode selects how much of a failure reaches the client. It is fixed for the process lifetime.
type Mode int

const (
	ModeRestricted Mode = iota
	ModeDiagnostic
)

func (m Mode) String() string {
	if m == ModeDiagnostic {
		return "diagnostic"
	}
	return "restricted"
}

// ModeFromEnv maps a deployment environment name to a mode.
// Only "development" is diagnostic; unknown environments fall back to restricted.
func ModeFromEnv(env string) Mode {
	if strings.EqualFold(strings.TrimSpace(env), "development") {
		return ModeDiagnostic
	}
	return ModeRestricted
}
