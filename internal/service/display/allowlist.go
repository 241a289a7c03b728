package display

// DefaultAllowedIPs is the override set used when none is configured.
var DefaultAllowedIPs = []string{"10.0.0.1", "10.0.0.2"}

// Allowlist holds source addresses that are shown a banner regardless of
// its display window. It is read-only after construction.
type Allowlist struct {
	addrs map[string]struct{}
}

func NewAllowlist(addrs []string) *Allowlist {
	a := &Allowlist{addrs: make(map[string]struct{}, len(addrs))}
	for _, addr := range addrs {
		if addr == "" {
			continue
		}
		a.addrs[addr] = struct{}{}
	}
	return a
}

// Allowed reports whether addr is on the list. Addresses are compared as
// literal strings.
func (a *Allowlist) Allowed(addr string) bool {
	if a == nil || addr == "" {
		return false
	}
	_, ok := a.addrs[addr]
	return ok
}
