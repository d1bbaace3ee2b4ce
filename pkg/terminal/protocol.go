package terminal

import (
	"fmt"
	"strings"
)

// Protocol is the way a thumbnail is drawn.
type Protocol int

const (
	ProtocolNone Protocol = iota
	ProtocolHalfblocks
	ProtocolKitty
	ProtocolITerm2
	ProtocolSixel
)

var protocolNames = [...]string{
	ProtocolNone:       "none",
	ProtocolHalfblocks: "halfblocks",
	ProtocolKitty:      "kitty",
	ProtocolITerm2:     "iterm2",
	ProtocolSixel:      "sixel",
}

func (p Protocol) String() string {
	if p >= 0 && int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return "none"
}

// ParseProtocol reads a configured protocol name. "auto" and "" report
// auto=true and leave the choice to SelectProtocol.
func ParseProtocol(s string) (p Protocol, auto bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ProtocolHalfblocks, true, nil
	case "none", "off":
		return ProtocolNone, false, nil
	case "halfblocks", "unicode":
		return ProtocolHalfblocks, false, nil
	case "kitty":
		return ProtocolKitty, false, nil
	case "iterm2":
		return ProtocolITerm2, false, nil
	case "sixel":
		return ProtocolSixel, false, nil
	}
	return ProtocolNone, false, fmt.Errorf("unknown graphics protocol %q", s)
}

// SelectProtocol picks the best protocol for term. Pixel protocols degrade
// to halfblocks over SSH and inside tmux, where passthrough is unreliable.
func SelectProtocol(term Terminal) Protocol {
	var p Protocol
	switch term {
	case TermGhostty, TermKitty, TermWezTerm:
		p = ProtocolKitty
	case TermITerm2:
		p = ProtocolITerm2
	default:
		return ProtocolHalfblocks
	}
	if IsSSH() {
		return ProtocolHalfblocks
	}
	return p
}

// Resolve turns a configured name into a protocol, detecting the terminal
// when the name is "auto".
func Resolve(name string) (Protocol, error) {
	p, auto, err := ParseProtocol(name)
	if err != nil {
		return ProtocolNone, err
	}
	if auto {
		return SelectProtocol(Detect()), nil
	}
	return p, nil
}
