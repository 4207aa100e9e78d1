package vm

// CSRFile holds the fixed set of named 32-bit control/status cells
// (spec.md §3). Per the "CSR as typed records" design note, this replaces
// the reference implementation's string-keyed map with a struct of named
// fields; ReadNamed/WriteNamed provide the string-keyed accessor the
// snapshot file collaborator still needs (the Config handler writes the
// typed fields directly), with writes
// to read-only (URO) cells silently ignored rather than erroring — matching
// observed behavior in the source rather than inventing a stricter one.
type CSRFile struct {
	// Writable (URW).
	MTileM   uint32
	MTileN   uint32
	MTileK   uint32
	XMCSR    uint32
	XMXRM    uint32
	XMFRM    uint32
	XMSatEn  uint32
	XMSat    uint32
	XMFFlags uint32
	MStatusMS uint32

	// Read-only (URO). Defaults observed in the reference implementation.
	xmisa   uint32
	xtlenb  uint32
	xtrlenb uint32
	xalenb  uint32
}

// NewCSRFile constructs a CSR file with the reference implementation's URO
// defaults: xmisa=0xE00003FF, xtlenb=64, xtrlenb=16, xalenb=64. All URW
// cells default to zero.
func NewCSRFile() *CSRFile {
	return &CSRFile{
		xmisa:   0xE00003FF,
		xtlenb:  64,
		xtrlenb: 16,
		xalenb:  64,
	}
}

// uroNames lists the read-only CSR names; writes to these are no-ops.
var uroNames = map[string]bool{
	"xmisa": true, "xtlenb": true, "xtrlenb": true, "xalenb": true,
}

// Names returns every CSR name in a fixed, stable order (URW then URO).
// The snapshot files do not use it: loader/snapshot.go keeps its own
// config.txt/status.txt name lists.
func (c *CSRFile) Names() []string {
	return []string{
		"mtilem", "mtilen", "mtilek", "xmcsr", "xmxrm", "xmfrm",
		"xmsaten", "xmsat", "xmfflags", "mstatus_ms",
		"xmisa", "xtlenb", "xtrlenb", "xalenb",
	}
}

// ReadNamed returns a CSR's value by its lowercase symbolic name.
func (c *CSRFile) ReadNamed(name string) (uint32, bool) {
	switch name {
	case "mtilem":
		return c.MTileM, true
	case "mtilen":
		return c.MTileN, true
	case "mtilek":
		return c.MTileK, true
	case "xmcsr":
		return c.XMCSR, true
	case "xmxrm":
		return c.XMXRM, true
	case "xmfrm":
		return c.XMFRM, true
	case "xmsaten":
		return c.XMSatEn, true
	case "xmsat":
		return c.XMSat, true
	case "xmfflags":
		return c.XMFFlags, true
	case "mstatus_ms":
		return c.MStatusMS, true
	case "xmisa":
		return c.xmisa, true
	case "xtlenb":
		return c.xtlenb, true
	case "xtrlenb":
		return c.xtrlenb, true
	case "xalenb":
		return c.xalenb, true
	default:
		return 0, false
	}
}

// WriteNamed sets a CSR's value by its lowercase symbolic name. Writes to
// URO names are silently ignored; an unknown name reports ok=false.
func (c *CSRFile) WriteNamed(name string, v uint32) (ok bool) {
	if uroNames[name] {
		return true
	}
	switch name {
	case "mtilem":
		c.MTileM = v
	case "mtilen":
		c.MTileN = v
	case "mtilek":
		c.MTileK = v
	case "xmcsr":
		c.XMCSR = v
	case "xmxrm":
		c.XMXRM = v
	case "xmfrm":
		c.XMFRM = v
	case "xmsaten":
		c.XMSatEn = v
	case "xmsat":
		c.XMSat = v
	case "xmfflags":
		c.XMFFlags = v
	case "mstatus_ms":
		c.MStatusMS = v
	default:
		return false
	}
	return true
}
