package keyboard

// scancodeSet1ASCII maps PS/2 scancode set 1 make codes to their unshifted
// US-104 ASCII character, covering the subset of keys this core's seed
// scenarios need to echo back. The original source delegates this entirely
// to the pc_keyboard crate's full Us104Key layout; that crate is not part
// of this core's dependency pack, so this is a small reimplementation
// rather than a faithful port.
var scancodeSet1ASCII = map[uint8]byte{
	0x02: '1', 0x03: '2', 0x04: '3', 0x05: '4', 0x06: '5',
	0x07: '6', 0x08: '7', 0x09: '8', 0x0A: '9', 0x0B: '0',
	0x0C: '-', 0x0D: '=',
	0x0F: '\t',
	0x10: 'q', 0x11: 'w', 0x12: 'e', 0x13: 'r', 0x14: 't',
	0x15: 'y', 0x16: 'u', 0x17: 'i', 0x18: 'o', 0x19: 'p',
	0x1A: '[', 0x1B: ']', 0x1C: '\n',
	0x1E: 'a', 0x1F: 's', 0x20: 'd', 0x21: 'f', 0x22: 'g',
	0x23: 'h', 0x24: 'j', 0x25: 'k', 0x26: 'l',
	0x27: ';', 0x28: '\'', 0x29: '`', 0x2B: '\\',
	0x2C: 'z', 0x2D: 'x', 0x2E: 'c', 0x2F: 'v', 0x30: 'b',
	0x31: 'n', 0x32: 'm',
	0x33: ',', 0x34: '.', 0x35: '/',
	0x39: ' ',
}

// makeCodeMask isolates the make/break bit (bit 7) of a scancode set 1
// byte; a set bit means a key-release event, which this decoder ignores.
const makeCodeMask = 0x80

// Decode translates a raw scancode into an ASCII character. It returns
// ok=false for break codes, extended-key prefixes (0xE0) and any make code
// outside the covered subset.
func Decode(scancode uint8) (ch byte, ok bool) {
	if scancode&makeCodeMask != 0 {
		return 0, false
	}

	ch, ok = scancodeSet1ASCII[scancode]
	return ch, ok
}
