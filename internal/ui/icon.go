package ui

// iconBytes is a 16x16 PNG placeholder used for the tray icon.
var iconBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0xf3, 0xff, 0x61, 0x00, 0x00, 0x00,
	0x22, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x38, 0x71, 0xe2, 0xd2,
	0x7f, 0x4a, 0x30, 0x03, 0x88, 0xd0, 0xd0, 0xb1, 0x21, 0x0b, 0x8f, 0x1a,
	0x30, 0x6a, 0xc0, 0xa8, 0x01, 0xd4, 0x36, 0x80, 0x12, 0x0c, 0x00, 0x80,
	0xad, 0xfc, 0x48, 0x15, 0x9b, 0x56, 0xef, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
