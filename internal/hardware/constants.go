package hardware

const (
	DefaultButtonChip = "gpiochip0"
	DefaultButtonLine = 17

	DefaultSPIDevice  = "/dev/spidev0.0"
	DefaultSPISpeedHz = 2400000

	DefaultFixedLEDs = 4
	DefaultRGBLEDs   = 4

	// DefaultMaxBrightness is the global output scale applied to every
	// pixel before it is put on the wire.
	DefaultMaxBrightness = 250

	Consumer = "lightbar-service"
)

// spidev ioctls, _IOW('k', n, size).
const (
	spiIocWrMode        = 0x40016b01
	spiIocWrBitsPerWord = 0x40016b03
	spiIocWrMaxSpeedHz  = 0x40046b04
)

const (
	// Each data bit becomes three SPI bits: 110 for one, 100 for zero.
	spiBitsPerDataBit = 3
	// encodedBytesPerByte is the SPI bytes one 8-bit channel expands to.
	encodedBytesPerByte = 8 * spiBitsPerDataBit / 8
	bytesPerPixel       = 3 * encodedBytesPerByte

	// resetTimeMicros is how long the data line is held low to latch a frame.
	resetTimeMicros = 300
)
