package hardware

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"lightbar-service/internal/logger"
	"lightbar-service/internal/types"
)

// SPIStrip drives a WS2812 chain through a spidev MOSI line.
type SPIStrip struct {
	device        string
	speedHz       uint32
	maxBrightness uint8
	logger        *logger.Logger

	mu  sync.Mutex
	fd  int
	buf []byte
}

func NewSPIStrip(device string, speedHz uint32, maxBrightness uint8, l *logger.Logger) *SPIStrip {
	return &SPIStrip{
		device:        device,
		speedHz:       speedHz,
		maxBrightness: maxBrightness,
		logger:        l,
		fd:            -1,
	}
}

func (s *SPIStrip) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Infof("Opening LED strip on %s at %d Hz", s.device, s.speedHz)
	fd, err := unix.Open(s.device, unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.device, err)
	}

	if err := unix.IoctlSetPointerInt(fd, spiIocWrMode, 0); err != nil {
		unix.Close(fd)
		return fmt.Errorf("failed to set SPI mode: %w", err)
	}
	if err := unix.IoctlSetPointerInt(fd, spiIocWrBitsPerWord, 8); err != nil {
		unix.Close(fd)
		return fmt.Errorf("failed to set SPI word size: %w", err)
	}
	if err := unix.IoctlSetPointerInt(fd, spiIocWrMaxSpeedHz, int(s.speedHz)); err != nil {
		unix.Close(fd)
		return fmt.Errorf("failed to set SPI speed: %w", err)
	}

	s.fd = fd
	return nil
}

// Write encodes and transmits one frame. Short writes are continued until
// the whole frame is out.
func (s *SPIStrip) Write(px []types.RGB) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fd < 0 {
		return fmt.Errorf("LED strip %s not open", s.device)
	}

	s.buf = EncodeFrame(s.buf, px, s.maxBrightness, s.speedHz)
	offset := 0
	for offset < len(s.buf) {
		n, err := unix.Write(s.fd, s.buf[offset:])
		if err != nil {
			return fmt.Errorf("failed to write LED frame: %w", err)
		}
		offset += n
	}
	return nil
}

func (s *SPIStrip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fd < 0 {
		return nil
	}
	err := unix.Close(s.fd)
	s.fd = -1
	return err
}
