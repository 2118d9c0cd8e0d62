package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/gtejasvarma/vani/core/audio"
)

const (
	captureChannels = 1
	// periodSizeInFrames is 30ms at the default sample rate, small enough to
	// keep partial transcripts responsive.
	periodSizeInFrames = 480
	capturePeriods     = 3
)

type captureClient struct {
	device *malgo.Device

	mu      sync.Mutex
	onAudio func(audio []byte)
}

func (c *captureClient) Init(audioContext *malgo.AllocatedContext) error {
	config := malgo.DefaultDeviceConfig(malgo.Capture)
	config.SampleRate = uint32(audio.DefaultSampleRate)
	config.Capture.Format = malgo.FormatS16
	config.Capture.Channels = captureChannels
	config.Alsa.NoMMap = 1
	config.PerformanceProfile = malgo.LowLatency
	config.PeriodSizeInFrames = periodSizeInFrames
	config.Periods = capturePeriods

	bytesPerFrame := malgo.SampleSizeInBytes(config.Capture.Format) * captureChannels

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			n := int(frameCount) * bytesPerFrame
			if n == 0 || len(pInput) < n {
				return
			}

			c.mu.Lock()
			onAudio := c.onAudio
			c.mu.Unlock()
			if onAudio != nil {
				onAudio(pInput[:n])
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	c.device = device
	return nil
}

// Start begins delivering microphone chunks to onAudio. Starting an already
// started client only swaps the callback.
func (c *captureClient) Start(onAudio func(audio []byte)) error {
	if c.device == nil {
		return fmt.Errorf("capture device not initialized")
	}

	c.mu.Lock()
	c.onAudio = onAudio
	c.mu.Unlock()

	if c.device.IsStarted() {
		return nil
	}
	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	return nil
}

func (c *captureClient) Stop() error {
	if c.device == nil {
		return fmt.Errorf("capture device not initialized")
	}

	c.mu.Lock()
	c.onAudio = nil
	c.mu.Unlock()

	if !c.device.IsStarted() {
		return nil
	}
	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop capture device: %w", err)
	}

	return nil
}

func (c *captureClient) Uninit() error {
	c.mu.Lock()
	c.onAudio = nil
	c.mu.Unlock()

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}
	return nil
}
