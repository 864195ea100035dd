package playback

import (
	"testing"
)

func TestApplyVolume(t *testing.T) {
	tests := []struct {
		name     string
		volume   float64
		input    []byte
		expected []byte
	}{
		{
			name:     "full volume passthrough",
			volume:   1.0,
			input:    []byte{0x00, 0x10, 0xFF, 0x7F},
			expected: []byte{0x00, 0x10, 0xFF, 0x7F},
		},
		{
			name:     "half volume",
			volume:   0.5,
			input:    []byte{0x00, 0x10, 0xFE, 0x7F}, // 4096, 32766
			expected: []byte{0x00, 0x08, 0xFF, 0x3F}, // 2048, 16383
		},
		{
			name:     "half volume negative",
			volume:   0.5,
			input:    []byte{0x00, 0xF0}, // -4096
			expected: []byte{0x00, 0xF8}, // -2048
		},
		{
			name:     "zero volume",
			volume:   0.0,
			input:    []byte{0xFF, 0x7F, 0x00, 0x80},
			expected: []byte{0x00, 0x00, 0x00, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &OtoOutput{volume: tt.volume}
			data := make([]byte, len(tt.input))
			copy(data, tt.input)

			o.applyVolume(data)

			for i := range data {
				if data[i] != tt.expected[i] {
					t.Errorf("Byte %d: expected %02X, got %02X", i, tt.expected[i], data[i])
				}
			}
		})
	}
}

func TestSetVolumeClamp(t *testing.T) {
	o := &OtoOutput{volume: 1.0}

	o.SetVolume(-0.5)
	if o.GetVolume() != 0 {
		t.Errorf("Expected volume 0 for negative input, got %f", o.GetVolume())
	}

	o.SetVolume(1.5)
	if o.GetVolume() != 1 {
		t.Errorf("Expected volume 1 for input > 1, got %f", o.GetVolume())
	}

	o.SetVolume(0.25)
	if o.GetVolume() != 0.25 {
		t.Errorf("Expected volume 0.25, got %f", o.GetVolume())
	}
}

func TestSampleRate(t *testing.T) {
	o := &OtoOutput{sampleRate: 22050, volume: 1.0}
	if got := o.SampleRate(); got != 22050 {
		t.Errorf("Expected sample rate 22050, got %d", got)
	}
}
