package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pitch "github.com/tphakala/go-bitstream-pitch"
)

const testRate = 48000

// writeTestWAV writes 16-bit PCM with one generator per channel.
func writeTestWAV(t *testing.T, frames int, channels ...func(i int) float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	numChannels := len(channels)
	data := make([]int, frames*numChannels)
	for i := range frames {
		for ch, gen := range channels {
			data[i*numChannels+ch] = int(math.Round(gen(i) * maxInt16))
		}
	}

	enc := wav.NewEncoder(f, testRate, bitsPerSample16, numChannels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChannels, SampleRate: testRate},
		Data:           data,
		SourceBitDepth: bitsPerSample16,
	}))
	require.NoError(t, enc.Close())
	_ = f.Close()
	return path
}

func sineAt(freq, amp float64) func(int) float64 {
	return func(i int) float64 {
		return amp * math.Sin(2*math.Pi*freq*float64(i)/testRate)
	}
}

func silence(int) float64 { return 0 }

func defaultOptions() trackOptions {
	return trackOptions{
		window:  pitch.DefaultWindowSize,
		hop:     pitch.DefaultWindowSize / 2,
		maxFreq: pitch.DefaultMaxFrequency,
	}
}

func TestOpenWAVInput_FileNotFound(t *testing.T) {
	_, err := openWAVInput("/nonexistent/file.wav", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")
}

func TestOpenWAVInput_InvalidWAV(t *testing.T) {
	tmpDir := t.TempDir()
	invalidFile := filepath.Join(tmpDir, "invalid.wav")
	err := os.WriteFile(invalidFile, []byte("not a wav file"), 0o644)
	require.NoError(t, err)

	_, err = openWAVInput(invalidFile, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WAV file")
}

func TestOpenWAVInput_Format(t *testing.T) {
	path := writeTestWAV(t, 4800, sineAt(440, 0.5), silence)

	input, err := openWAVInput(path, false)
	require.NoError(t, err)
	defer func() { _ = input.Close() }()

	assert.Equal(t, testRate, input.rate)
	assert.Equal(t, 2, input.channels)
	assert.Equal(t, bitsPerSample16, input.bitDepth)
	assert.NotNil(t, input.format)
}

func TestGetMaxValue(t *testing.T) {
	assert.InDelta(t, maxInt8, getMaxValue(8), 0)
	assert.InDelta(t, maxInt16, getMaxValue(16), 0)
	assert.InDelta(t, maxInt24, getMaxValue(24), 0)
	assert.InDelta(t, maxInt32, getMaxValue(32), 0)
	assert.InDelta(t, maxInt16, getMaxValue(12), 0)
}

func TestExtractChannelInto(t *testing.T) {
	data := []int{100, -200, 300, -400, 500, -600}

	mono := make([]float64, 6)
	extractChannelInto(data, mono, 1, 0, 6, 0.01)
	assert.InDeltaSlice(t, []float64{1, -2, 3, -4, 5, -6}, mono, 1e-12)

	right := make([]float32, 3)
	extractChannelInto(data, right, 2, 1, 3, 0.01)
	assert.InDeltaSlice(t, []float32{-2, -4, -6}, right, 1e-6)
}

func TestNewTrackBuffers(t *testing.T) {
	format := &audio.Format{SampleRate: testRate, NumChannels: 2}
	buffers := newTrackBuffers[float32](2, 24, 4096, format)

	require.NotNil(t, buffers)
	assert.Len(t, buffers.intBuffer.Data, bufferSize*2)
	assert.Len(t, buffers.channelBuf, bufferSize)
	assert.Len(t, buffers.window, 4096)
	assert.InDelta(t, 1/maxInt24, buffers.invMaxVal, 1e-18)
}

func TestProgressTracker_NonVerboseMode(t *testing.T) {
	tracker := newProgressTracker(1000, false)
	require.NotNil(t, tracker)

	assert.False(t, tracker.verbose)
	tracker.reportIfNeeded(500)
	assert.Equal(t, 0, tracker.lastProgress)
}

func TestProgressTracker_VerboseMode(t *testing.T) {
	tracker := newProgressTracker(1000, true)
	tracker.reportIfNeeded(250)
	assert.Equal(t, 25, tracker.lastProgress)

	// Below the next interval: unchanged.
	tracker.reportIfNeeded(300)
	assert.Equal(t, 25, tracker.lastProgress)
}

func TestProgressTracker_ZeroSamples(t *testing.T) {
	tracker := newProgressTracker(0, true)
	tracker.reportIfNeeded(100)
	assert.Equal(t, 0, tracker.lastProgress)
}

func TestWriteFrame(t *testing.T) {
	voiced := frameResult{
		offset:    testRate / 2,
		result:    pitch.Result{Frequency: 440.366, Amplitude: 0.5, Confidence: 0.998},
		reference: 440.0,
	}

	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, voiced, testRate, false))
	assert.Equal(t, "    0.500s    440.37 Hz  amp 0.500  conf 0.998\n", buf.String())

	buf.Reset()
	require.NoError(t, writeFrame(&buf, voiced, testRate, true))
	assert.Contains(t, buf.String(), "acf    440.00 Hz")

	buf.Reset()
	require.NoError(t, writeFrame(&buf, frameResult{}, testRate, true))
	assert.Equal(t, "    0.000s         -  acf         -\n", buf.String())
}

func TestTrackWAV_Sine(t *testing.T) {
	path := writeTestWAV(t, testRate/2, sineAt(440, 0.5))

	var out bytes.Buffer
	stats, err := trackWAV[float64](path, defaultOptions(), &out)
	require.NoError(t, err)

	// Windows start every 1024 samples while 2048 remain.
	assert.Equal(t, 22, stats.windows)
	assert.Equal(t, stats.windows, stats.voiced)
	assert.Equal(t, int64(testRate/2), stats.inputSamples)
	assert.InEpsilon(t, 440.0, stats.pitchSum/float64(stats.voiced), 0.02)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, stats.windows)
	assert.True(t, strings.HasPrefix(lines[1], "    0.021s"), lines[1])
}

func TestTrackWAV_Float32Compare(t *testing.T) {
	path := writeTestWAV(t, 8192, sineAt(220, 0.8))

	opts := defaultOptions()
	opts.hop = opts.window
	opts.compare = true

	var out bytes.Buffer
	stats, err := trackWAV[float32](path, opts, &out)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.windows)
	assert.Equal(t, 4, stats.voiced)

	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		assert.Contains(t, line, "acf")
		assert.NotContains(t, line, "acf         -")
	}
}

func TestTrackWAV_ChannelSelection(t *testing.T) {
	path := writeTestWAV(t, 8192, silence, sineAt(330, 0.5))
	opts := defaultOptions()

	var out bytes.Buffer
	stats, err := trackWAV[float64](path, opts, &out)
	require.NoError(t, err)
	assert.Positive(t, stats.windows)
	assert.Zero(t, stats.voiced, "left channel is silent")

	opts.channel = 1
	out.Reset()
	stats, err = trackWAV[float64](path, opts, &out)
	require.NoError(t, err)
	assert.Equal(t, stats.windows, stats.voiced)

	opts.channel = 2
	_, err = trackWAV[float64](path, opts, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestTrackWAV_WindowTooShort(t *testing.T) {
	path := writeTestWAV(t, 4096, sineAt(440, 0.5))
	opts := defaultOptions()
	opts.window = 128

	_, err := trackWAV[float64](path, opts, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}
