package main

// Default command-line flag values
const (
	defaultSampleRate   = 48000.0 // reference recordings are 48 kHz
	defaultMaxFrequency = 10000.0
)

// PCM layout
const (
	bytesPerSample16 = 2 // little-endian int16
)

// Demo signal parameters
const (
	demoFrequency = 440.0 // A4
	demoAmplitude = 0.8
)
