// Package level turns raw audio samples into a normalized 0..1 loudness
// value and publishes it at a fixed cadence for UI consumption.
package level

import (
	"math"
)

const (
	// floorDB is the metering floor; anything quieter reads as 0.
	floorDB = -60.0
	// rmsFloor avoids log10(0) on silent buffers.
	rmsFloor = 1e-6
)

// FromBuffer computes the normalized level of an interleaved int16 buffer.
// It takes the root-mean-square energy of the first channel, converts to
// decibels and rescales [-60 dB, 0 dB] linearly onto [0, 1]. Silence maps
// to 0, a full-scale tone close to 1.
func FromBuffer(samples []int16, channels int) float64 {
	db := PowerDB(samples, channels)
	if db < floorDB {
		db = floorDB
	}
	return clamp01(1 - db/floorDB)
}

// PowerDB returns the average power of the buffer's first channel in
// decibels relative to full scale. An empty buffer reads as the metering
// floor.
func PowerDB(samples []int16, channels int) float64 {
	if channels < 1 {
		channels = 1
	}
	frames := len(samples) / channels
	if frames == 0 {
		return 20 * math.Log10(rmsFloor)
	}

	var sum float64
	for i := 0; i < frames; i++ {
		s := float64(samples[i*channels]) / 32768.0
		sum += s * s
	}
	rms := math.Sqrt(sum / float64(frames))
	return 20 * math.Log10(math.Max(rms, rmsFloor))
}

// FromPower converts a player-reported average power in decibels to a
// linear 0..1 level (10^(dB/20), clamped). Used on the playback path so
// both meters land on a comparable visual scale.
func FromPower(db float64) float64 {
	return clamp01(math.Pow(10, db/20))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
