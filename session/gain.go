package session

import "murmur/audio"

// Auto-gain keeps the rendered waveform visually full without clipping.
// The scaling is cosmetic only; the audio sent for transcription is never
// touched. Attack is fast (loud transients pull the gain down immediately),
// release is a slow exponential to avoid jittery decay. The blend ratios are
// empirical tuning values.
const (
	referenceRange = 128.0
	targetPeak     = 0.9
	minGain        = 1.0
	maxGain        = 8.0
	attackKeep     = 0.70
	releaseKeep    = 0.92
)

// maxDeviation returns the largest absolute sample distance from the
// waveform midpoint.
func maxDeviation(samples []byte) int {
	max := 0
	for _, s := range samples {
		d := int(s) - audio.WaveformMidpoint
		if d < 0 {
			d = -d
		}
		if d > max {
			max = d
		}
	}
	return max
}

// nextGain advances the smoothed gain toward the target for the observed
// deviation. Zero deviation holds the previous gain.
func nextGain(gain float64, dev int) float64 {
	if dev <= 0 {
		return gain
	}
	target := clampGain(targetPeak / (float64(dev) / referenceRange))
	if target < gain {
		gain = gain*attackKeep + target*(1-attackKeep)
	} else {
		gain = gain*releaseKeep + target*(1-releaseKeep)
	}
	return clampGain(gain)
}

func clampGain(g float64) float64 {
	if g < minGain {
		return minGain
	}
	if g > maxGain {
		return maxGain
	}
	return g
}
