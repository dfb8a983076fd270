package biomarkers

// Peak detection constants, pinned from the event-detection thresholds the
// pipeline was validated with.
const (
	// PeakMinProminenceFrac is the minimum peak prominence as a fraction of
	// the signal's range.
	PeakMinProminenceFrac = 0.1
	// PeakMinDistanceFrames is the minimum spacing between detected peaks.
	PeakMinDistanceFrames = 5
)

// DetectPeaks returns the indices of local maxima whose prominence exceeds
// PeakMinProminenceFrac of the signal range, keeping the higher peak when
// two fall within PeakMinDistanceFrames of each other. Used to find tap and
// open/close cycle events.
func DetectPeaks(sig []float64) []int {
	n := len(sig)
	if n < 3 {
		return nil
	}

	lo, hi := sig[0], sig[0]
	for _, v := range sig {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	minProm := (hi - lo) * PeakMinProminenceFrac
	if minProm == 0 {
		return nil
	}

	var peaks []int
	for i := 1; i < n-1; i++ {
		if sig[i] <= sig[i-1] || sig[i] < sig[i+1] {
			continue
		}
		if prominence(sig, i) < minProm {
			continue
		}
		if len(peaks) > 0 && i-peaks[len(peaks)-1] < PeakMinDistanceFrames {
			// Keep the taller of the two close peaks.
			if sig[i] > sig[peaks[len(peaks)-1]] {
				peaks[len(peaks)-1] = i
			}
			continue
		}
		peaks = append(peaks, i)
	}
	return peaks
}

// prominence measures how far a peak rises above the higher of the two
// valley floors separating it from taller terrain.
func prominence(sig []float64, peak int) float64 {
	leftMin := sig[peak]
	for i := peak - 1; i >= 0; i-- {
		if sig[i] > sig[peak] {
			break
		}
		if sig[i] < leftMin {
			leftMin = sig[i]
		}
	}
	rightMin := sig[peak]
	for i := peak + 1; i < len(sig); i++ {
		if sig[i] > sig[peak] {
			break
		}
		if sig[i] < rightMin {
			rightMin = sig[i]
		}
	}
	base := leftMin
	if rightMin > base {
		base = rightMin
	}
	return sig[peak] - base
}

// InterPeakIntervals converts peak indices into intervals in seconds.
func InterPeakIntervals(peaks []int, fs float64) []float64 {
	if len(peaks) < 2 || fs <= 0 {
		return nil
	}
	out := make([]float64, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		out[i-1] = float64(peaks[i]-peaks[i-1]) / fs
	}
	return out
}

// CycleFrequency estimates the repetition rate in Hz from detected peaks.
// ok is false with fewer than two peaks.
func CycleFrequency(peaks []int, fs float64) (float64, bool) {
	intervals := InterPeakIntervals(peaks, fs)
	if len(intervals) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range intervals {
		sum += v
	}
	mean := sum / float64(len(intervals))
	if mean <= 0 {
		return 0, false
	}
	return 1 / mean, true
}
