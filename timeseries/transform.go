package timeseries

import (
	"fmt"
)

// Normalize standardizes the series to zero mean and unit sample standard
// deviation. The statistics come from the receiver's own present values, so
// callers window first when only recent history should count. Absent values
// stay absent.
func (s *Series) Normalize() (*Series, error) {
	present := s.Present()
	if len(present) < 2 {
		return nil, &DegenerateInputError{
			Series: s.Name,
			Reason: fmt.Sprintf("need at least 2 observations to normalize, have %d", len(present)),
		}
	}

	if Flat(present) {
		return nil, &DegenerateInputError{Series: s.Name, Reason: "zero standard deviation"}
	}
	mean := s.Mean()
	std := s.Std()

	out := s.Copy()
	for i, v := range out.Values {
		if !IsAbsent(v) {
			out.Values[i] = (v - mean) / std
		}
	}
	return out, nil
}

// Rolling returns the trailing mean over window observations. The output has
// the same dates as the receiver; the first window-1 values are absent, as is
// any window containing an absent value.
func (s *Series) Rolling(window int) (*Series, error) {
	if window < 1 {
		return nil, fmt.Errorf("rolling window must be at least 1, got %d", window)
	}

	out := s.Copy()
	out.Name = fmt.Sprintf("%s_%dM", s.Name, window)

	sum := 0.0
	missing := 0
	for i, v := range s.Values {
		if IsAbsent(v) {
			missing++
		} else {
			sum += v
		}
		if i >= window {
			old := s.Values[i-window]
			if IsAbsent(old) {
				missing--
			} else {
				sum -= old
			}
		}

		if i < window-1 || missing > 0 {
			out.Values[i] = Absent()
			continue
		}
		out.Values[i] = sum / float64(window)
	}
	return out, nil
}
