package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// ToneGenerator generates a sine blip with a linear frequency glide and exponential decay
// Endless; bound it with beep.Take
type ToneGenerator struct {
	sr       beep.SampleRate
	from, to float64 // Hz at start and after glide
	glide    int     // samples to reach to
	decay    float64 // envelope decay per second
	gain     float64
	pos      int
	phase    float64
}

// NewToneGenerator creates a tone gliding from..to over glideSamples
func NewToneGenerator(sr beep.SampleRate, from, to float64, glideSamples int, decay, gain float64) *ToneGenerator {
	if glideSamples < 1 {
		glideSamples = 1
	}
	return &ToneGenerator{sr: sr, from: from, to: to, glide: glideSamples, decay: decay, gain: gain}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		k := math.Min(float64(g.pos)/float64(g.glide), 1)
		freq := g.from + (g.to-g.from)*k
		t := float64(g.pos) / float64(g.sr)

		sample := g.gain * math.Exp(-t*g.decay) * math.Sin(2*math.Pi*g.phase)

		g.phase += freq / float64(g.sr)
		if g.phase >= 1 {
			g.phase -= 1
		}
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}

// BuzzGenerator generates a low-pitch buzz with a short fade-in
type BuzzGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBuzzGenerator creates a buzz sound generator
func NewBuzzGenerator(sr beep.SampleRate, freq float64) *BuzzGenerator {
	return &BuzzGenerator{
		sr:   sr,
		freq: freq,
	}
}

func (g *BuzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Fundamental plus two harmonics for a harsh edge
		sample := 0.3*math.Sin(2*math.Pi*g.freq*t) +
			0.15*math.Sin(2*math.Pi*g.freq*2*t) +
			0.075*math.Sin(2*math.Pi*g.freq*3*t)

		envelope := math.Min(t/0.02, 1.0)
		sample *= envelope * 0.2

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BuzzGenerator) Err() error {
	return nil
}
