// Command synthdemo builds a small graph (oscillator -> gain) and either
// plays it live through the system audio device or bounces it to a WAV
// file, demonstrating ramp-scheduled parameter automation.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"synthcore"
	"synthcore/internal/audiodriver"
	"synthcore/internal/effectschain"
	"synthcore/internal/lfo"
	"synthcore/internal/wavcapture"
)

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		waveName   = flag.String("wave", "sawtooth", "waveform: sine|square|sawtooth|triangle")
		engineName = flag.String("engine", "polyblep", "oscillator: polyblep|wavetable")
		freq       = flag.Float64("freq", 220.0, "starting frequency in Hz")
		rampTo     = flag.Float64("ramp-to", 440.0, "frequency to ramp to over -ramp-seconds")
		rampSecs   = flag.Float64("ramp-seconds", 2.0, "duration of the frequency ramp")
		gain       = flag.Float64("gain", 0.5, "output gain, 0..1")
		vibratoHz  = flag.Float64("vibrato-hz", 0, "optional vibrato rate in Hz (0 disables)")
		seconds    = flag.Float64("seconds", 4.0, "total duration to render")
		out        = flag.String("out", "", "write WAV to this path instead of playing live")
		reverb     = flag.Bool("reverb", false, "append a reverb stage to the output chain")
		chorus     = flag.Bool("chorus", false, "append a chorus stage to the output chain")
		distortion = flag.Bool("distortion", false, "append a distortion stage to the output chain")
		delay      = flag.Bool("delay", false, "append a delay stage to the output chain")
		compressor = flag.Bool("compressor", false, "append a compressor stage to the output chain")
		eq         = flag.Bool("eq", false, "append a 5-band EQ stage to the output chain")
	)
	flag.Parse()

	kind, err := parseWaveform(*waveName)
	if err != nil {
		log.Fatal(err)
	}

	g, err := synth.NewGraph(float64(*sampleRate))
	if err != nil {
		log.Fatal(err)
	}

	var osc synth.Node
	var freqParam *synth.Parameter
	switch *engineName {
	case "polyblep":
		o := synth.NewPolyBLEPOscillator(kind)
		o.Frequency().SetValue(float32(*freq))
		o.Frequency().ScheduleLinear(float32(*rampTo), *rampSecs, 0, float64(*sampleRate))
		osc = o
		freqParam = o.Frequency()
	case "wavetable":
		if err := synth.InitializeBanks(g.Clock()); err != nil {
			log.Fatal(err)
		}
		o, err := synth.NewWavetableOscillator(kind, g.Clock())
		if err != nil {
			log.Fatal(err)
		}
		o.Frequency().SetValue(float32(*freq))
		o.Frequency().ScheduleLinear(float32(*rampTo), *rampSecs, 0, float64(*sampleRate))
		osc = o
		freqParam = o.Frequency()
	default:
		log.Fatalf("unknown engine %q: want polyblep or wavetable", *engineName)
	}

	amp := synth.NewGainProcessor()
	amp.Gain().SetValue(float32(*gain))

	g.Add("osc", osc)
	g.Add("amp", amp)
	g.Connect("osc", "amp", "in")
	g.SetOutput("amp")

	var vibrato *lfo.ParameterSource
	if *vibratoHz > 0 {
		vibrato = lfo.NewParameterSource(freqParam, float32(*freq), 5.0, *vibratoHz, lfo.WaveTriangle)
	}

	if err := g.Start(); err != nil {
		log.Fatal(err)
	}

	chain := buildChain(*sampleRate, chainFlags{
		compressor: *compressor,
		distortion: *distortion,
		eq:         *eq,
		chorus:     *chorus,
		delay:      *delay,
		reverb:     *reverb,
	})

	if *out != "" {
		renderToFile(g, *out, *seconds, chain)
		return
	}

	playLive(g, *sampleRate, vibrato, *seconds, chain)
}

type chainFlags struct {
	compressor, distortion, eq, chorus, delay, reverb bool
}

// buildChain assembles the optional post-graph stages selected by flags, in
// a fixed compressor -> distortion -> EQ -> chorus -> delay -> reverb
// order. Returns nil if none are requested, so callers skip the
// post-processing pass entirely.
func buildChain(sampleRate int, f chainFlags) *effectschain.Chain {
	if !f.compressor && !f.distortion && !f.eq && !f.chorus && !f.delay && !f.reverb {
		return nil
	}
	chain := effectschain.NewChain()
	if f.compressor {
		chain.Add(effectschain.NewCompressor(sampleRate, -18, 4, 10, 80, 6))
	}
	if f.distortion {
		chain.Add(effectschain.NewDistortion(sampleRate, 4.0, 0.5, 8000))
	}
	if f.eq {
		eq5 := effectschain.NewEQ5(sampleRate)
		eq5.SetGain(4, 0.6) // tame the highest band a little
		chain.Add(eq5)
	}
	if f.chorus {
		chain.Add(effectschain.NewChorus(sampleRate, 15, 0.2, 4, 0.8, 0.5))
	}
	if f.delay {
		chain.Add(effectschain.NewDelay(sampleRate, 250, 0.35, 0.2, 0.3))
	}
	if f.reverb {
		chain.Add(effectschain.NewReverb(sampleRate, 0.5, 0.6, 0.3))
	}
	return chain
}

func renderToFile(g *synth.Graph, path string, seconds float64, chain *effectschain.Chain) {
	data := wavcapture.RenderWAV(g, seconds, 2, chain)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
	log.Printf("wrote %s (%d bytes)", path, len(data))
}

func playLive(g *synth.Graph, sampleRate int, vibrato *lfo.ParameterSource, seconds float64, chain *effectschain.Chain) {
	player, err := audiodriver.New(sampleRate, g, chain)
	if err != nil {
		log.Fatal(err)
	}
	player.Play()

	const blockFrames = 512
	deadline := time.Now().Add(time.Duration(seconds * float64(time.Second)))
	for time.Now().Before(deadline) {
		if vibrato != nil {
			vibrato.Advance(blockFrames, float64(sampleRate))
		}
		time.Sleep(time.Second * blockFrames / time.Duration(sampleRate))
	}
	player.Stop()
}

func parseWaveform(name string) (synth.WaveformKind, error) {
	switch name {
	case "sine":
		return synth.Sine, nil
	case "square":
		return synth.Square, nil
	case "sawtooth":
		return synth.Sawtooth, nil
	case "triangle":
		return synth.Triangle, nil
	default:
		return 0, fmt.Errorf("unknown waveform %q: want sine, square, sawtooth, or triangle", name)
	}
}
