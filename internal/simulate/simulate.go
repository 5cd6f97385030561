// Package simulate runs the staff Kalman filter over a synthetic noisy line
// and plots what the filter believed against what it measured. It is a
// tuning aid for the tracker's motion model.
package simulate

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"math/rand/v2"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/ironsheep/staff-tracker-mcp/internal/kalman"
)

// Config describes the synthetic line.
type Config struct {
	// Length is the number of columns generated.
	Length int `json:"length"`

	// Start is the true row at column 1.
	Start float32 `json:"start"`

	// Step and Increment make the true row rise by Increment every Step
	// columns.
	Step      int     `json:"step"`
	Increment float32 `json:"increment"`

	// Noise is the largest absolute integer jitter added to each measurement.
	Noise int `json:"noise"`

	// BurstFrom and BurstTo bound an exclusive column range where the jitter
	// is BurstNoise instead.
	BurstFrom  int `json:"burst_from"`
	BurstTo    int `json:"burst_to"`
	BurstNoise int `json:"burst_noise"`

	// Seed makes runs reproducible.
	Seed uint64 `json:"seed"`
}

// DefaultConfig returns a 500 column line starting at row 250 that climbs one
// row every ten columns, with a noisier stretch between columns 100 and 120.
func DefaultConfig() Config {
	return Config{
		Length:     500,
		Start:      250,
		Step:       10,
		Increment:  1,
		Noise:      3,
		BurstFrom:  100,
		BurstTo:    120,
		BurstNoise: 6,
		Seed:       1,
	}
}

// Sample is one simulated column.
type Sample struct {
	Column   int     `json:"column"`
	Truth    float32 `json:"truth"`
	Measured float32 `json:"measured"`
	Filtered float32 `json:"filtered"`
}

// Validate reports configurations Run rejects.
func (c Config) Validate() error {
	if c.Length < 0 {
		return fmt.Errorf("length must not be negative, got %d", c.Length)
	}
	if c.Noise < 0 || c.BurstNoise < 0 {
		return fmt.Errorf("noise must not be negative, got %d and %d", c.Noise, c.BurstNoise)
	}
	return nil
}

// Line returns the true and measured rows for columns 1..cfg.Length. A
// non-positive Length yields empty slices.
func Line(cfg Config) (truth, measured []float32) {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	n := max(cfg.Length, 0)
	truth = make([]float32, 0, n)
	measured = make([]float32, 0, n)
	x := cfg.Start
	for col := 1; col <= cfg.Length; col++ {
		noise := cfg.Noise
		if col > cfg.BurstFrom && col < cfg.BurstTo {
			noise = cfg.BurstNoise
		}
		jitter := 0
		if noise > 0 {
			jitter = rng.IntN(2*noise+1) - noise
		}
		truth = append(truth, x)
		measured = append(measured, x+float32(jitter))
		if cfg.Step > 0 && col%cfg.Step == 0 {
			x += cfg.Increment
		}
	}
	return truth, measured
}

// Run feeds the measured line through predict/update one column at a time.
//
// The filter starts at the first measurement with zero slope and identity
// covariance. Each later measurement is (m, m − previous m). Filtered is the
// predicted position before the update, which is what the tracker gates
// against.
func Run(cfg Config) ([]Sample, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	truth, measured := Line(cfg)
	if len(measured) == 0 {
		return nil, nil
	}

	x := kalman.Vec2{measured[0], 0}
	p := kalman.Identity
	a := kalman.Transition(1)

	samples := make([]Sample, 0, len(measured))
	samples = append(samples, Sample{Column: 1, Truth: truth[0], Measured: measured[0], Filtered: measured[0]})

	for i := 1; i < len(measured); i++ {
		x, p = kalman.Predict(x, p, a)
		samples = append(samples, Sample{
			Column:   i + 1,
			Truth:    truth[i],
			Measured: measured[i],
			Filtered: x[0],
		})

		z := kalman.Vec2{measured[i], measured[i] - measured[i-1]}
		var err error
		x, p, err = kalman.Update(x, p, z, kalman.Identity, kalman.Identity)
		if err != nil {
			return samples, fmt.Errorf("column %d: %w", i+1, err)
		}
	}
	return samples, nil
}

// Summary compares measurement and filter error against the true line.
type Summary struct {
	Samples          int     `json:"samples"`
	MeasuredMeanErr  float64 `json:"measured_mean_abs_error"`
	FilteredMeanErr  float64 `json:"filtered_mean_abs_error"`
	FilteredMaxError float64 `json:"filtered_max_abs_error"`
}

// Summarize computes error statistics over samples.
func Summarize(samples []Sample) Summary {
	s := Summary{Samples: len(samples)}
	if len(samples) == 0 {
		return s
	}
	for _, smp := range samples {
		m := math.Abs(float64(smp.Measured - smp.Truth))
		f := math.Abs(float64(smp.Filtered - smp.Truth))
		s.MeasuredMeanErr += m
		s.FilteredMeanErr += f
		s.FilteredMaxError = math.Max(s.FilteredMaxError, f)
	}
	n := float64(len(samples))
	s.MeasuredMeanErr /= n
	s.FilteredMeanErr /= n
	return s
}

// Plot writes a PNG chart of measured points, the filtered track and the
// true line.
func Plot(samples []Sample, w io.Writer) error {
	p := plot.New()
	p.Title.Text = "Staff Kalman filter on a synthetic line"
	p.X.Label.Text = "Column"
	p.Y.Label.Text = "Row"

	measured := make(plotter.XYs, 0, len(samples))
	filtered := make(plotter.XYs, 0, len(samples))
	truth := make(plotter.XYs, 0, len(samples))
	for _, s := range samples {
		x := float64(s.Column)
		measured = append(measured, plotter.XY{X: x, Y: float64(s.Measured)})
		filtered = append(filtered, plotter.XY{X: x, Y: float64(s.Filtered)})
		truth = append(truth, plotter.XY{X: x, Y: float64(s.Truth)})
	}

	scatter, err := plotter.NewScatter(measured)
	if err != nil {
		return fmt.Errorf("measured series: %w", err)
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 220, A: 255}
	scatter.GlyphStyle.Radius = vg.Points(1)

	filteredLine, err := plotter.NewLine(filtered)
	if err != nil {
		return fmt.Errorf("filtered series: %w", err)
	}
	filteredLine.Color = color.RGBA{B: 220, A: 255}
	filteredLine.Width = vg.Points(1)

	truthLine, err := plotter.NewLine(truth)
	if err != nil {
		return fmt.Errorf("truth series: %w", err)
	}
	truthLine.Color = color.Gray{Y: 120}
	truthLine.Width = vg.Points(0.5)
	truthLine.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}

	p.Add(scatter, truthLine, filteredLine)
	p.Legend.Add("measured", scatter)
	p.Legend.Add("filtered", filteredLine)
	p.Legend.Add("truth", truthLine)

	c := vgimg.PngCanvas{Canvas: vgimg.New(10*vg.Inch, 5*vg.Inch)}
	p.Draw(draw.New(c))
	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return nil
}
