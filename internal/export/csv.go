package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/scenario"
)

var sampleHeader = []string{"time", "x", "y", "z", "speed", "excitement", "flight_time", "phase"}

// WriteSamples encodes a trace as csv with a header row.
func WriteSamples(out io.Writer, samples []scenario.Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, s := range samples {
		row := []string{
			f(s.Time), f(s.Position.X), f(s.Position.Y), f(s.Position.Z),
			f(s.Speed), f(s.Excitement), f(s.FlightTime), s.Phase.String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadSamples decodes csv written by WriteSamples.
func ReadSamples(in io.Reader) ([]scenario.Sample, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(sampleHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []scenario.Sample{}, nil
	}

	samples := make([]scenario.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [7]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, sampleHeader[j], err)
			}
			vals[j] = v
		}
		phase, err := dynamo.ParsePhase(record[7])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		samples = append(samples, scenario.Sample{
			Time:       vals[0],
			Position:   dynamo.Vec3{X: vals[1], Y: vals[2], Z: vals[3]},
			Speed:      vals[4],
			Excitement: vals[5],
			FlightTime: vals[6],
			Phase:      phase,
		})
	}
	return samples, nil
}
