package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"wellflow/internal/model"
)

// Column names of a PVT table file. Matching is case-insensitive and extra
// columns are ignored.
var tableHeader = []string{
	"Pressure",
	"Oil Density",
	"Gas Density",
	"Gas Solubility",
	"Gas Compressibility Factor",
	"Oil FVF",
}

// LoadTableCSV reads a PVT table from a CSV file.
func LoadTableCSV(path string) ([]model.FluidSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := ReadTableCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ReadTableCSV parses a PVT table with a header row.
func ReadTableCSV(r io.Reader) ([]model.FluidSample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: PVT table is empty", model.ErrInvalidInput)
		}
		return nil, err
	}
	cols := make([]int, len(tableHeader))
	for i, name := range tableHeader {
		cols[i] = -1
		for j, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				cols[i] = j
				break
			}
		}
		if cols[i] < 0 {
			return nil, fmt.Errorf("%w: PVT table is missing column %q", model.ErrInvalidInput, name)
		}
	}

	var out []model.FluidSample
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		vals := make([]float64, len(cols))
		for i, c := range cols {
			if c >= len(rec) {
				return nil, fmt.Errorf("%w: line %d has no %q value", model.ErrInvalidInput, line, tableHeader[i])
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[c]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %q: %v", model.ErrInvalidInput, line, tableHeader[i], err)
			}
			vals[i] = v
		}
		out = append(out, model.FluidSample{
			Pressure:                 vals[0],
			OilDensity:               vals[1],
			GasDensity:               vals[2],
			GasSolubility:            vals[3],
			GasCompressibilityFactor: vals[4],
			OilFVF:                   vals[5],
		})
	}
	return out, nil
}

// WriteTableCSV writes rows to path with the standard header.
func WriteTableCSV(path string, rows []model.FluidSample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteTable(f, rows); err != nil {
		return err
	}
	return f.Close()
}

// WriteTable writes rows as CSV.
func WriteTable(out io.Writer, rows []model.FluidSample) error {
	w := csv.NewWriter(out)
	if err := w.Write(tableHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			fmtFloat(r.Pressure),
			fmtFloat(r.OilDensity),
			fmtFloat(r.GasDensity),
			fmtFloat(r.GasSolubility),
			fmtFloat(r.GasCompressibilityFactor),
			fmtFloat(r.OilFVF),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
