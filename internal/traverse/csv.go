package traverse

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// WriteCSV writes the traverse profile to path.
func WriteCSV(path string, r *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Write(f, r); err != nil {
		return err
	}
	return f.Close()
}

// Write emits one CSV row per segment.
func Write(out io.Writer, r *Result) error {
	w := csv.NewWriter(out)

	header := []string{
		"index",
		"depth_ft",
		"pressure_psia",
		"mixture_mass_lbm_per_stb",
		"mixture_volume_ft3_per_stb",
		"mixture_density_lbm_ft3",
		"friction_factor",
		"k_factor",
		"gradient_psi_ft",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range r.Segments {
		row := []string{
			strconv.Itoa(s.Index),
			fmtFloat(s.Depth),
			fmtFloat(s.Pressure),
			fmtFloat(s.MixtureMass),
			fmtFloat(s.MixtureVolume),
			fmtFloat(s.MixtureDensity),
			fmtFloat(s.FrictionFactor),
			fmtFloat(s.KFactor),
			fmtFloat(s.Gradient),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
