// Command genmock writes a mock AERONET-style daily-average CSV for local
// runs and manual testing. The output carries the real column vocabulary,
// a handful of wavelength columns, -999 sentinel gaps, and one site with
// deliberately transposed coordinates to exercise the repair path.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock_aod.csv -sites 5 -days 30 -seed 1
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"
)

var wavelengths = []int{340, 380, 440, 500, 675, 870, 1020, 1640}

type site struct {
	name string
	lat  float64
	lon  float64
	elev float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/mock_aod.csv", "output CSV path")
	nSites := flag.Int("sites", 5, "number of sites")
	nDays := flag.Int("days", 30, "number of measurement days per site")
	seed := flag.Int64("seed", 1, "random seed for reproducible fixtures")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	sites := makeSites(rng, *nSites)

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows := 0
	for _, s := range sites {
		for d := 0; d < *nDays; d++ {
			day := base.AddDate(0, 0, d)
			if err := w.Write(row(rng, s, day)); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
			rows++
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	log.Printf("wrote %s: %d sites, %d rows, %d AOD columns", *out, len(sites), rows, len(wavelengths))
	return nil
}

func makeSites(rng *rand.Rand, n int) []site {
	sites := make([]site, n)
	for i := range sites {
		sites[i] = site{
			name: fmt.Sprintf("Mock_Site_%02d", i+1),
			lat:  rng.Float64()*140 - 70,
			lon:  rng.Float64()*340 - 170,
			elev: rng.Float64() * 3000,
		}
	}
	// Transpose one site's coordinates so the repair path gets real input.
	if n > 1 {
		sites[n-1].lat, sites[n-1].lon = sites[n-1].lon, sites[n-1].lat
	}
	return sites
}

func header() []string {
	h := []string{
		"AERONET_Site", "Date(dd:mm:yyyy)", "Day_of_Year",
		"Site_Latitude(Degrees)", "Site_Longitude(Degrees)", "Site_Elevation(m)",
		"Precipitable_Water(cm)", "440-870_Angstrom_Exponent",
	}
	for _, nm := range wavelengths {
		h = append(h, fmt.Sprintf("AOD_%dnm", nm))
	}
	return h
}

func row(rng *rand.Rand, s site, day time.Time) []string {
	r := []string{
		s.name,
		day.Format("02:01:2006"),
		strconv.Itoa(day.YearDay()),
		formatFloat(s.lat),
		formatFloat(s.lon),
		formatFloat(s.elev),
		maybeMissing(rng, rng.Float64()*5),
		maybeMissing(rng, rng.Float64()*2),
	}
	for range wavelengths {
		r = append(r, maybeMissing(rng, rng.Float64()*0.8))
	}
	return r
}

// maybeMissing replaces ~10% of values with the AERONET -999 sentinel.
func maybeMissing(rng *rand.Rand, v float64) string {
	if rng.Float64() < 0.1 {
		return "-999.000000"
	}
	return formatFloat(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
