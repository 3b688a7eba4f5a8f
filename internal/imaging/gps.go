package imaging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// DecimalDegrees converts a degrees/minutes/seconds triple. The result is negated for
// southern latitudes ("S") and western longitudes ("W").
func DecimalDegrees(deg, min, sec float64, ref string) float64 {
	dec := deg + min/60 + sec/3600
	switch strings.ToUpper(strings.TrimSpace(ref)) {
	case "S", "W":
		return -dec
	}
	return dec
}

// MapLink formats a map URL for a decimal coordinate pair.
func MapLink(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%.6f,%.6f", lat, lon)
}

// GPSLink builds a map link from the GPS tags of x.
func GPSLink(x *exif.Exif) (string, error) {
	if x == nil {
		return "", errNoEXIF
	}
	lat, err := coordinate(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	if err != nil {
		return "", err
	}
	lon, err := coordinate(x, exif.GPSLongitude, exif.GPSLongitudeRef)
	if err != nil {
		return "", err
	}
	return MapLink(lat, lon), nil
}

func coordinate(x *exif.Exif, valueField, refField exif.FieldName) (float64, error) {
	value, err := x.Get(valueField)
	if err != nil {
		return 0, err
	}
	refTag, err := x.Get(refField)
	if err != nil {
		return 0, err
	}
	ref, err := refTag.StringVal()
	if err != nil {
		return 0, err
	}

	dms, err := rationals(value, 3)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", valueField, err)
	}
	return DecimalDegrees(dms[0], dms[1], dms[2], strings.TrimRight(ref, "\x00")), nil
}

func rationals(tag *tiff.Tag, n int) ([]float64, error) {
	if tag.Format() != tiff.RatVal || int(tag.Count) < n {
		return nil, errors.New("expected rational triple")
	}
	out := make([]float64, n)
	for i := range out {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return nil, err
		}
		if den == 0 {
			return nil, errors.New("zero denominator")
		}
		out[i] = float64(num) / float64(den)
	}
	return out, nil
}
