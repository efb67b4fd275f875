// Package severity scores CVSS vectors and maps scores and free-form severity
// labels onto a fixed set of ratings.
package severity

import (
	"errors"
	"strings"

	gocvss20 "github.com/pandatix/go-cvss/20"
	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	gocvss40 "github.com/pandatix/go-cvss/40"
)

// Rating represents the severity level of a vulnerability.
type Rating string

const (
	CriticalRating Rating = "CRITICAL"
	HighRating     Rating = "HIGH"
	MediumRating   Rating = "MEDIUM"
	LowRating      Rating = "LOW"
	InfoRating     Rating = "INFO"
	UnknownRating  Rating = "UNKNOWN"
)

// ErrEmptyVector is returned when there is no vector to score
var ErrEmptyVector = errors.New("empty CVSS vector")

// CalculateScore computes the base score and rating of a CVSS vector. The CVSS
// version is taken from the vector prefix, with unprefixed vectors treated as
// CVSS v2.0.
func CalculateScore(vector string) (float64, string, error) {
	score := -1.0
	rating := string(UnknownRating)
	var err error

	switch {
	case vector == "":
		err = ErrEmptyVector
	case strings.HasPrefix(vector, "CVSS:3.0/"):
		var vec *gocvss30.CVSS30
		vec, err = gocvss30.ParseVector(vector)
		if err == nil {
			score = vec.BaseScore()
			rating, err = gocvss30.Rating(score)
		}
	case strings.HasPrefix(vector, "CVSS:3.1/"):
		var vec *gocvss31.CVSS31
		vec, err = gocvss31.ParseVector(vector)
		if err == nil {
			score = vec.BaseScore()
			rating, err = gocvss31.Rating(score)
		}
	case strings.HasPrefix(vector, "CVSS:4.0/"):
		var vec *gocvss40.CVSS40
		vec, err = gocvss40.ParseVector(vector)
		if err == nil {
			score = vec.Score()
			rating, err = gocvss40.Rating(score)
		}
	default:
		var vec *gocvss20.CVSS20
		vec, err = gocvss20.ParseVector(vector)
		if err == nil {
			score = vec.BaseScore()
			// CVSS 2.0 does not define a rating, use CVSS 3.0's rating instead
			rating, err = gocvss30.Rating(score)
		}
	}

	if err != nil {
		return -1, string(UnknownRating), err
	}

	return score, rating, nil
}

// ParseRating maps a severity label onto a Rating, ignoring case.
// Anything that is not a known rating is UnknownRating.
func ParseRating(label string) Rating {
	switch r := Rating(strings.ToUpper(strings.TrimSpace(label))); r {
	case CriticalRating, HighRating, MediumRating, LowRating, InfoRating:
		return r
	case UnknownRating:
		return UnknownRating
	}

	return UnknownRating
}
