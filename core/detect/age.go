package detect

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/huangsam/docscope/schema"
)

// minYear is the earliest year accepted as a date.
const minYear = 1990

var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// Age is the estimated era of one file.
type Age struct {
	Bucket     schema.AgeBucket
	LatestYear int
	Years      []int
}

// EstimateAge reads 4-digit years from comment text; the latest one decides the bucket.
func EstimateAge(src *Source, nowYear int) Age {
	seen := make(map[int]struct{})
	for _, line := range src.Lines {
		if line.Comment == "" {
			continue
		}
		for _, tok := range yearPattern.FindAllString(line.Comment, -1) {
			y, err := strconv.Atoi(tok)
			if err != nil || y < minYear || y > nowYear {
				continue
			}
			seen[y] = struct{}{}
		}
	}
	age := Age{Bucket: schema.AgeUnknown}
	for y := range seen {
		age.Years = append(age.Years, y)
	}
	if len(age.Years) == 0 {
		return age
	}
	sort.Ints(age.Years)
	age.LatestYear = age.Years[len(age.Years)-1]
	age.Bucket = BucketForYear(age.LatestYear)
	return age
}

// BucketForYear maps a year onto its age bucket.
func BucketForYear(year int) schema.AgeBucket {
	switch {
	case year <= 0:
		return schema.AgeUnknown
	case year < 2010:
		return schema.AgePre2010
	case year <= 2015:
		return schema.Age2010
	case year <= 2020:
		return schema.Age2016
	default:
		return schema.Age2021
	}
}
