package entities

import "sort"

// UnratedBucket is the bucket assigned to accounts with no rating.
const UnratedBucket = "unrated"

// RatingBuckets lists the rated bucket names in ascending rating order.
var RatingBuckets = []string{
	"newbie",
	"amateur",
	"expert",
	"candidate-master",
	"master",
	"grandmaster",
	"target",
}

// ratingThresholds[i] is the lowest rating that places a user in
// RatingBuckets[i+1]. Everything at or above the last threshold falls
// into the final bucket.
var ratingThresholds = []int{1000, 1300, 1600, 1900, 2400, 3000}

// RatingToBucket maps a rating to its bucket name. A nil rating maps to
// UnratedBucket.
func RatingToBucket(rating *int) string {
	if rating == nil {
		return UnratedBucket
	}
	return RatingBuckets[sort.SearchInts(ratingThresholds, *rating+1)]
}

// AllBuckets returns every bucket name including UnratedBucket, in order.
// Used when stripping stale rating roles from a member.
func AllBuckets() []string {
	buckets := make([]string, 0, len(RatingBuckets)+1)
	buckets = append(buckets, RatingBuckets...)
	buckets = append(buckets, UnratedBucket)
	return buckets
}
