package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int {
	return &n
}

func TestRatingToBucket(t *testing.T) {
	testCases := []struct {
		name     string
		rating   *int
		expected string
	}{
		{name: "nil rating is unrated", rating: nil, expected: "unrated"},
		{name: "zero rating", rating: intPtr(0), expected: "newbie"},
		{name: "just below first threshold", rating: intPtr(999), expected: "newbie"},
		{name: "at first threshold", rating: intPtr(1000), expected: "amateur"},
		{name: "just below expert", rating: intPtr(1299), expected: "amateur"},
		{name: "at expert threshold", rating: intPtr(1300), expected: "expert"},
		{name: "at candidate-master threshold", rating: intPtr(1600), expected: "candidate-master"},
		{name: "at master threshold", rating: intPtr(1900), expected: "master"},
		{name: "just below grandmaster", rating: intPtr(2399), expected: "master"},
		{name: "at grandmaster threshold", rating: intPtr(2400), expected: "grandmaster"},
		{name: "at target threshold", rating: intPtr(3000), expected: "target"},
		{name: "above every threshold", rating: intPtr(4500), expected: "target"},
		{name: "negative rating", rating: intPtr(-200), expected: "newbie"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RatingToBucket(tc.rating))
		})
	}
}

// Bucket assignment must be monotonic: a higher rating can never map to
// an earlier bucket.
func TestRatingToBucket_Monotonic(t *testing.T) {
	index := make(map[string]int, len(RatingBuckets))
	for i, bucket := range RatingBuckets {
		index[bucket] = i
	}

	previous := 0
	for rating := -100; rating <= 3500; rating += 50 {
		bucket := RatingToBucket(intPtr(rating))
		current, ok := index[bucket]
		assert.True(t, ok, "unknown bucket %q for rating %d", bucket, rating)
		assert.GreaterOrEqual(t, current, previous, "bucket order regressed at rating %d", rating)
		previous = current
	}
}

func TestAllBuckets(t *testing.T) {
	buckets := AllBuckets()
	assert.Len(t, buckets, len(RatingBuckets)+1)
	assert.Equal(t, UnratedBucket, buckets[len(buckets)-1])
}
