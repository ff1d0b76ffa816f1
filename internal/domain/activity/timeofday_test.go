package activity

import "testing"

func TestTimeOfDayFor(t *testing.T) {
	want := map[int]TimeOfDay{
		0: Night, 5: Night, 6: Morning, 11: Morning, 12: Afternoon, 17: Afternoon,
		18: Evening, 22: Evening, 23: Night,
	}
	for hour, bucket := range want {
		if got := TimeOfDayFor(hour); got != bucket {
			t.Fatalf("hour %d: expected %s got %s", hour, bucket, got)
		}
	}
}

func TestTimeOfDayCoversEveryHour(t *testing.T) {
	counts := map[TimeOfDay]int{}
	for h := 0; h < 24; h++ {
		counts[TimeOfDayFor(h)]++
	}
	expected := map[TimeOfDay]int{Morning: 6, Afternoon: 6, Evening: 5, Night: 7}
	for bucket, n := range expected {
		if counts[bucket] != n {
			t.Fatalf("bucket %s: expected %d hours got %d", bucket, n, counts[bucket])
		}
	}
	if len(counts) != 4 {
		t.Fatalf("expected exactly four buckets, got %v", counts)
	}
}
