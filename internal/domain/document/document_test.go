package document

import (
	"math"
	"testing"
)

func TestPopularity(t *testing.T) {
	d := Document{ViewCount: 10, DownloadCount: 5}
	want := 10*0.7 + 5*0.3
	if got := d.Popularity(); math.Abs(got-want) > 1e-9 {
		t.Errorf("Popularity() = %f, want %f", got, want)
	}
}

func TestPopularityTenths(t *testing.T) {
	d := Document{ViewCount: 10, DownloadCount: 5}
	if got := d.popularityTenths(); got != 85 {
		t.Errorf("popularityTenths() = %d, want 85", got)
	}
}

func TestMorePopular(t *testing.T) {
	tests := []struct {
		name string
		a, b Document
		want bool
	}{
		{"more views", Document{ID: 2, ViewCount: 10}, Document{ID: 1, ViewCount: 5}, true},
		{"downloads weigh less", Document{ID: 1, ViewCount: 4}, Document{ID: 2, DownloadCount: 9}, true},
		{"more downloads win", Document{ID: 1, ViewCount: 3}, Document{ID: 2, DownloadCount: 9}, false},
		{"exact weighted tie", Document{ID: 1, ViewCount: 3}, Document{ID: 2, DownloadCount: 7}, true},
		{"exact weighted tie reversed", Document{ID: 2, DownloadCount: 7}, Document{ID: 1, ViewCount: 3}, false},
		{"mixed tie", Document{ID: 5, ViewCount: 6, DownloadCount: 1}, Document{ID: 4, ViewCount: 3, DownloadCount: 8}, false},
		{"fewer views", Document{ID: 1, ViewCount: 1}, Document{ID: 2, ViewCount: 2}, false},
		{"tie by id", Document{ID: 1, ViewCount: 4}, Document{ID: 2, ViewCount: 4}, true},
		{"tie by id reversed", Document{ID: 3, ViewCount: 4}, Document{ID: 2, ViewCount: 4}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MorePopular(&tc.a, &tc.b); got != tc.want {
				t.Errorf("MorePopular() = %v, want %v", got, tc.want)
			}
		})
	}
}
