package admin

import "testing"

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, 20},
		{3, 50, 3, 50},
		{-1, 500, 1, 100},
	}
	for _, tt := range tests {
		p, s := NormalizePage(tt.page, tt.size)
		if p != tt.wantPage || s != tt.wantSize {
			t.Errorf("NormalizePage(%d, %d) = %d, %d; want %d, %d", tt.page, tt.size, p, s, tt.wantPage, tt.wantSize)
		}
	}
}

func TestPage_Pages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{5, 0, 1},
	}
	for _, tt := range tests {
		p := Page[int]{Total: tt.total, PageSize: tt.size}
		if got := p.Pages(); got != tt.want {
			t.Errorf("Pages() total=%d size=%d = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}
